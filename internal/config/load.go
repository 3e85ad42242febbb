package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/13rac1/tarmac/internal/types"
	"github.com/pelletier/go-toml/v2"
)

// resolveFile turns a file-or-folder path into the absolute path of the file
// to parse. A folder resolves to filename inside it; whether that file exists
// is left to the read that follows.
func resolveFile(path, filename string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", ioError(path, err)
	}

	if info.IsDir() {
		path = filepath.Join(path, filename)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ioError(path, err)
	}

	return abs, nil
}

// decodeStrict reads path and decodes it into doc, rejecting any key doc
// does not declare.
func decodeStrict(path string, doc any) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return ioError(path, err)
	}

	decoder := toml.NewDecoder(bytes.NewReader(contents))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(doc); err != nil {
		return tomlError(path, describeTOMLError(err))
	}

	return nil
}

// parseSize converts a [w, h] TOML array into a Size.
func parseSize(field string, values []int) (types.Size, error) {
	if len(values) != 2 {
		return types.Size{}, fmt.Errorf("%s: expected [width, height], got %d element(s)", field, len(values))
	}

	if values[0] < 0 || values[1] < 0 {
		return types.Size{}, fmt.Errorf("%s: dimensions must not be negative, got %v", field, values)
	}

	return types.Size{Width: values[0], Height: values[1]}, nil
}

func missingField(name string) error {
	return fmt.Errorf("missing field `%s`", name)
}
