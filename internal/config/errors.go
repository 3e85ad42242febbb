package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrorKind classifies why a config file failed to load.
type ErrorKind int

const (
	// KindIO means the path could not be probed or read.
	KindIO ErrorKind = iota
	// KindTOML means the file was read but did not match the schema.
	KindTOML
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindTOML:
		return "toml"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// LoadError is returned by Load and LoadProject.
type LoadError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%v in %s", e.Err, e.Path)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsIO reports whether err is a LoadError caused by filesystem access.
func IsIO(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == KindIO
}

// IsTOML reports whether err is a LoadError caused by a schema or syntax
// failure.
func IsTOML(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Kind == KindTOML
}

func ioError(path string, err error) error {
	return &LoadError{Kind: KindIO, Path: path, Err: err}
}

func tomlError(path string, err error) error {
	return &LoadError{Kind: KindTOML, Path: path, Err: err}
}

// describeTOMLError adds the offending keys or position to a go-toml error.
func describeTOMLError(err error) error {
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		keys := make([]string, 0, len(strict.Errors))
		for i := range strict.Errors {
			keys = append(keys, "`"+strings.Join(strict.Errors[i].Key(), ".")+"`")
		}
		return fmt.Errorf("unknown field %s: %w", strings.Join(keys, ", "), err)
	}

	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Errorf("line %d, column %d: %w", row, col, err)
	}

	return err
}
