package internal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

// NewYAMLDecoder creates a new YAML decoder with strict mode and validation enabled.
func NewYAMLDecoder(reader io.Reader, opts ...yaml.DecodeOption) *yaml.Decoder {
	validate := validator.New()
	return yaml.NewDecoder(reader,
		append(opts,
			yaml.Strict(),
			yaml.Validator(validate))...)
}

// NewYAMLEncoder creates a new YAML encoder with an indentation of 2 spaces.
func NewYAMLEncoder(writer io.Writer, opts ...yaml.EncodeOption) *yaml.Encoder {
	return yaml.NewEncoder(writer,
		append(opts, yaml.Indent(2))...)
}

// DecodeYAMLFile opens and strictly decodes a single YAML file into out.
func DecodeYAMLFile(path string, out any, opts ...yaml.DecodeOption) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	if err := NewYAMLDecoder(f, opts...).Decode(out); err != nil {
		return fmt.Errorf("decode %q: %w", path, err)
	}
	return nil
}

// WriteFileAtomic writes data to path via a temporary file in the same
// directory followed by a rename, so readers never observe a partial file.
func WriteFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %q: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place %q: %w", path, err)
	}
	return nil
}

// IsDecodeErrorAndPrint checks if the error is a YAML decoding error.
// If it is, it prints the formatted error and returns true.
func IsDecodeErrorAndPrint(err error) bool {
	var yamlError yaml.Error
	if errors.As(err, &yamlError) {
		fmt.Println(yamlError.FormatError(true, true))
		return true
	}
	return false
}
