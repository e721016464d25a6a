package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"github.com/ubuntu-spins/spindex/internal"
)

// LoadError records a descriptor that could not be loaded. Malformed
// descriptors are skipped and reported, never fatal for the run.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("descriptor %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads and validates a single descriptor file. The version field
// must match the file name (minus extension), which is the store key.
func Load(path string) (*Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open descriptor %q: %w", path, err)
	}
	defer f.Close()

	cm := yaml.CommentMap{}
	var d Descriptor
	if err := internal.NewYAMLDecoder(f, yaml.CommentToMap(cm)).Decode(&d); err != nil {
		if internal.IsDecodeErrorAndPrint(err) {
			return nil, fmt.Errorf("parsing descriptor %q", path)
		}
		return nil, fmt.Errorf("decode descriptor %q: %w", path, err)
	}
	d.comments = cm

	key := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if d.Version != key {
		return nil, fmt.Errorf("descriptor %q: version field %q does not match store key %q",
			path, d.Version, key)
	}

	return &d, nil
}

// LoadAll reads every descriptor in dir, sorted by file name so that
// downstream behavior is deterministic. Individual malformed descriptors
// are collected as LoadErrors; only a store-level read failure is
// returned as the final error.
func LoadAll(dir string) ([]*Descriptor, []*LoadError, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read store directory %q: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !IsDescriptorName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var (
		descriptors []*Descriptor
		loadErrs    []*LoadError
	)
	for _, name := range names {
		path := filepath.Join(dir, name)
		d, err := Load(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping malformed descriptor")
			loadErrs = append(loadErrs, &LoadError{Path: path, Err: err})
			continue
		}
		descriptors = append(descriptors, d)
	}

	return descriptors, loadErrs, nil
}

// Save writes the descriptor back to path, preserving comments from the
// original file and re-emitting spin groups in stable key order. The
// write goes through a temp file and rename so a reader never sees a
// half-written descriptor.
func Save(path string, d *Descriptor) error {
	var encOpts []yaml.EncodeOption
	if len(d.comments) > 0 {
		encOpts = append(encOpts, yaml.WithComment(d.comments))
	}

	err := internal.WriteFileAtomic(path, func(w io.Writer) error {
		enc := internal.NewYAMLEncoder(w, encOpts...)
		if err := enc.Encode(d); err != nil {
			return fmt.Errorf("encode descriptor: %w", err)
		}
		return enc.Close()
	})
	if err != nil {
		return fmt.Errorf("save descriptor %q: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("saved descriptor")
	return nil
}

// Path returns the store location for a version in dir.
func Path(dir, version string) string {
	return filepath.Join(dir, version+".yaml")
}

// IsDescriptorName reports whether a file name looks like a store
// descriptor. Every store walk uses this single rule.
func IsDescriptorName(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".yaml" || ext == ".yml"
}
