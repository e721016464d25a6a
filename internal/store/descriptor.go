// Package store is the on-disk collection of per-release version
// descriptors. One YAML file per release train, loaded into an explicit
// in-memory representation, mutated by the checksum resolver and read
// by the catalog builder.
package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ubuntu-spins/spindex/internal"
)

// Descriptor represents one release train, e.g. "24.04.3".
type Descriptor struct {
	// Version is the dotted release version and must match the file name
	// of the descriptor in the store.
	Version string `yaml:"version" validate:"required"`

	// DefaultSettings carries the fixed catalog literals. Optional; the
	// builder falls back to the well-known values when absent.
	DefaultSettings *DefaultSettings `yaml:"default_settings,omitempty"`

	// SpinGroups maps spin identifier to the group of spins built for it.
	SpinGroups SpinGroups `yaml:"spin_groups" validate:"required,dive,required"`

	// comments preserves any hand-written YAML comments across a
	// load-mutate-save cycle.
	comments yaml.CommentMap
}

// DefaultSettings are the catalog document literals.
type DefaultSettings struct {
	Datatype string `yaml:"datatype"`
	Format   string `yaml:"format"`
}

// SpinGroups orders its keys on marshal so that a partial-resolution run
// never reorders unrelated entries in the descriptor file.
type SpinGroups map[string]*SpinGroup

func (g SpinGroups) MarshalYAML() (interface{}, error) {
	var result yaml.MapSlice
	for k, v := range g {
		result = append(result, yaml.MapItem{
			Key:   k,
			Value: v,
		})
	}
	slices.SortFunc(result, func(a, b yaml.MapItem) int {
		return strings.Compare(a.Key.(string), b.Key.(string))
	})
	return result, nil
}

// SpinGroup is the set of spins published for one spin identifier.
type SpinGroup struct {
	// Name is the display name, e.g. "Kubuntu".
	Name string `yaml:"name"`

	// ContentID is the group identifier used in the catalog output.
	ContentID string `yaml:"content_id" validate:"required"`

	Spins []*Spin `yaml:"spins" validate:"required,dive,required"`
}

// Spin is one buildable image variant within a group.
type Spin struct {
	// Name matches a key in the spin-definition table.
	Name string `yaml:"name" validate:"required"`

	// ImageType tags the image variant, e.g. "desktop".
	ImageType string `yaml:"image_type" validate:"required"`

	Version string `yaml:"version" validate:"required"`

	// Release is the codename slug, e.g. "noble".
	Release string `yaml:"release" validate:"required"`

	// ReleaseCodename is the display form, e.g. "Noble Numbat".
	ReleaseCodename string `yaml:"release_codename"`

	// ReleaseTitle is the display version string.
	ReleaseTitle string `yaml:"release_title"`

	// Architectures this spin is built for. A spin with no architectures
	// is ineligible for the catalog but not malformed.
	Architectures []string `yaml:"architectures"`

	// Files maps file role ("iso") to its checksum record.
	Files FileSet `yaml:"files" validate:"dive,required"`
}

// FileSet maps file role to metadata.
type FileSet map[string]*FileMetadata

// ISO returns the metadata record for the iso role, or nil.
func (s *Spin) ISO() *FileMetadata {
	return s.Files[internal.FileRoleISO]
}

// ResolvePath expands the path template of the given file role for one
// architecture.
func (s *Spin) ResolvePath(role, arch string) (string, error) {
	meta, ok := s.Files[role]
	if !ok {
		return "", fmt.Errorf("spin %q has no %q file entry", s.Name, role)
	}
	return meta.ResolvePath(s, arch), nil
}

// FileMetadata is the checksum/size record for one downloadable artifact.
// The empty string and zero are the explicit "unresolved" sentinels; both
// fields are always set together.
type FileMetadata struct {
	PathTemplate string `yaml:"path_template" validate:"required"`
	SHA256       string `yaml:"sha256"`
	Size         int64  `yaml:"size"`
}

// Complete reports whether the record carries both a checksum and a size.
// Only complete records may reach the output catalog.
func (f *FileMetadata) Complete() bool {
	return f.SHA256 != "" && f.Size > 0
}

// ResolvePath expands the path template for a spin and architecture.
func (f *FileMetadata) ResolvePath(s *Spin, arch string) string {
	return internal.ExpandPlaceholders(f.PathTemplate, map[string]string{
		"release":    s.Release,
		"name":       s.Name,
		"version":    s.Version,
		"image_type": s.ImageType,
		"arch":       arch,
	})
}

// Filename returns the final path segment of the resolved path, which is
// the name the upstream manifest lists the file under.
func (f *FileMetadata) Filename(s *Spin, arch string) string {
	resolved := f.ResolvePath(s, arch)
	if i := strings.LastIndex(resolved, "/"); i >= 0 {
		return resolved[i+1:]
	}
	return resolved
}
