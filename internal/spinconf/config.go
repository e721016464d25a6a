// Package spinconf loads the shared spin-definition and codename tables.
//
// The resulting Config is immutable and passed explicitly into the
// checksum resolver and the catalog builder, so both can be tested with
// synthetic tables instead of reaching for global state.
package spinconf

import (
	"fmt"
	"strings"

	"github.com/ubuntu-spins/spindex/internal"
)

// SpinDefinition describes one tracked spin: where its releases are
// published and how its image files are named.
type SpinDefinition struct {
	// Name is the display name, e.g. "Kubuntu".
	Name string `yaml:"name" validate:"required"`

	// ContentID is the identifier the external consumer groups products by.
	ContentID string `yaml:"content_id" validate:"required"`

	// URLBase is the release directory URL with a {{ version }} placeholder.
	URLBase string `yaml:"url_base" validate:"required"`

	// PathTemplate is the image path pattern with {{ release }}, {{ name }},
	// {{ version }}, {{ image_type }} and {{ arch }} placeholders.
	PathTemplate string `yaml:"path_template" validate:"required"`
}

// ReleaseBase expands the URL base for a concrete version and strips any
// trailing slash. The upstream manifest and the image files both live
// directly under this directory.
func (s *SpinDefinition) ReleaseBase(version string) string {
	base := internal.ExpandPlaceholders(s.URLBase, map[string]string{"version": version})
	return strings.TrimRight(base, "/")
}

// Codename maps a release series to its slug and display codename.
type Codename struct {
	// Slug is the lowercase codename, e.g. "noble".
	Slug string `yaml:"slug" validate:"required"`

	// Codename is the display form, e.g. "Noble Numbat".
	Codename string `yaml:"codename" validate:"required"`
}

// Config is the loaded spin-definition table plus the codename table.
type Config struct {
	// Spins maps spin identifier (e.g. "kubuntu") to its definition.
	Spins map[string]*SpinDefinition `yaml:"spins" validate:"required,dive,required"`

	// Codenames maps a release series (e.g. "24.04") to its codename.
	Codenames map[string]*Codename `yaml:"codenames" validate:"dive,required"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := internal.DecodeYAMLFile(path, &cfg); err != nil {
		if internal.IsDecodeErrorAndPrint(err) {
			return nil, fmt.Errorf("parsing config %q", path)
		}
		return nil, err
	}
	if len(cfg.Spins) == 0 {
		return nil, fmt.Errorf("config %q defines no spins", path)
	}
	return &cfg, nil
}

// Spin returns the definition for a spin identifier.
func (c *Config) Spin(id string) (*SpinDefinition, bool) {
	s, ok := c.Spins[id]
	return s, ok
}

// CodenameFor resolves a dotted version (e.g. "24.04.3") to the codename
// entry of its release series ("24.04").
func (c *Config) CodenameFor(version string) (*Codename, bool) {
	cn, ok := c.Codenames[Series(version)]
	return cn, ok
}

// Series reduces a dotted version to its YY.MM release series.
// Point releases like "24.04.3" share the series "24.04".
func Series(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}
