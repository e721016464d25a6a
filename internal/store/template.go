package store

import (
	"fmt"
	"sort"

	"github.com/ubuntu-spins/spindex/internal"
	"github.com/ubuntu-spins/spindex/internal/spinconf"
)

// NewDescriptor builds a fresh descriptor for a release version with one
// spin per entry in the spin-definition table. Checksum and size start
// at their unresolved sentinels and are filled in later by the resolver.
func NewDescriptor(cfg *spinconf.Config, version string) (*Descriptor, error) {
	codename, ok := cfg.CodenameFor(version)
	if !ok {
		return nil, fmt.Errorf("no codename mapping for release series %q",
			spinconf.Series(version))
	}

	d := &Descriptor{
		Version: version,
		DefaultSettings: &DefaultSettings{
			Datatype: internal.CatalogDatatype,
			Format:   internal.CatalogFormat,
		},
		SpinGroups: make(SpinGroups, len(cfg.Spins)),
	}

	ids := make([]string, 0, len(cfg.Spins))
	for id := range cfg.Spins {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		def := cfg.Spins[id]
		d.SpinGroups[id] = &SpinGroup{
			Name:      def.Name,
			ContentID: def.ContentID,
			Spins: []*Spin{{
				Name:            id,
				ImageType:       "desktop",
				Version:         version,
				Release:         codename.Slug,
				ReleaseCodename: codename.Codename,
				ReleaseTitle:    version,
				Architectures:   []string{"amd64"},
				Files: FileSet{
					internal.FileRoleISO: &FileMetadata{
						PathTemplate: def.PathTemplate,
						SHA256:       "",
						Size:         0,
					},
				},
			}},
		}
	}

	return d, nil
}
