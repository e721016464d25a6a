package catalog

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/ubuntu-spins/spindex/internal"
	"github.com/ubuntu-spins/spindex/internal/spinconf"
	"github.com/ubuntu-spins/spindex/internal/store"
)

// KeyCollision records two descriptors producing the same product key.
// The store should never contain one; it is a configuration error.
type KeyCollision struct {
	Key          string
	SpinID       string
	KeptVersion  string
	LaterVersion string
}

func (c *KeyCollision) Error() string {
	return fmt.Sprintf("spin %s: product key %q produced by both %s and %s (kept %s)",
		c.SpinID, c.Key, c.KeptVersion, c.LaterVersion, c.KeptVersion)
}

// Report summarizes one build pass.
type Report struct {
	Products          int
	SkippedIncomplete int
	Collisions        []*KeyCollision
}

// Builder turns the loaded version store into catalog documents.
type Builder struct {
	cfg *spinconf.Config
}

// NewBuilder creates a Builder over the given configuration tables.
func NewBuilder(cfg *spinconf.Config) *Builder {
	return &Builder{cfg: cfg}
}

// productOwner remembers which descriptor version produced a key so
// collisions can be reported with both sides named.
type productOwner struct {
	version string
}

// Build produces one document per spin identifier across all
// descriptors. Incomplete entries are skipped and counted, never
// emitted. Every spin in the definition table gets a document, even with
// zero products. Descriptors arrive in sorted version order, so on a key
// collision the first-loaded entry wins deterministically and the
// collision is reported.
func (b *Builder) Build(descriptors []*store.Descriptor) (map[string]*Document, *Report) {
	docs := make(map[string]*Document)
	owners := make(map[string]productOwner)
	report := &Report{}

	// one document per configured spin, even when nothing is complete
	for id, def := range b.cfg.Spins {
		docs[id] = &Document{
			Datatype:  internal.CatalogDatatype,
			Format:    internal.CatalogFormat,
			ContentID: def.ContentID,
			Products:  make(map[string]*Product),
		}
	}

	for _, d := range descriptors {
		for _, spinID := range sortedKeys(d.SpinGroups) {
			group := d.SpinGroups[spinID]
			doc := docs[spinID]
			if doc == nil {
				// descriptor tracks a spin the table no longer defines;
				// still emit it using the descriptor's own content id
				log.Warn().
					Str("spin", spinID).
					Str("version", d.Version).
					Msg("spin not in definition table, using descriptor content id")
				doc = &Document{
					Datatype:  internal.CatalogDatatype,
					Format:    internal.CatalogFormat,
					ContentID: group.ContentID,
					Products:  make(map[string]*Product),
				}
				docs[spinID] = doc
			}

			for _, spin := range group.Spins {
				b.addSpin(doc, owners, spinID, d.Version, spin, report)
			}
		}
	}

	return docs, report
}

func (b *Builder) addSpin(
	doc *Document,
	owners map[string]productOwner,
	spinID, descriptorVersion string,
	spin *store.Spin,
	report *Report,
) {
	meta := spin.ISO()
	if meta == nil {
		return
	}

	for _, arch := range spin.Architectures {
		if !meta.Complete() {
			report.SkippedIncomplete++
			log.Debug().
				Str("spin", spin.Name).
				Str("version", spin.Version).
				Str("arch", arch).
				Msg("skipping incomplete entry")
			continue
		}

		key := fmt.Sprintf("%s:%s:%s:%s:%s",
			doc.ContentID, spin.Name, spin.ImageType, spin.Version, arch)

		if owner, exists := owners[key]; exists {
			collision := &KeyCollision{
				Key:          key,
				SpinID:       spinID,
				KeptVersion:  owner.version,
				LaterVersion: descriptorVersion,
			}
			report.Collisions = append(report.Collisions, collision)
			log.Error().Str("key", key).Msg("duplicate product key across descriptors")
			continue
		}
		owners[key] = productOwner{version: descriptorVersion}

		doc.Products[key] = &Product{
			Aliases:         spin.Version + "," + spin.Release,
			Arch:            arch,
			ImageType:       spin.ImageType,
			OS:              spin.Name,
			Release:         spin.Release,
			ReleaseCodename: spin.ReleaseCodename,
			ReleaseTitle:    spin.ReleaseTitle,
			Version:         spin.Version,
			Versions: map[string]*ProductVersion{
				spin.Version: {
					Items: map[string]*Item{
						internal.FileRoleISO: {
							Ftype:  internal.FileRoleISO,
							Path:   meta.ResolvePath(spin, arch),
							SHA256: meta.SHA256,
							Size:   meta.Size,
						},
					},
				},
			},
		}
		report.Products++
	}
}

func sortedKeys(groups store.SpinGroups) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
