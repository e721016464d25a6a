package resolver

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/ubuntu-spins/spindex/internal/spinconf"
	"github.com/ubuntu-spins/spindex/internal/store"
)

// Outcome classifies the result of resolving one spin/architecture entry.
type Outcome int

const (
	// Updated means checksum and size were resolved and differ from the
	// stored values.
	Updated Outcome = iota

	// UpToDate means the upstream values match what is already stored.
	UpToDate

	// Missing means the expected filename is absent from the manifest.
	// The entry stays unresolved; withdrawn point releases never resolve.
	Missing

	// Failed means a network fetch failed. The entry stays unresolved.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Updated:
		return "updated"
	case UpToDate:
		return "up-to-date"
	case Missing:
		return "missing"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Entry is the per-spin/architecture result of a resolution pass.
type Entry struct {
	Spin     string
	Arch     string
	Filename string
	Outcome  Outcome
	Err      error
}

// Report aggregates all entry results for one descriptor. Per-entry
// failures are independent; the pass as a whole still succeeds.
type Report struct {
	Version string
	Entries []*Entry
}

func (r *Report) add(e *Entry) {
	r.Entries = append(r.Entries, e)
}

// Count returns the number of entries with the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, e := range r.Entries {
		if e.Outcome == o {
			n++
		}
	}
	return n
}

// Changed reports whether any entry was updated, i.e. whether the
// descriptor needs to be written back.
func (r *Report) Changed() bool {
	return r.Count(Updated) > 0
}

// Resolver fills unresolved checksum/size fields of version descriptors
// from the upstream per-release manifests.
type Resolver struct {
	cfg    *spinconf.Config
	client *Client
}

// New creates a Resolver using the given configuration tables and client.
func New(cfg *spinconf.Config, client *Client) *Resolver {
	return &Resolver{cfg: cfg, client: client}
}

// ResolveDescriptor attempts to resolve every spin/architecture entry of
// the descriptor in place. Failures are recorded per entry and never
// abort the remaining spins. The caller persists the descriptor when the
// report says something changed.
func (r *Resolver) ResolveDescriptor(ctx context.Context, d *store.Descriptor) *Report {
	report := &Report{Version: d.Version}

	for _, groupID := range sortedGroupIDs(d.SpinGroups) {
		group := d.SpinGroups[groupID]
		for _, spin := range group.Spins {
			r.resolveSpin(ctx, spin, report)
		}
	}

	log.Info().
		Str("version", d.Version).
		Int("updated", report.Count(Updated)).
		Int("up_to_date", report.Count(UpToDate)).
		Int("missing", report.Count(Missing)).
		Int("failed", report.Count(Failed)).
		Msg("resolution pass finished")

	return report
}

func (r *Resolver) resolveSpin(ctx context.Context, spin *store.Spin, report *Report) {
	meta := spin.ISO()
	if meta == nil {
		log.Debug().Str("spin", spin.Name).Msg("spin has no iso entry, skipping")
		return
	}

	def, ok := r.cfg.Spin(spin.Name)
	if !ok {
		log.Warn().Str("spin", spin.Name).Msg("spin not in definition table")
		for _, arch := range spin.Architectures {
			report.add(&Entry{
				Spin: spin.Name, Arch: arch, Outcome: Failed,
				Err: &UnknownSpinError{Name: spin.Name},
			})
		}
		return
	}

	base := def.ReleaseBase(spin.Version)
	manifest, err := r.client.FetchManifest(ctx, base)
	if err != nil {
		log.Warn().Err(err).Str("spin", spin.Name).Msg("manifest fetch failed")
		for _, arch := range spin.Architectures {
			report.add(&Entry{Spin: spin.Name, Arch: arch, Outcome: Failed, Err: err})
		}
		return
	}
	log.Debug().
		Str("spin", spin.Name).
		Int("files", len(manifest)).
		Msg("fetched manifest")

	for _, arch := range spin.Architectures {
		report.add(r.resolveEntry(ctx, spin, meta, manifest, base, arch))
	}
}

// resolveEntry resolves one spin/architecture combination. Checksum and
// size are written together or not at all.
func (r *Resolver) resolveEntry(
	ctx context.Context,
	spin *store.Spin,
	meta *store.FileMetadata,
	manifest Manifest,
	base, arch string,
) *Entry {
	filename := meta.Filename(spin, arch)
	entry := &Entry{Spin: spin.Name, Arch: arch, Filename: filename}

	sum, ok := manifest[filename]
	if !ok {
		log.Warn().
			Str("spin", spin.Name).
			Str("file", filename).
			Msg("file not listed in manifest")
		entry.Outcome = Missing
		return entry
	}

	size, err := r.client.FileSize(ctx, base+"/"+filename)
	if err != nil {
		log.Warn().Err(err).Str("file", filename).Msg("size lookup failed")
		entry.Outcome = Failed
		entry.Err = err
		return entry
	}

	if meta.SHA256 == sum && meta.Size == size {
		log.Info().Str("spin", spin.Name).Str("file", filename).Msg("already up to date")
		entry.Outcome = UpToDate
		return entry
	}

	meta.SHA256 = sum
	meta.Size = size
	log.Info().
		Str("spin", spin.Name).
		Str("file", filename).
		Str("sha256", sum).
		Int64("size", size).
		Msg("resolved checksum")
	entry.Outcome = Updated
	return entry
}

// UnknownSpinError marks a descriptor spin absent from the definition table.
type UnknownSpinError struct {
	Name string
}

func (e *UnknownSpinError) Error() string {
	return "spin " + e.Name + " not found in spin-definition table"
}

func sortedGroupIDs(groups store.SpinGroups) []string {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
