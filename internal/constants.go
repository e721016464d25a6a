package internal

const (
	// DefaultVersionsDir is where per-release descriptor files live.
	DefaultVersionsDir = "config/versions"

	// DefaultSpinsFile is the spin-definition table.
	DefaultSpinsFile = "config/spins.yaml"

	// DefaultOutputDir receives the generated catalog documents.
	DefaultOutputDir = "output"
)

const (
	// FileRoleISO is the file role key used in descriptor file sets.
	FileRoleISO = "iso"

	// ManifestFileName is the upstream checksum listing published next
	// to the images of a release directory.
	ManifestFileName = "SHA256SUMS"
)

const (
	// CatalogDatatype and CatalogFormat are fixed by the external
	// consumer of the generated documents.
	CatalogDatatype = "image-downloads"
	CatalogFormat   = "products:1.0"
)
