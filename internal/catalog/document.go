// Package catalog builds the products:1.0 JSON documents consumed by the
// external boot-menu tool. It is read-only with respect to the version
// store and never talks to the network.
package catalog

// Document is one catalog file, one per spin identifier. Field names and
// nesting are fixed by the external consumer; an `updated` timestamp is
// intentionally not emitted.
type Document struct {
	Datatype  string              `json:"datatype"`
	Format    string              `json:"format"`
	ContentID string              `json:"content_id"`
	Products  map[string]*Product `json:"products"`
}

// Product is one spin/version/architecture entry, keyed by
// `<content_id>:<name>:<image_type>:<version>:<arch>`.
type Product struct {
	// Aliases is `<version>,<release>` with no space after the comma.
	Aliases         string                     `json:"aliases"`
	Arch            string                     `json:"arch"`
	ImageType       string                     `json:"image_type"`
	OS              string                     `json:"os"`
	Release         string                     `json:"release"`
	ReleaseCodename string                     `json:"release_codename"`
	ReleaseTitle    string                     `json:"release_title"`
	Version         string                     `json:"version"`
	Versions        map[string]*ProductVersion `json:"versions"`
}

// ProductVersion holds the downloadable items of one version.
type ProductVersion struct {
	Items map[string]*Item `json:"items"`
}

// Item describes one downloadable artifact.
type Item struct {
	Ftype  string `json:"ftype"`
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size"`
}
