package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDocument = `{
  "datatype": "image-downloads",
  "format": "products:1.0",
  "content_id": "com.ubuntu.cdimage.kubuntu:kubuntu",
  "products": {
    "com.ubuntu.cdimage.kubuntu:kubuntu:kubuntu:desktop:24.04.3:amd64": {
      "aliases": "24.04.3,noble",
      "arch": "amd64",
      "image_type": "desktop",
      "os": "kubuntu",
      "release": "noble",
      "release_codename": "Noble Numbat",
      "release_title": "24.04.3",
      "version": "24.04.3",
      "versions": {
        "24.04.3": {
          "items": {
            "iso": {
              "ftype": "iso",
              "path": "noble/release/kubuntu-24.04.3-desktop-amd64.iso",
              "sha256": "8c69dd380e5a8969b77ca1708da59f0b9a50d0c151f0a65917180585697dd1e6",
              "size": 4724464640
            }
          }
        }
      }
    }
  }
}`

func writeJSON(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateFile_Valid(t *testing.T) {
	path := writeJSON(t, t.TempDir(), "kubuntu.json", validDocument)

	report, err := ValidateFile(path)
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Warnings)
}

func TestValidateFile_EmptyProductsIsWarning(t *testing.T) {
	path := writeJSON(t, t.TempDir(), "lubuntu.json", `{
  "datatype": "image-downloads",
  "format": "products:1.0",
  "content_id": "com.ubuntu.cdimage.lubuntu:lubuntu",
  "products": {}
}`)

	report, err := ValidateFile(path)
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	assert.Len(t, report.Warnings, 1)
}

func TestValidateFile_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		errorSub string
	}{
		{
			name:     "not json",
			content:  "not json at all",
			errorSub: "not valid JSON",
		},
		{
			name:     "missing top-level fields",
			content:  `{"datatype": "image-downloads"}`,
			errorSub: "missing top-level field",
		},
		{
			name: "wrong format literal",
			content: `{"datatype": "image-downloads", "format": "products:2.0",
				"content_id": "x", "products": {}}`,
			errorSub: "invalid format",
		},
		{
			name: "wrong datatype literal",
			content: `{"datatype": "image-uploads", "format": "products:1.0",
				"content_id": "x", "products": {}}`,
			errorSub: "invalid datatype",
		},
		{
			name: "product missing fields",
			content: `{"datatype": "image-downloads", "format": "products:1.0",
				"content_id": "x", "products": {"x:a:desktop:1:amd64": {"arch": "amd64"}}}`,
			errorSub: "missing field",
		},
		{
			name: "wrong ftype",
			content: `{"datatype": "image-downloads", "format": "products:1.0",
				"content_id": "x", "products": {"k": {
				"aliases": "a", "arch": "amd64", "image_type": "desktop", "os": "x",
				"release": "noble", "release_codename": "n", "release_title": "t",
				"version": "1", "versions": {"1": {"items": {"iso": {
				"ftype": "img", "path": "p", "sha256": "s", "size": 1}}}}}}}`,
			errorSub: "ftype",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeJSON(t, t.TempDir(), "doc.json", tc.content)
			report, err := ValidateFile(path)
			require.NoError(t, err)
			require.NotEmpty(t, report.Errors)
			assert.Contains(t, report.Errors[0], tc.errorSub)
		})
	}
}

func TestValidateFile_EmptyChecksumIsWarning(t *testing.T) {
	content := `{"datatype": "image-downloads", "format": "products:1.0",
		"content_id": "x", "products": {"k": {
		"aliases": "a", "arch": "amd64", "image_type": "desktop", "os": "x",
		"release": "noble", "release_codename": "n", "release_title": "t",
		"version": "1", "versions": {"1": {"items": {"iso": {
		"ftype": "iso", "path": "p", "sha256": "", "size": 0}}}}}}}`

	path := writeJSON(t, t.TempDir(), "doc.json", content)
	report, err := ValidateFile(path)
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	assert.Len(t, report.Warnings, 2)
}

func TestValidateDir(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, dir, "kubuntu.json", validDocument)
	writeJSON(t, dir, "broken.json", "{")

	reports, err := ValidateDir(dir)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	// sorted by file name
	assert.Contains(t, reports[0].Path, "broken.json")
	assert.NotEmpty(t, reports[0].Errors)
	assert.Empty(t, reports[1].Errors)
}

func TestValidateDir_Empty(t *testing.T) {
	_, err := ValidateDir(t.TempDir())
	require.Error(t, err)
}
