package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyDocument(contentID string) *Document {
	return &Document{
		Datatype:  "image-downloads",
		Format:    "products:1.0",
		ContentID: contentID,
		Products:  make(map[string]*Product),
	}
}

func TestWriteDocuments(t *testing.T) {
	dir := t.TempDir()

	docs := map[string]*Document{
		"kubuntu": emptyDocument("com.ubuntu.cdimage.kubuntu:kubuntu"),
		"lubuntu": emptyDocument("com.ubuntu.cdimage.lubuntu:lubuntu"),
	}
	docs["kubuntu"].Products["k:kubuntu:desktop:24.04.3:amd64"] = &Product{
		Aliases: "24.04.3,noble",
		Arch:    "amd64",
		Versions: map[string]*ProductVersion{
			"24.04.3": {Items: map[string]*Item{
				"iso": {Ftype: "iso", Path: "x.iso", SHA256: "abc", Size: 1},
			}},
		},
	}

	written, err := WriteDocuments(dir, docs, false)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	// empty documents are still valid, with an empty products object
	data, err := os.ReadFile(filepath.Join(dir, "lubuntu.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"products": {}`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "image-downloads", decoded["datatype"])
	assert.Equal(t, "products:1.0", decoded["format"])
}

func TestWriteDocuments_SkipEmpty(t *testing.T) {
	dir := t.TempDir()

	docs := map[string]*Document{
		"kubuntu": emptyDocument("com.ubuntu.cdimage.kubuntu:kubuntu"),
	}

	written, err := WriteDocuments(dir, docs, true)
	require.NoError(t, err)
	assert.Zero(t, written)
	assert.NoFileExists(t, filepath.Join(dir, "kubuntu.json"))
}

func TestWriteDocuments_Idempotent(t *testing.T) {
	dir := t.TempDir()
	docs := map[string]*Document{
		"kubuntu": emptyDocument("com.ubuntu.cdimage.kubuntu:kubuntu"),
	}

	_, err := WriteDocuments(dir, docs, false)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "kubuntu.json"))
	require.NoError(t, err)

	_, err = WriteDocuments(dir, docs, false)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "kubuntu.json"))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestWriteDocuments_NoStrayTempFiles(t *testing.T) {
	dir := t.TempDir()
	docs := map[string]*Document{
		"kubuntu": emptyDocument("com.ubuntu.cdimage.kubuntu:kubuntu"),
	}

	_, err := WriteDocuments(dir, docs, false)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kubuntu.json", entries[0].Name())
}
