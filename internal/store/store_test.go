package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubuntu-spins/spindex/internal/spinconf"
)

const descriptorYAML = `version: 24.04.3
spin_groups:
  kubuntu:
    name: Kubuntu
    content_id: com.ubuntu.cdimage.kubuntu:kubuntu
    spins:
      - name: kubuntu
        image_type: desktop
        version: 24.04.3
        release: noble
        release_codename: Noble Numbat
        release_title: 24.04.3
        architectures: [amd64]
        files:
          iso:
            path_template: "{{ release }}/release/{{ name }}-{{ version }}-{{ image_type }}-{{ arch }}.iso"
            sha256: ""
            size: 0
`

func writeDescriptor(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeDescriptor(t, t.TempDir(), "24.04.3.yaml", descriptorYAML)

	d, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "24.04.3", d.Version)
	require.Contains(t, d.SpinGroups, "kubuntu")

	group := d.SpinGroups["kubuntu"]
	assert.Equal(t, "com.ubuntu.cdimage.kubuntu:kubuntu", group.ContentID)
	require.Len(t, group.Spins, 1)

	spin := group.Spins[0]
	assert.Equal(t, "noble", spin.Release)
	require.NotNil(t, spin.ISO())
	assert.False(t, spin.ISO().Complete())
}

func TestLoad_VersionKeyMismatch(t *testing.T) {
	// file name is the store key; a mismatched version field is malformed
	path := writeDescriptor(t, t.TempDir(), "24.04.4.yaml", descriptorYAML)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match store key")
}

func TestLoad_MissingRequiredField(t *testing.T) {
	path := writeDescriptor(t, t.TempDir(), "24.04.3.yaml", `version: 24.04.3
spin_groups:
  kubuntu:
    name: Kubuntu
    spins:
      - name: kubuntu
        image_type: desktop
        version: 24.04.3
        release: noble
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_SyntaxError(t *testing.T) {
	// broken YAML gets the annotated source print and a short error
	path := writeDescriptor(t, t.TempDir(), "24.04.3.yaml", "version: [not a string\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing descriptor")
}

func TestLoadAll_SkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "24.04.3.yaml", descriptorYAML)
	writeDescriptor(t, dir, "25.04.yaml", "version: [not a string\n")
	writeDescriptor(t, dir, "notes.txt", "not a descriptor")

	descriptors, loadErrs, err := LoadAll(dir)
	require.NoError(t, err)

	require.Len(t, descriptors, 1)
	assert.Equal(t, "24.04.3", descriptors[0].Version)

	require.Len(t, loadErrs, 1)
	assert.Contains(t, loadErrs[0].Path, "25.04.yaml")
}

func TestLoadAll_AcceptsYmlExtension(t *testing.T) {
	dir := t.TempDir()
	writeDescriptor(t, dir, "24.04.3.yml", descriptorYAML)

	descriptors, loadErrs, err := LoadAll(dir)
	require.NoError(t, err)
	assert.Empty(t, loadErrs)
	require.Len(t, descriptors, 1)
	assert.Equal(t, "24.04.3", descriptors[0].Version)
}

func TestIsDescriptorName(t *testing.T) {
	assert.True(t, IsDescriptorName("24.04.3.yaml"))
	assert.True(t, IsDescriptorName("24.04.3.yml"))
	assert.False(t, IsDescriptorName("notes.txt"))
	assert.False(t, IsDescriptorName("24.04.3"))
}

func TestLoadAll_MissingDir(t *testing.T) {
	_, _, err := LoadAll(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeDescriptor(t, dir, "24.04.3.yaml", descriptorYAML)

	d, err := Load(path)
	require.NoError(t, err)

	// resolve the entry and persist
	meta := d.SpinGroups["kubuntu"].Spins[0].ISO()
	meta.SHA256 = "8c69dd380e5a8969b77ca1708da59f0b9a50d0c151f0a65917180585697dd1e6"
	meta.Size = 4724464640

	require.NoError(t, Save(path, d))

	reloaded, err := Load(path)
	require.NoError(t, err)

	got := reloaded.SpinGroups["kubuntu"].Spins[0].ISO()
	assert.Equal(t, meta.SHA256, got.SHA256)
	assert.Equal(t, meta.Size, got.Size)
	assert.True(t, got.Complete())

	// untouched fields survive the round trip
	assert.Equal(t, "Noble Numbat", reloaded.SpinGroups["kubuntu"].Spins[0].ReleaseCodename)
}

func TestSave_PreservesComments(t *testing.T) {
	dir := t.TempDir()
	path := writeDescriptor(t, dir, "24.04.3.yaml", `version: 24.04.3
spin_groups:
  # hand-written note
  kubuntu:
    name: Kubuntu
    content_id: com.ubuntu.cdimage.kubuntu:kubuntu
    spins:
      - name: kubuntu
        image_type: desktop
        version: 24.04.3
        release: noble
        release_codename: Noble Numbat
        release_title: 24.04.3
        architectures: [amd64]
        files:
          iso:
            path_template: "{{ release }}/release/{{ name }}-{{ version }}-{{ image_type }}-{{ arch }}.iso"
            sha256: ""
            size: 0
`)

	d, err := Load(path)
	require.NoError(t, err)

	meta := d.SpinGroups["kubuntu"].Spins[0].ISO()
	meta.SHA256 = "8c69dd380e5a8969b77ca1708da59f0b9a50d0c151f0a65917180585697dd1e6"
	meta.Size = 4724464640

	require.NoError(t, Save(path, d))

	// a resolution pass must not destroy hand-written annotations
	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "# hand-written note")
	assert.Contains(t, string(saved), meta.SHA256)

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, reloaded.SpinGroups["kubuntu"].Spins[0].ISO().Complete())
}

func TestNewDescriptor(t *testing.T) {
	cfg := &spinconf.Config{
		Spins: map[string]*spinconf.SpinDefinition{
			"kubuntu": {
				Name:         "Kubuntu",
				ContentID:    "com.ubuntu.cdimage.kubuntu:kubuntu",
				URLBase:      "https://cdimage.ubuntu.com/kubuntu/releases/{{ version }}/release",
				PathTemplate: "{{ release }}/release/{{ name }}-{{ version }}-{{ image_type }}-{{ arch }}.iso",
			},
		},
		Codenames: map[string]*spinconf.Codename{
			"24.04": {Slug: "noble", Codename: "Noble Numbat"},
		},
	}

	d, err := NewDescriptor(cfg, "24.04.3")
	require.NoError(t, err)

	assert.Equal(t, "24.04.3", d.Version)
	require.Contains(t, d.SpinGroups, "kubuntu")

	spin := d.SpinGroups["kubuntu"].Spins[0]
	assert.Equal(t, "noble", spin.Release)
	assert.Equal(t, "Noble Numbat", spin.ReleaseCodename)
	assert.Equal(t, []string{"amd64"}, spin.Architectures)
	require.NotNil(t, spin.ISO())
	assert.False(t, spin.ISO().Complete())
}

func TestNewDescriptor_UnknownSeries(t *testing.T) {
	cfg := &spinconf.Config{
		Spins: map[string]*spinconf.SpinDefinition{
			"kubuntu": {Name: "Kubuntu", ContentID: "x", URLBase: "y", PathTemplate: "z"},
		},
	}
	_, err := NewDescriptor(cfg, "99.10")
	require.Error(t, err)
}
