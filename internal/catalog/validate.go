package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ubuntu-spins/spindex/internal"
)

var (
	requiredProductFields = []string{
		"aliases", "arch", "image_type", "os", "release",
		"release_codename", "release_title", "version", "versions",
	}
	requiredItemFields = []string{"ftype", "path", "sha256", "size"}
)

// FileReport is the validation result for one generated document.
// Errors break the external consumer; warnings flag entries that should
// have been filtered (empty checksum, zero size).
type FileReport struct {
	Path     string
	Errors   []string
	Warnings []string
}

func (r *FileReport) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *FileReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateFile checks one generated document against the external schema.
func ValidateFile(path string) (*FileReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	report := &FileReport{Path: path}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		report.errorf("not valid JSON: %v", err)
		return report, nil
	}

	for _, field := range []string{"datatype", "format", "content_id", "products"} {
		if _, ok := doc[field]; !ok {
			report.errorf("missing top-level field: %s", field)
		}
	}
	if v, _ := doc["format"].(string); v != internal.CatalogFormat && doc["format"] != nil {
		report.errorf("invalid format %q, expected %q", v, internal.CatalogFormat)
	}
	if v, _ := doc["datatype"].(string); v != internal.CatalogDatatype && doc["datatype"] != nil {
		report.errorf("invalid datatype %q, expected %q", v, internal.CatalogDatatype)
	}

	products, ok := doc["products"].(map[string]any)
	if !ok {
		if doc["products"] != nil {
			report.errorf("products is not an object")
		}
		return report, nil
	}
	if len(products) == 0 {
		// an empty store legitimately produces an empty document
		report.warnf("no products defined")
		return report, nil
	}

	keys := make([]string, 0, len(products))
	for k := range products {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		product, ok := products[key].(map[string]any)
		if !ok {
			report.errorf("product %s is not an object", key)
			continue
		}
		validateProduct(report, key, product)
	}

	return report, nil
}

func validateProduct(report *FileReport, key string, product map[string]any) {
	for _, field := range requiredProductFields {
		if _, ok := product[field]; !ok {
			report.errorf("product %s missing field: %s", key, field)
		}
	}

	versions, ok := product["versions"].(map[string]any)
	if !ok || len(versions) == 0 {
		report.errorf("product %s has no versions", key)
		return
	}

	for version, vdata := range versions {
		vmap, ok := vdata.(map[string]any)
		if !ok {
			report.errorf("product %s version %s is not an object", key, version)
			continue
		}
		items, ok := vmap["items"].(map[string]any)
		if !ok {
			report.errorf("product %s version %s missing items", key, version)
			continue
		}
		iso, ok := items[internal.FileRoleISO].(map[string]any)
		if !ok {
			report.errorf("product %s version %s missing iso item", key, version)
			continue
		}

		for _, field := range requiredItemFields {
			if _, ok := iso[field]; !ok {
				report.errorf("product %s version %s iso missing: %s", key, version, field)
			}
		}
		if ftype, _ := iso["ftype"].(string); ftype != internal.FileRoleISO {
			report.errorf("product %s version %s ftype should be %q, got %q",
				key, version, internal.FileRoleISO, ftype)
		}
		if sum, _ := iso["sha256"].(string); sum == "" {
			report.warnf("product %s version %s has empty sha256", key, version)
		}
		if size, _ := iso["size"].(float64); size == 0 {
			report.warnf("product %s version %s has zero size", key, version)
		}
	}
}

// ValidateDir validates every .json document in dir, sorted by name.
func ValidateDir(dir string) ([]*FileReport, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no JSON documents found in %q", dir)
	}
	sort.Strings(matches)

	reports := make([]*FileReport, 0, len(matches))
	for _, path := range matches {
		report, err := ValidateFile(path)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
