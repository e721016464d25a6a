package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/ubuntu-spins/spindex/internal"
)

// WriteDocuments writes one `<spin>.json` per document into dir via a
// temp file and rename. Documents with zero products are still written
// unless skipEmpty is set. Returns the number of files written.
func WriteDocuments(dir string, docs map[string]*Document, skipEmpty bool) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create output directory %q: %w", dir, err)
	}

	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	written := 0
	for _, id := range ids {
		doc := docs[id]
		if skipEmpty && len(doc.Products) == 0 {
			log.Debug().Str("spin", id).Msg("skipping empty document")
			continue
		}

		path := filepath.Join(dir, id+".json")
		if err := writeDocument(path, doc); err != nil {
			return written, err
		}
		log.Info().
			Str("path", path).
			Int("products", len(doc.Products)).
			Msg("wrote catalog document")
		written++
	}

	return written, nil
}

func writeDocument(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document %q: %w", path, err)
	}
	data = append(data, '\n')

	err = internal.WriteFileAtomic(path, func(w io.Writer) error {
		_, werr := w.Write(data)
		return werr
	})
	if err != nil {
		return fmt.Errorf("write document %q: %w", path, err)
	}
	return nil
}
