// Package resolver fetches upstream checksum manifests and fills in the
// unresolved checksum/size fields of a version descriptor.
package resolver

import (
	"bufio"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// Manifest is a parsed SHA256SUMS listing: file name to 64-hex checksum.
type Manifest map[string]string

const sha256HexLen = 64

// ParseManifest reads an upstream SHA256SUMS listing. Each line is
// `<sha256><whitespace><filename>`; the two-space convention is not
// guaranteed, so one or more whitespace characters are accepted. Blank
// lines, comment lines and lines that do not carry a plausible checksum
// are skipped, not fatal.
func ParseManifest(r io.Reader) (Manifest, error) {
	m := make(Manifest)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			log.Debug().Str("line", line).Msg("skipping manifest line without filename")
			continue
		}

		sum := fields[0]
		if !isHexSHA256(sum) {
			log.Debug().Str("line", line).Msg("skipping manifest line with malformed checksum")
			continue
		}

		// the remainder is the filename; a leading '*' marks binary mode
		name := strings.TrimSpace(line[len(sum):])
		name = strings.TrimPrefix(name, "*")
		if name == "" {
			continue
		}

		m[name] = sum
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return m, nil
}

func isHexSHA256(s string) bool {
	if len(s) != sha256HexLen {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
