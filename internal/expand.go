package internal

import "strings"

// ExpandPlaceholders substitutes {{ key }} markers in s with the given
// values. The upstream descriptor files write the spaced form
// ("{{ release }}") but the compact form ("{{release}}") is accepted too.
func ExpandPlaceholders(s string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*4)
	for k, v := range vars {
		pairs = append(pairs,
			"{{ "+k+" }}", v,
			"{{"+k+"}}", v,
		)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
