// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

// idPattern matches modern arXiv IDs: "2301.07041", "arXiv:2301.07041",
// "2301.07041v2". The canonical form is the bare number without version.
var idPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5})(?:v\d+)?$`)

// NormalizeID validates an arXiv identifier and returns its canonical
// form: the "arXiv:" prefix and any version suffix are stripped.
func NormalizeID(identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	m := idPattern.FindStringSubmatch(identifier)
	if m == nil {
		return "", goerr.New("invalid arXiv identifier",
			goerr.T(types.TagValidation), goerr.V("identifier", identifier))
	}
	return m[1], nil
}

// extractID pulls the arXiv ID from an Atom entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
// Error entries in the feed have no "/abs/" segment and yield "".
func extractID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id, _ := NormalizeID(idURL[idx+len(prefix):])
	return id
}
