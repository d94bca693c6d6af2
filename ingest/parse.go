package ingest

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/TFMV/edgesketch/graph"
	"github.com/TFMV/edgesketch/models"
)

// MaxIDLength is the longest node id that fits comfortably inside a node.
// Longer ids are accepted but produce a warning.
const MaxIDLength = 3

// Directive is one parsed "<source> <target> [label]" line
type Directive struct {
	Line   int // 1-based
	Source string
	Target string
	Label  string
}

// Key returns the edge identity this directive describes
func (d Directive) Key() graph.EdgeKey {
	return graph.EdgeKey{Source: d.Source, Target: d.Target, Label: d.Label}
}

// Parse splits an edge list into directives and advisory diagnostics. Lines
// with fewer than two tokens are dropped without comment; tokens beyond the
// third are ignored.
func Parse(text string) ([]Directive, []models.Diagnostic) {
	var directives []Directive
	var diagnostics []models.Diagnostic

	for i, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		d := Directive{Line: i + 1, Source: fields[0], Target: fields[1]}
		if len(fields) > 2 {
			d.Label = fields[2]
		}

		for _, id := range []string{d.Source, d.Target} {
			if utf8.RuneCountInString(id) > MaxIDLength {
				diagnostics = append(diagnostics, models.Diagnostic{
					Line:     d.Line,
					Message:  fmt.Sprintf("node id %q exceeds %d characters", id, MaxIDLength),
					Severity: models.SeverityWarning,
				})
			}
		}

		directives = append(directives, d)
	}

	return directives, diagnostics
}
