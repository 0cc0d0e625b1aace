package scanner

import (
	"regexp"
	"strings"
)

var reBracePair = regexp.MustCompile(`\{[^{]*\}`)

// braceBalancer consumes the body of an inline or static function so that
// only the prototype text reaches the declaration. Depth 1 means "outside the
// body"; the balancer disarms once the body closes.
type braceBalancer struct {
	depth int
}

func (b *braceBalancer) arm() { b.depth = 1 }
func (b *braceBalancer) disarm() { b.depth = 0 }
func (b *braceBalancer) armed() bool { return b.depth > 0 }

// feed consumes one line and returns the text to append to the declaration.
// A ";" is returned when the body closes so the function terminator matches.
func (b *braceBalancer) feed(line string) string {
	stripped, pairs := stripBracePairs(line)
	opens := strings.Count(stripped, "{")
	closes := strings.Count(stripped, "}")

	if opens == 0 && closes == 0 {
		if b.depth != 1 {
			return ""
		}
		if pairs {
			b.disarm()
			return stripped + ";"
		}
		return stripped
	}

	keep := ""
	if b.depth == 1 && opens > 0 {
		keep = stripped[:strings.Index(stripped, "{")]
	}
	b.depth += opens - closes
	if b.depth <= 1 {
		b.disarm()
		return keep + ";"
	}
	return keep
}

// stripBracePairs removes innermost {...} groups until none remain and reports
// whether anything was removed.
func stripBracePairs(line string) (string, bool) {
	removed := false
	for reBracePair.MatchString(line) {
		line = reBracePair.ReplaceAllString(line, "")
		removed = true
	}
	return line, removed
}
