package scanner

import (
	"regexp"
	"strings"
)

const ignoreGuard = "__GTK_DOC_IGNORE__"

// guardTracker follows preprocessor conditionals to decide whether the
// current line is deprecated or must be ignored.
type guardTracker struct {
	// deprecatedGuards is matched against guard names; nil never matches.
	deprecatedGuards *regexp.Regexp

	deprecatedDepth int
	ignoreDepth     int
	// soft is set by a bare _DEPRECATED annotation outside any guard and
	// lasts until the next finished declaration.
	soft bool
}

// update applies one input line. It reports whether the line set the soft
// deprecation flag.
func (g *guardTracker) update(line string, inEnum bool) bool {
	if m := reIfDefined.FindStringSubmatch(line); m != nil {
		name := m[1]
		switch {
		case g.deprecatedDepth < 1 && g.isDeprecationGuard(name):
			g.deprecatedDepth = 1
			g.soft = false
		case g.deprecatedDepth >= 1:
			g.deprecatedDepth++
		}
		switch {
		case g.ignoreDepth == 0 && strings.Contains(name, ignoreGuard):
			g.ignoreDepth = 1
		case g.ignoreDepth > 0:
			g.ignoreDepth++
		}
	} else if reIf.MatchString(line) {
		if g.deprecatedDepth >= 1 {
			g.deprecatedDepth++
		}
		if g.ignoreDepth > 0 {
			g.ignoreDepth++
		}
	} else if reEndif.MatchString(line) {
		if g.deprecatedDepth >= 1 {
			g.deprecatedDepth--
		}
		if g.ignoreDepth > 0 {
			g.ignoreDepth--
		}
	}

	if g.deprecatedDepth == 0 && !g.soft && strings.Contains(line, "_DEPRECATED") &&
		!reDirective.MatchString(line) && !inEnum {
		g.soft = true
		return true
	}
	return false
}

func (g *guardTracker) isDeprecationGuard(name string) bool {
	return g.deprecatedGuards != nil && g.deprecatedGuards.MatchString(name)
}

func (g *guardTracker) deprecated() bool { return g.deprecatedDepth > 0 || g.soft }

func (g *guardTracker) ignoring() bool { return g.ignoreDepth > 0 }

// truncate drops a pending soft deprecation once a declaration finishes.
func (g *guardTracker) truncate() { g.soft = false }
