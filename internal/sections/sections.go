// Package sections builds the per-header symbol listing and moves GObject
// boilerplate symbols into a "Standard" subsection.
package sections

import (
	"io"
	"log"
	"regexp"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const standardHeading = "<SUBSECTION Standard>\n"

// Section is the symbol listing of one header.
type Section struct {
	// File is the header basename without ".h".
	File string
	// Title is a "<TITLE>Obj</TITLE>" line or empty.
	Title string
	// Symbols stay in scan order.
	Symbols []string
	// Standard is sorted.
	Standard []string
}

// Empty reports whether the section has nothing to list.
func (s Section) Empty() bool {
	return s.Title == "" && len(s.Symbols) == 0 && len(s.Standard) == 0
}

// String renders the SECTION block, or "" for an empty section.
func (s Section) String() string {
	if s.Empty() {
		return ""
	}
	var b strings.Builder
	b.WriteString("<SECTION>\n<FILE>" + s.File + "</FILE>\n")
	if s.Title != "" {
		b.WriteString(s.Title + "\n")
	}
	for _, sym := range s.Symbols {
		b.WriteString(sym + "\n")
	}
	if len(s.Standard) > 0 {
		b.WriteString(standardHeading)
		for _, sym := range s.Standard {
			b.WriteString(sym + "\n")
		}
	}
	b.WriteString("</SECTION>\n\n")
	return b.String()
}

var (
	reIsClassMacro = regexp.MustCompile(`(?m)^(\S+)_IS_(\S*)_CLASS\n`)
	reIsMacro      = regexp.MustCompile(`(?m)^(\S+)_IS_(\S*)\n`)
	reGetTypeFunc  = regexp.MustCompile(`(?m)^(\S+?)_(\S*)_get_type\n`)
)

var patterns = func() *lru.Cache[string, *regexp.Regexp] {
	c, err := lru.New[string, *regexp.Regexp](256)
	if err != nil {
		panic(err)
	}
	return c
}()

func pattern(expr string) *regexp.Regexp {
	if re, ok := patterns.Get(expr); ok {
		return re
	}
	re := regexp.MustCompile(expr)
	patterns.Add(expr, re)
	return re
}

// classifier holds the listing as newline-terminated lines so whole-name
// patterns can be anchored with (?m)^...\n.
type classifier struct {
	list     string
	standard []string
	log      *log.Logger
}

// moveFirst moves the first case-insensitive match of expr to the Standard
// group; other matches are dropped.
func (c *classifier) moveFirst(expr string) {
	re := pattern(`(?mi)` + expr)
	m := re.FindString(c.list)
	if m == "" {
		return
	}
	c.standard = append(c.standard, strings.TrimSuffix(m, "\n"))
	c.list = re.ReplaceAllString(c.list, "")
}

// moveAll moves every match of expr to the Standard group.
func (c *classifier) moveAll(expr string) {
	re := pattern(`(?m)` + expr)
	for _, m := range re.FindAllString(c.list, -1) {
		c.standard = append(c.standard, strings.TrimSuffix(m, "\n"))
	}
	c.list = re.ReplaceAllString(c.list, "")
}

// evidence finds the next GObject type in the listing, returning its
// upper-case prefix and class and their lower-case forms.
func (c *classifier) evidence() (prefix, klass, lprefix, lclass string, ok bool) {
	if m := reIsClassMacro.FindStringSubmatch(c.list); m != nil {
		prefix, klass = m[1], m[2]
		c.log.Printf("found gobject type %s_%s from is_class macro", prefix, klass)
		return prefix, klass, strings.ToLower(prefix), strings.ToLower(klass), true
	}
	if m := reIsMacro.FindStringSubmatch(c.list); m != nil {
		prefix, klass = m[1], m[2]
		c.log.Printf("found gobject type %s_%s from is_ macro", prefix, klass)
		return prefix, klass, strings.ToLower(prefix), strings.ToLower(klass), true
	}
	if m := reGetTypeFunc.FindStringSubmatch(c.list); m != nil {
		lprefix, lclass = m[1], m[2]
		c.log.Printf("found gobject type %s_%s from get_type function", lprefix, lclass)
		return strings.ToUpper(lprefix), strings.ToUpper(lclass), lprefix, lclass, true
	}
	return "", "", "", "", false
}

// Classify splits symbols into the main listing and the Standard group.
// documented holds lowercased names that have their own doc comment; such
// instance, class and interface structs stay in the main listing.
func Classify(file, title string, symbols []string, documented map[string]bool, logger *log.Logger) Section {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	var b strings.Builder
	for _, sym := range symbols {
		if sym != "" {
			b.WriteString(sym + "\n")
		}
	}
	c := &classifier{list: b.String(), log: logger}

	for {
		_, klass, lprefix, lclass, ok := c.evidence()
		if !ok {
			break
		}
		before := c.list
		k := regexp.QuoteMeta(klass)
		lk := regexp.QuoteMeta(lclass)
		mtype := lprefix + strings.ReplaceAll(lclass, "_", "")
		mt := regexp.QuoteMeta(mtype)

		c.moveFirst(`^` + mt + `Private\n`)
		if !documented[mtype] {
			c.moveFirst(`^` + mt + `\n`)
		}
		if !documented[mtype+"class"] {
			c.moveFirst(`^` + mt + `Class\n`)
		}
		if !documented[mtype+"interface"] {
			c.moveFirst(`^` + mt + `Interface\n`)
		}
		if !documented[mtype+"iface"] {
			c.moveFirst(`^` + mt + `Iface\n`)
		}

		c.moveAll(`^\S+_IS_` + k + `\n`)
		c.moveAll(`^\S+_TYPE_` + k + `\n`)
		c.moveAll(`^\S+_` + lk + `_get_type\n`)
		c.moveAll(`^\S+_` + k + `_CLASS\n`)
		c.moveAll(`^\S+_IS_` + k + `_CLASS\n`)
		c.moveAll(`^\S+_` + k + `_GET_CLASS\n`)
		c.moveAll(`^\S+_` + k + `_GET_IFACE\n`)
		c.moveAll(`^\S+_` + k + `_GET_INTERFACE\n`)
		// Broadest last, it would also match the _IS_ macros.
		c.moveAll(`^\S+_` + k + `\n`)

		if c.list == before {
			break
		}
	}

	sort.Strings(c.standard)
	var main []string
	if c.list != "" {
		main = strings.Split(strings.TrimSuffix(c.list, "\n"), "\n")
	}
	return Section{File: file, Title: title, Symbols: main, Standard: c.standard}
}
