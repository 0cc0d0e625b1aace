// Package scanner extracts documentable declarations from C header text.
//
// It is a line-oriented recognizer rather than a C parser: each line is
// classified by an ordered rule table, multi-line declarations are collected
// until their terminator, and preprocessor guards decide whether a
// declaration is deprecated or ignored altogether.
package scanner

import (
	"fmt"
	"io"
	"log"
	"regexp"
	"sort"
	"strings"
)

// Options configures a Scanner.
type Options struct {
	// Module is the documentation module name. TRUE and FALSE are only
	// documented for "glib".
	Module string
	// DeprecatedGuards is a regular expression matched against #ifdef names
	// that wrap deprecated code. Empty means no guard is a deprecation guard.
	DeprecatedGuards string
	// IgnoreDecorators is a "|"-separated list of words that may prefix
	// declarations, e.g. "GLIB_AVAILABLE_IN_ALL|GDK_AVAILABLE_IN_3_0".
	IgnoreDecorators string
	// GetTypes enables collection of *_get_type function names.
	GetTypes bool
	Logger   *log.Logger
}

// Scanner holds compiled configuration and may be shared; every Scan call
// works on its own state.
type Scanner struct {
	opts   Options
	g      *grammar
	guards *regexp.Regexp
	log    *log.Logger
}

func New(opts Options) (*Scanner, error) {
	g, err := grammarFor(opts.IgnoreDecorators)
	if err != nil {
		return nil, err
	}
	var guards *regexp.Regexp
	if opts.DeprecatedGuards != "" {
		guards, err = regexp.Compile(opts.DeprecatedGuards)
		if err != nil {
			return nil, fmt.Errorf("scanner: deprecated guards %q: %w", opts.DeprecatedGuards, err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Scanner{opts: opts, g: g, guards: guards, log: logger}, nil
}

// Result is what one header produced.
type Result struct {
	// Declarations in emission order, forward declarations last.
	Declarations []Declaration
	// Symbols in symbol-table order.
	Symbols []string
	// Title is "<TITLE>Obj</TITLE>" when an Obj{Class,Iface,Interface}
	// struct was found.
	Title string
	// DocComments holds lowercased names that have a doc comment.
	DocComments map[string]bool
	GetTypes    []string
	// Private is set when the header declared itself private; scanning
	// stopped there and the header gets no section.
	Private bool
}

// Blocks renders all declarations in order.
func (r *Result) Blocks() []string {
	out := make([]string, 0, len(r.Declarations))
	for _, d := range r.Declarations {
		out = append(out, d.Block())
	}
	return out
}

// ScanString splits text into lines and scans them.
func (s *Scanner) ScanString(text string) *Result {
	return s.Scan(SplitLines(text))
}

// Scan processes the lines of one header. Each line keeps its line ending.
func (s *Scanner) Scan(lines []string) *Result {
	c := &scanContext{
		opts:        &s.opts,
		g:           s.g,
		log:         s.log,
		guard:       guardTracker{deprecatedGuards: s.guards},
		symbols:     NewSymbolTable(),
		forward:     make(map[string]Declaration),
		docComments: make(map[string]bool),
		firstMacro:  true,
	}
	for _, line := range lines {
		if !c.step(line) {
			s.log.Printf("private header, stopping")
			return c.result(true)
		}
	}
	c.flushForward()
	return c.result(false)
}

// scanContext is the state of a single Scan call.
type scanContext struct {
	opts *Options
	g    *grammar
	log  *log.Logger

	guard       guardTracker
	symbols     *SymbolTable
	forward     map[string]Declaration
	docComments map[string]bool

	inComment bool
	comment   strings.Builder

	active activeDecl
	// line is the line being classified; the variable rule rewrites it.
	line       string
	prev       string
	prevPrev   string
	firstMacro bool

	title    string
	decls    []Declaration
	getTypes []string
}

// step handles one line and returns false when the header is private.
func (c *scanContext) step(line string) bool {
	if rePrivateHeader.MatchString(line) {
		return false
	}
	if c.inComment {
		c.continueComment(line)
		return true
	}

	_, inEnum := c.active.(*enumDecl)
	if c.guard.update(line, inEnum) {
		c.log.Printf("found deprecation annotation %q", strings.TrimSpace(line))
	}
	if c.guard.ignoring() {
		return true
	}

	c.line = line
	if c.active == nil {
		if c.startComment(line) {
			return true
		}
		c.classify()
	} else {
		c.active.feed(c, line)
	}
	if c.active != nil && c.active.complete(c, c.line) {
		c.active = nil
	}
	c.remember(c.line)
	return true
}

func (c *scanContext) startComment(line string) bool {
	if !reCommentStart.MatchString(line) {
		return false
	}
	if !strings.Contains(line, "*/") {
		c.inComment = true
		c.comment.Reset()
		c.comment.WriteString(line)
	}
	return true
}

func (c *scanContext) continueComment(line string) {
	c.comment.WriteString(line)
	if !strings.Contains(line, "*/") {
		return
	}
	if m := reDocName.FindStringSubmatch(c.comment.String()); m != nil {
		c.docComments[strings.ToLower(m[1])] = true
	}
	c.inComment = false
	c.comment.Reset()
}

// remember keeps the last two non-blank lines for split declarations.
func (c *scanContext) remember(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	c.prevPrev = c.prev
	c.prev = line
}

// emit appends d when it has a name that was not seen before.
func (c *scanContext) emit(d Declaration) bool {
	if d.Name == "" || !c.symbols.TryInsert(d.Name) {
		return false
	}
	c.decls = append(c.decls, d)
	return true
}

// flushForward emits opaque records that never got a definition.
func (c *scanContext) flushForward() {
	names := make([]string, 0, len(c.forward))
	for name := range c.forward {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.emit(c.forward[name])
	}
}

func (c *scanContext) result(private bool) *Result {
	return &Result{
		Declarations: c.decls,
		Symbols:      c.symbols.Names(),
		Title:        c.title,
		DocComments:  c.docComments,
		GetTypes:     c.getTypes,
		Private:      private,
	}
}

// SplitLines breaks text into lines, normalizing "\r\n" and "\r" to "\n".
// Every line but possibly the last ends in "\n".
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
