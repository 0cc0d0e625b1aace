package scanner

import (
	"regexp"
	"strings"
)

// rule tries to recognize the start of a declaration on the current line.
// A rule that returns true stops the cascade even when it starts nothing.
type rule struct {
	name  string
	match func(c *scanContext, line string) bool
}

var rules = []rule{
	{"macro", (*scanContext).startMacro},
	{"typedef user function", (*scanContext).startUserFunctionTypedef},
	{"split typedef user function", (*scanContext).startSplitUserFunctionTypedef},
	{"function pointer variable", (*scanContext).startFunctionPointerVar},
	{"enum", (*scanContext).startEnum},
	{"forward record", (*scanContext).recordForward},
	{"typedef record", (*scanContext).startRecordTypedef},
	{"record pointer typedef", (*scanContext).emitRecordPointerTypedef},
	{"typedef", (*scanContext).emitTypedef},
	{"variable", (*scanContext).emitVariable},
	{"object declarator", (*scanContext).startObjectDeclarator},
	{"function", (*scanContext).startFunction},
	{"split function", (*scanContext).startSplitFunction},
	{"struct", (*scanContext).startStruct},
	{"union", (*scanContext).startUnion},
}

// classify runs the rule cascade on c.line, which a rule may rewrite.
func (c *scanContext) classify() {
	for _, r := range rules {
		if r.match(c, c.line) {
			return
		}
	}
}

func (c *scanContext) startMacro(line string) bool {
	m := reDefine.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	name := m[1]
	internal := strings.HasPrefix(name, "_") ||
		(c.firstMacro && ifndefGuards(c.prev, name)) ||
		((name == "TRUE" || name == "FALSE") && c.opts.Module != "glib")
	if internal {
		c.log.Printf("skipping macro %s", name)
	} else {
		c.log.Printf("macro %s", name)
	}
	c.firstMacro = false
	c.active = &macroDecl{name: name, body: line, internal: internal}
	return true
}

// ifndefGuards reports whether prev contains "#ifndef" followed by
// whitespace and name, the usual include guard in front of a header's
// first #define.
func ifndefGuards(prev, name string) bool {
	const directive = "#ifndef"
	for rest := prev; ; {
		i := strings.Index(rest, directive)
		if i < 0 {
			return false
		}
		rest = rest[i+len(directive):]
		trimmed := strings.TrimLeft(rest, " \t\r\n\f\v")
		if len(trimmed) < len(rest) && strings.HasPrefix(trimmed, name) {
			return true
		}
	}
}

// userFunction starts a user function from a match laid out as
// (return type)(const qualifier)(trailing const)(stars)(name).
func (c *scanContext) userFunction(g []string, body string, kind string) {
	ret := g[1] + g[3] + " " + g[4]
	c.log.Printf("%s %s returns %q", kind, g[5], ret)
	c.active = &userFuncDecl{name: g[5], returnType: ret, body: body}
}

func (c *scanContext) startUserFunctionTypedef(line string) bool {
	g, end := submatches(reUserFnTypedef, line)
	if g == nil {
		return false
	}
	c.userFunction(g, line[end:], "user function")
	return true
}

var reTypedefPrev = regexp.MustCompile(`^\s*typedef\s*`)

// startSplitUserFunctionTypedef handles typedefs whose return type, or the
// whole "typedef R" prefix, sits on the previous line.
func (c *scanContext) startSplitUserFunctionTypedef(line string) bool {
	if !reTypedefPrev.MatchString(c.prev) {
		return false
	}
	if g, end := submatches(reUserFnNoType, line); g != nil {
		c.userFunction(g, line[end:], "user function")
		return true
	}
	g, end := submatches(reUserFnNameOnly, line)
	if g == nil {
		return false
	}
	if p := reTypedefReturn.FindStringSubmatch(c.prev); p != nil {
		ret := p[1] + p[3] + " " + g[1]
		c.log.Printf("user function %s returns %q", g[2], ret)
		c.active = &userFuncDecl{name: g[2], returnType: ret, body: line[end:]}
	}
	return true
}

func (c *scanContext) startFunctionPointerVar(line string) bool {
	g, end := submatches(c.g.fnPtrVar, line)
	if g == nil {
		return false
	}
	c.userFunction(g, line[end:], "function pointer variable")
	return true
}

func (c *scanContext) startEnum(line string) bool {
	if m := reEnum.FindStringSubmatch(line); m != nil {
		c.log.Printf("enum %s", m[1])
		c.active = &enumDecl{name: m[1], body: line}
		return true
	}
	if m := reEnumTypedefAlias.FindStringSubmatch(line); m != nil && (m[3] == m[2] || m[3] == m[1]+m[2]) {
		c.log.Printf("skipping enum typedef %s", m[3])
		return true
	}
	if reEnumTypedef.MatchString(line) {
		c.active = &enumDecl{body: line}
		return true
	}
	return false
}

// recordForward records opaque "typedef struct _X X;" and "struct X;"
// declarations. A full definition found later replaces them.
func (c *scanContext) recordForward(line string) bool {
	if m := reRecordTypedefAlias.FindStringSubmatch(line); m != nil && m[2] == m[3] {
		c.log.Printf("%s typedef %s", m[1], m[2])
		c.forward[m[2]] = Declaration{Kind: recordKind(m[1]), Name: m[2], Deprecated: c.guard.deprecated()}
		return true
	}
	if rePrivateRecord.MatchString(line) {
		return true
	}
	if m := reRecordForward.FindStringSubmatch(line); m != nil {
		c.log.Printf("%s %s", m[1], m[2])
		c.forward[m[2]] = Declaration{Kind: recordKind(m[1]), Name: m[2], Body: line, Deprecated: c.guard.deprecated()}
		return true
	}
	return false
}

func (c *scanContext) startRecordTypedef(line string) bool {
	m := reRecordTypedef.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	c.active = &recordDecl{kind: recordKind(m[1]), body: line}
	return true
}

func (c *scanContext) emitRecordPointerTypedef(line string) bool {
	m := reRecordPtrTypedef.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	c.emit(Declaration{Kind: KindTypedef, Name: m[1], Body: line, Deprecated: c.guard.deprecated()})
	return true
}

func (c *scanContext) emitTypedef(line string) bool {
	if m := reTypedef.FindStringSubmatch(line); m != nil {
		if f := strings.Fields(m[2]); len(f) > 0 && f[0] != "struct" && f[0] != "union" {
			c.emit(Declaration{Kind: KindTypedef, Name: m[3], Body: line, Deprecated: c.guard.deprecated()})
		}
		return true
	}
	if reTypedefStart.MatchString(line) {
		c.log.Printf("skipping typedef %q", strings.TrimSpace(line))
		return true
	}
	return false
}

func (c *scanContext) emitVariable(line string) bool {
	if g := c.g.externVar.FindStringSubmatch(line); g != nil {
		c.line = reVarPrefix.ReplaceAllString(line, "extern")
		c.emit(Declaration{Kind: KindVariable, Name: g[6], Body: c.line, Deprecated: c.guard.deprecated()})
		return true
	}
	if g := reInitVar.FindStringSubmatch(line); g != nil {
		c.emit(Declaration{Kind: KindVariable, Name: g[5], Body: line, Deprecated: c.guard.deprecated()})
		return true
	}
	return false
}

func (c *scanContext) startObjectDeclarator(line string) bool {
	g, end := submatches(reObjectDeclare, line)
	if g == nil {
		return false
	}
	c.active = &objectDecl{variant: g[1], body: line[end:]}
	return true
}

// startFunction handles "R name (" on one line. Names starting with an
// underscore are consumed as internal functions.
func (c *scanContext) startFunction(line string) bool {
	internal := true
	g, end := submatches(c.g.internalFn, line)
	if g == nil {
		internal = false
		if g, end = submatches(c.g.fn, line); g == nil {
			return false
		}
	}
	ret := g[1]
	if g[2] != "" {
		ret += " " + g[2]
	}
	c.log.Printf("function %s returns %q", g[3], ret)
	fn := &functionDecl{name: g[3], returnType: ret, internal: internal}
	fn.start(line[end:], reInlineFunc.MatchString(line))
	c.active = fn
	return true
}

// start sets the text after the opening parenthesis, arming the balancer
// first when the function carries an inline body.
func (d *functionDecl) start(body string, inline bool) {
	if inline {
		d.braces.arm()
		d.body = d.braces.feed(body)
		return
	}
	d.body = body
}

// startSplitFunction handles functions whose return type or name is on the
// preceding line(s).
func (c *scanContext) startSplitFunction(line string) bool {
	if g, end := submatches(reNameParen, line); g != nil {
		c.splitReturnType(g[1], line, line[end:])
		return true
	}
	loc := reParenStart.FindStringIndex(line)
	if loc == nil {
		return false
	}
	body := line[loc[1]:]
	if p := c.g.retAndName.FindStringSubmatch(c.prev); p != nil {
		ret := p[1] + " " + p[2]
		c.log.Printf("function %s returns %q", p[3], ret)
		fn := &functionDecl{name: p[3], returnType: ret}
		fn.start(body, false)
		c.active = fn
		return true
	}
	if reBareWord.MatchString(c.prev) {
		if p := c.g.retOnly.FindStringSubmatch(c.prevPrev); p != nil {
			name := strings.TrimSpace(c.prev)
			ret := reNewlineTail.ReplaceAllString(p[1], "")
			c.log.Printf("function %s returns %q", name, ret)
			fn := &functionDecl{name: name, returnType: ret}
			fn.start(body, false)
			c.active = fn
		}
	}
	return true
}

// splitReturnType starts a function "name (" whose return type is the
// previous line. Inline and static definitions get their bodies consumed.
func (c *scanContext) splitReturnType(name, line, body string) {
	words := strings.Fields(c.prev)
	static := len(words) > 0 && words[0] == "static"

	var ret *regexp.Regexp
	inline := false
	switch {
	case reInlineFunc.MatchString(c.prev):
		ret, inline = c.g.retInline, true
	case static && reInlineWord.MatchString(c.prev):
		ret, inline = c.g.retStatic, true
	case static:
		if strings.Contains(line, ";") {
			c.log.Printf("skipping static prototype %s", name)
			return
		}
		c.log.Printf("skipping static function %s", name)
		sb := &staticBodyDecl{}
		sb.braces.arm()
		sb.braces.feed(body)
		if sb.braces.armed() {
			c.active = sb
		}
		return
	default:
		ret = c.g.retExtern
	}

	p := ret.FindStringSubmatch(c.prev)
	if p == nil {
		return
	}
	rt := p[1]
	if p[2] != "" {
		rt += " " + p[2]
	}
	c.log.Printf("function %s returns %q", name, rt)
	fn := &functionDecl{name: name, returnType: rt}
	fn.start(body, inline)
	c.active = fn
}

func (c *scanContext) startStruct(line string) bool {
	if reStructPtr.MatchString(line) {
		return true
	}
	m := reStruct.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	c.log.Printf("struct %s", m[1])
	c.active = &recordDecl{kind: KindStruct, name: m[1], body: line}
	return true
}

func (c *scanContext) startUnion(line string) bool {
	if reUnionPtr.MatchString(line) {
		return true
	}
	m := reUnion.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	c.log.Printf("union %s", m[1])
	c.active = &recordDecl{kind: KindUnion, name: m[1], body: line}
	return true
}
