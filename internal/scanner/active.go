package scanner

import "strings"

// activeDecl is a declaration whose terminator has not been seen yet.
// feed appends a continuation line; complete runs after every line (the
// starting one included) and reports whether the declaration is finished.
type activeDecl interface {
	feed(c *scanContext, line string)
	complete(c *scanContext, line string) bool
}

type macroDecl struct {
	name     string
	body     string
	internal bool
}

func (d *macroDecl) feed(_ *scanContext, line string) { d.body += line }

func (d *macroDecl) complete(c *scanContext, _ string) bool {
	if reMacroContinuation.MatchString(d.body) {
		return false
	}
	if !d.internal {
		c.emit(Declaration{Kind: KindMacro, Name: d.name, Body: d.body, Deprecated: c.guard.deprecated()})
	}
	c.guard.truncate()
	return true
}

type functionDecl struct {
	name       string
	returnType string
	body       string
	internal   bool
	braces     braceBalancer
}

func (d *functionDecl) feed(_ *scanContext, line string) {
	if d.braces.armed() {
		d.body += d.braces.feed(line)
		return
	}
	d.body += line
}

func (d *functionDecl) complete(c *scanContext, _ string) bool {
	if !c.g.fnEnd.MatchString(d.body) {
		return false
	}
	body := c.g.fnEnd.ReplaceAllString(d.body, "")
	if !d.internal {
		body = reInlineComment.ReplaceAllString(body, "")
		body = reLineBreak.ReplaceAllString(strings.TrimSpace(body), " ")
		ret := reInlineComment.ReplaceAllString(d.returnType, "")
		decl := Declaration{
			Kind:       KindFunction,
			Name:       d.name,
			ReturnType: ret,
			Body:       body,
			Deprecated: c.guard.deprecated(),
		}
		if c.emit(decl) && c.opts.GetTypes && isGetType(decl) {
			c.log.Printf("adding get-type %s", d.name)
			c.getTypes = append(c.getTypes, d.name)
		}
	}
	c.guard.truncate()
	return true
}

// isGetType reports whether d looks like a GType registration function.
func isGetType(d Declaration) bool {
	return strings.HasSuffix(d.Name, "_get_type") &&
		strings.Contains(d.ReturnType, "GType") &&
		reVoidParams.MatchString(d.Body)
}

type userFuncDecl struct {
	name       string
	returnType string
	body       string
}

func (d *userFuncDecl) feed(_ *scanContext, line string) { d.body += line }

func (d *userFuncDecl) complete(c *scanContext, _ string) bool {
	if !reUserFnEnd.MatchString(d.body) {
		return false
	}
	c.emit(Declaration{
		Kind:       KindUserFunction,
		Name:       d.name,
		ReturnType: d.returnType,
		Body:       reUserFnEnd.ReplaceAllString(d.body, "${1}"),
		Deprecated: c.guard.deprecated(),
	})
	c.guard.truncate()
	return true
}

type enumDecl struct {
	name string
	body string
}

func (d *enumDecl) feed(_ *scanContext, line string) { d.body += line }

func (d *enumDecl) complete(c *scanContext, _ string) bool {
	m := reEnumEnd.FindStringSubmatch(d.body)
	if m == nil {
		return false
	}
	name := d.name
	if name == "" {
		name = m[1]
	}
	c.emit(Declaration{Kind: KindEnum, Name: name, Body: d.body, Deprecated: c.guard.deprecated()})
	c.guard.truncate()
	return true
}

// recordDecl is a struct or union definition; level tracks brace nesting so
// that nested records do not end it early.
type recordDecl struct {
	kind  Kind
	name  string
	body  string
	level int
}

func (d *recordDecl) feed(_ *scanContext, line string) { d.body += line }

func (d *recordDecl) complete(c *scanContext, line string) bool {
	m := reRecordEnd.FindStringSubmatch(d.body)
	if d.level > 1 || m == nil {
		d.level += strings.Count(line, "{") - strings.Count(line, "}")
		return false
	}
	name := d.name
	if name == "" {
		name = m[1]
	}
	if t := reObjectTitle.FindStringSubmatch(name); t != nil {
		c.log.Printf("found object %s", t[1])
		c.title = "<TITLE>" + t[1] + "</TITLE>"
	}
	c.emit(Declaration{Kind: d.kind, Name: name, Body: d.body, Deprecated: c.guard.deprecated()})
	delete(c.forward, name)
	c.guard.truncate()
	return true
}

// objectDecl is a G_DECLARE_* invocation. It emits nothing itself; it
// registers forward structs for the declared type.
type objectDecl struct {
	variant string
	body    string
}

func (d *objectDecl) feed(_ *scanContext, line string) { d.body += line }

func (d *objectDecl) complete(c *scanContext, _ string) bool {
	m := reObjectArgs.FindStringSubmatch(d.body)
	if m == nil {
		return false
	}
	typeName, prefix := m[1], m[2]
	if c.opts.GetTypes {
		c.getTypes = append(c.getTypes, prefix+"_get_type")
	}
	deprecated := c.guard.deprecated()
	c.forward[typeName] = Declaration{Kind: KindStruct, Name: typeName, Deprecated: deprecated}
	switch d.variant {
	case "DERIVABLE_TYPE":
		c.forward[typeName+"Class"] = Declaration{Kind: KindStruct, Name: typeName + "Class", Deprecated: deprecated}
	case "INTERFACE":
		c.forward[typeName+"Interface"] = Declaration{Kind: KindStruct, Name: typeName + "Interface", Deprecated: deprecated}
	}
	return true
}

// staticBodyDecl swallows the body of a static, non-inline function.
type staticBodyDecl struct {
	braces braceBalancer
}

func (d *staticBodyDecl) feed(_ *scanContext, line string) {
	if d.braces.depth == 1 && strings.Contains(line, ";") && !strings.Contains(line, "{") {
		d.braces.disarm()
		return
	}
	d.braces.feed(line)
}

func (d *staticBodyDecl) complete(*scanContext, string) bool { return !d.braces.armed() }
