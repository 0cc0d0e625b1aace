package scanner

import "strings"

// Kind identifies the grammar a declaration was recognized by.
type Kind int

const (
	KindMacro Kind = iota
	KindFunction
	KindUserFunction
	KindEnum
	KindStruct
	KindUnion
	KindTypedef
	KindVariable
	KindObjectDeclarator
)

var kindTags = [...]string{
	KindMacro:            "MACRO",
	KindFunction:         "FUNCTION",
	KindUserFunction:     "USER_FUNCTION",
	KindEnum:             "ENUM",
	KindStruct:           "STRUCT",
	KindUnion:            "UNION",
	KindTypedef:          "TYPEDEF",
	KindVariable:         "VARIABLE",
	KindObjectDeclarator: "G_DECLARE",
}

// String returns the block tag used for the kind, e.g. "USER_FUNCTION".
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindTags) {
		return "UNKNOWN"
	}
	return kindTags[k]
}

// recordKind maps the "struct"/"union" keyword to its Kind.
func recordKind(keyword string) Kind {
	if keyword == "union" {
		return KindUnion
	}
	return KindStruct
}

const deprecatedMarker = "<DEPRECATED/>\n"

// Declaration is one finished, documentable declaration.
type Declaration struct {
	Kind Kind
	Name string
	// ReturnType is only set for functions and user functions.
	ReturnType string
	// Body is the collected source text with its original line endings.
	Body       string
	Deprecated bool
}

// Block renders the declaration in the decl-file block format.
func (d Declaration) Block() string {
	tag := d.Kind.String()
	var b strings.Builder
	b.WriteString("<" + tag + ">\n<NAME>" + d.Name + "</NAME>\n")
	if d.Deprecated {
		b.WriteString(deprecatedMarker)
	}
	switch d.Kind {
	case KindFunction:
		b.WriteString("<RETURNS>" + d.ReturnType + "</RETURNS>\n")
		b.WriteString(d.Body)
		b.WriteString("\n")
	case KindUserFunction:
		b.WriteString("<RETURNS>" + d.ReturnType + "</RETURNS>\n")
		b.WriteString(d.Body)
	default:
		b.WriteString(d.Body)
	}
	b.WriteString("</" + tag + ">\n")
	return b.String()
}
