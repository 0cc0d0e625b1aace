package scanner

import (
	"fmt"
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Patterns that do not depend on the configured ignore decorators.
var (
	rePrivateHeader = regexp.MustCompile(`^\s*/\*\s*<\s*private_header\s*>\s*\*/`)
	reCommentStart  = regexp.MustCompile(`^\s*/\*`)
	reDocName       = regexp.MustCompile(`\* ([a-zA-Z][a-zA-Z0-9_]+):`)

	reIfDefined = regexp.MustCompile(`^\s*#\s*if(?:n?def\b|\s+!?\s*defined\s*\()\s*(\w+)`)
	reIf        = regexp.MustCompile(`^\s*#\s*if`)
	reEndif     = regexp.MustCompile(`^\s*#\s*endif`)
	reDirective = regexp.MustCompile(`^\s*#\s*(if*|define)`)

	reDefine = regexp.MustCompile(`^\s*#\s*define\s+(\w+)`)

	reUserFnTypedef  = regexp.MustCompile(`^\s*typedef\s+((const\s+|G_CONST_RETURN\s+)?\w+)(\s+const)?\s*(\**)\s*\(\*\s*(\w+)\)\s*\(`)
	reTypedefStart   = regexp.MustCompile(`^\s*typedef\s+`)
	reUserFnNoType   = regexp.MustCompile(`^\s*((const\s+|G_CONST_RETURN\s+)?\w+)(\s+const)?\s*(\**)\s*\(\*\s*(\w+)\)\s*\(`)
	reUserFnNameOnly = regexp.MustCompile(`^\s*(\**)\s*\(\*\s*(\w+)\)\s*\(`)
	reTypedefReturn  = regexp.MustCompile(`^\s*typedef\s*((const\s+|G_CONST_RETURN\s+)?\w+)(\s+const)?\s*`)

	reEnum             = regexp.MustCompile(`^\s*enum\s+_?(\w+)\s+\{`)
	reEnumTypedefAlias = regexp.MustCompile(`^\s*typedef\s+enum\s+(_?)(\w+)\s+(\w+)\s*;`)
	reEnumTypedef      = regexp.MustCompile(`^\s*typedef\s+enum`)

	reRecordTypedefAlias = regexp.MustCompile(`^\s*typedef\s+(struct|union)\s+_(\w+)\s+(\w+)\s*;`)
	rePrivateRecord      = regexp.MustCompile(`^\s*(?:struct|union)\s+_(\w+)\s*;`)
	reRecordForward      = regexp.MustCompile(`^\s*(struct|union)\s+(\w+)\s*;`)
	reRecordTypedef      = regexp.MustCompile(`^\s*typedef\s+(struct|union)\s*\w*\s*\{`)
	reRecordPtrTypedef   = regexp.MustCompile(`^\s*typedef\s+(?:struct|union)\s+\w+[\s\*]+(\w+)\s*;`)
	reTypedef            = regexp.MustCompile(`^\s*(G_GNUC_EXTENSION\s+)?typedef\s+(.+[\s\*])(\w+)(\s*\[[^\]]+\])*\s*;`)

	reVarPrefix = regexp.MustCompile(`^\s*[A-Za-z_]+VAR\b`)
	reInitVar   = regexp.MustCompile(`^\s*((const\s+|signed\s+|unsigned\s+|long\s+|short\s+)*\w+)(\s+\*+|\*+|\s)\s*(const\s+)*([A-Za-z]\w*)\s*=`)

	reObjectDeclare = regexp.MustCompile(`.*G_DECLARE_(FINAL_TYPE|DERIVABLE_TYPE|INTERFACE)\s*\(`)

	reNameParen   = regexp.MustCompile(`^\s*([A-Za-z]\w*)\s*\(`)
	reParenStart  = regexp.MustCompile(`^\s*\(`)
	reBareWord    = regexp.MustCompile(`^\s*\w+\s*$`)
	reNewlineTail = regexp.MustCompile(`\s*\n`)
	reInlineFunc  = regexp.MustCompile(`^\s*G_INLINE_FUNC`)
	reInlineWord  = regexp.MustCompile(`\b(?:inline|__inline|__inline__|G_INLINE_FUNC)\b`)

	reStructPtr = regexp.MustCompile(`^\s*struct\s+_?(\w+)\s*\*`)
	reStruct    = regexp.MustCompile(`^\s*struct\s+_?(\w+)`)
	reUnionPtr  = regexp.MustCompile(`^\s*union\s+_(\w+)\s*\*`)
	reUnion     = regexp.MustCompile(`^\s*union\s+_(\w+)`)

	reMacroContinuation = regexp.MustCompile(`\\\s*$`)
	reUserFnEnd         = regexp.MustCompile(`\).*(\n?)$`)
	reEnumEnd           = regexp.MustCompile(`\}\s*(\w+)?;\s*$`)
	reRecordEnd         = regexp.MustCompile(`\n\}\s*(\w*);\s*$`)
	reObjectArgs        = regexp.MustCompile(`\s*(\w+)\s*,\s*(\w+)\s*,\s*(\w+)\s*,\s*(\w+)\s*,\s*(\w+)\s*\).*\n?$`)
	reObjectTitle       = regexp.MustCompile(`^(\S+)(Class|Iface|Interface)\b`)
	reInlineComment     = regexp.MustCompile(`/\*.*?\*/`)
	reLineBreak         = regexp.MustCompile(`\s*\n\s*`)
	reVoidParams        = regexp.MustCompile(`^(void|)$`)
)

const (
	qualifiers      = `const\s+|G_CONST_RETURN\s+|signed\s+|unsigned\s+|long\s+|short\s+|struct\s+|union\s+|enum\s+`
	pointerSuffixes = `(?:\s*(?:\*+|\bconst\b|\bG_CONST_RETURN\b))*`
)

// grammar holds the patterns that embed the ignore-decorator alternation.
type grammar struct {
	fnPtrVar   *regexp.Regexp
	externVar  *regexp.Regexp
	internalFn *regexp.Regexp
	fn         *regexp.Regexp
	retExtern  *regexp.Regexp
	retStatic  *regexp.Regexp
	retInline  *regexp.Regexp
	retAndName *regexp.Regexp
	retOnly    *regexp.Regexp
	fnEnd      *regexp.Regexp
}

var grammars = func() *lru.Cache[string, *grammar] {
	c, err := lru.New[string, *grammar](32)
	if err != nil {
		panic(err)
	}
	return c
}()

// grammarFor returns the compiled grammar for a decorator alternation such as
// "GLIB_AVAILABLE_IN_ALL|GDK_AVAILABLE_IN_3_0". An empty string means none.
func grammarFor(decorators string) (*grammar, error) {
	if g, ok := grammars.Get(decorators); ok {
		return g, nil
	}
	g, err := compileGrammar(decorators)
	if err != nil {
		return nil, err
	}
	grammars.Add(decorators, g)
	return g, nil
}

func compileGrammar(decorators string) (*grammar, error) {
	dec := ""
	if decorators != "" {
		dec = "|" + decorators
	}
	lead := `^\s*(?:\b(?:extern|G_INLINE_FUNC` + dec + `)\s*)*`
	prefix := lead + `((?:` + qualifiers + `)*\w+)([\s*]+` + pointerSuffixes + `)`
	retLine := func(words string) string {
		return `^\s*(?:\b(?:` + words + dec + `)\s*)*((?:` + qualifiers + `)*\w+)(` + pointerSuffixes + `)\s*$`
	}

	g := &grammar{}
	exprs := []struct {
		dst  **regexp.Regexp
		expr string
	}{
		{&g.fnPtrVar, lead + `((const\s+|G_CONST_RETURN\s+)?\w+)(\s+const)?\s*(\**)\s*\(\*\s*(\w+)\)\s*\(`},
		{&g.externVar, `^\s*(extern|[A-Za-z_]+VAR` + dec + `)\s+((const\s+|signed\s+|unsigned\s+|long\s+|short\s+)*\w+)(\s+\*+|\*+|\s)\s*(const\s+)*([A-Za-z]\w*)\s*;`},
		{&g.internalFn, prefix + `\s*(_[A-Za-z]\w*)\s*\(`},
		{&g.fn, prefix + `\s*([A-Za-z]\w*)\s*\(`},
		{&g.retExtern, retLine(`extern`)},
		{&g.retStatic, retLine(`extern|static|inline`)},
		{&g.retInline, retLine(`extern|G_INLINE_FUNC`)},
		{&g.retAndName, lead + `((?:const\s+|G_CONST_RETURN\s+|signed\s+|unsigned\s+|enum\s+)*\w+)(\s+\*+|\*+|\s)\s*([A-Za-z]\w*)\s*$`},
		{&g.retOnly, lead + `((?:const\s+|G_CONST_RETURN\s+|signed\s+|unsigned\s+|struct\s+|union\s+|enum\s+)*\w+(?:\**\s+\**(?:const|G_CONST_RETURN))?(?:\s+|\s*\*+))\s*$`},
		{&g.fnEnd, `(?m)\)\s*(G_GNUC_.*|.*DEPRECATED.*` + dec + `\s*|__attribute__\s*\(.*\)\s*)*;.*$`},
	}
	for _, e := range exprs {
		re, err := regexp.Compile(e.expr)
		if err != nil {
			return nil, fmt.Errorf("scanner: ignore decorators %q: %w", decorators, err)
		}
		*e.dst = re
	}
	return g, nil
}

// submatches returns the groups of the leftmost match of re in s (unmatched
// groups are empty) and the end offset of the whole match.
func submatches(re *regexp.Regexp, s string) ([]string, int) {
	idx := re.FindStringSubmatchIndex(s)
	if idx == nil {
		return nil, -1
	}
	groups := make([]string, len(idx)/2)
	for i := range groups {
		if idx[2*i] >= 0 {
			groups[i] = s[idx[2*i]:idx[2*i+1]]
		}
	}
	return groups, idx[1]
}
