// Package peg parses text against a parsing expression grammar given as a
// textual document.
//
// A grammar document holds one rule per line:
//
//	name = expression
//
// Expressions are built from "literals", ~"regular expressions", rule
// references and parenthesised groups, combined by sequence (juxtaposition),
// ordered choice (/), repetition (* + ?) and lookahead (& !). Text after # is
// a comment. Choice is ordered: the first alternative that matches wins.
package peg

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/ahrtr/gocontainer/set"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/segmentio/fasthash/fnv1a"
)

// Grammar is a compiled grammar document. It is immutable and safe for
// concurrent use.
type Grammar struct {
	doc   string
	rules map[string]*rule
	order []string
}

type rule struct {
	name  string
	index int
	body  expr
	line  int
}

var documentLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "EOL", Pattern: `\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Regex", Pattern: `~"(?:\\.|[^"\\])*"`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[=/()*+?&!]`},
})

type document struct {
	Rules []*ruleDecl `EOL* ( @@ EOL* )*`
}

type ruleDecl struct {
	Pos  lexer.Position
	Name string      `@Ident "="`
	Body *choiceDecl `@@`
}

type choiceDecl struct {
	Alternatives []*sequenceDecl `@@ ( "/" @@ )*`
}

type sequenceDecl struct {
	Terms []*termDecl `@@+`
}

type termDecl struct {
	Prefix string    `@( "&" | "!" )?`
	Atom   *atomDecl `@@`
	Suffix string    `@( "*" | "+" | "?" )?`
}

type atomDecl struct {
	Literal *string     `  @String`
	Regex   *string     `| @Regex`
	Ref     *string     `| @Ident`
	Group   *choiceDecl `| "(" @@ ")"`
}

var documentParser = participle.MustBuild[document](
	participle.Lexer(documentLexer),
	participle.Elide("Whitespace", "Comment"),
)

var cache = struct {
	sync.Mutex
	grammars map[uint64]*Grammar
}{grammars: make(map[uint64]*Grammar)}

// Compile reads a grammar document. Documents are cached, so compiling the
// same text twice returns the same *Grammar.
func Compile(doc string) (*Grammar, error) {
	key := fnv1a.HashString64(doc)

	cache.Lock()
	defer cache.Unlock()
	if g, ok := cache.grammars[key]; ok && g.doc == doc {
		return g, nil
	}
	g, err := compile(doc)
	if err != nil {
		return nil, err
	}
	cache.grammars[key] = g
	return g, nil
}

// MustCompile is like Compile but panics on a malformed document.
func MustCompile(doc string) *Grammar {
	g, err := Compile(doc)
	if err != nil {
		panic(err)
	}
	return g
}

func compile(doc string) (*Grammar, error) {
	parsed, err := documentParser.ParseString("grammar", doc)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			return nil, &GrammarError{Line: perr.Position().Line, Msg: perr.Message()}
		}
		return nil, &GrammarError{Msg: err.Error()}
	}
	if len(parsed.Rules) == 0 {
		return nil, &GrammarError{Line: 1, Msg: "no rules"}
	}

	g := &Grammar{
		doc:   doc,
		rules: make(map[string]*rule, len(parsed.Rules)),
	}
	defined := set.New()
	for i, decl := range parsed.Rules {
		if defined.Contains(decl.Name) {
			return nil, &GrammarError{Rule: decl.Name, Line: decl.Pos.Line, Msg: "defined twice"}
		}
		defined.Add(decl.Name)
		g.rules[decl.Name] = &rule{name: decl.Name, index: i, line: decl.Pos.Line}
		g.order = append(g.order, decl.Name)
	}

	for _, decl := range parsed.Rules {
		r := g.rules[decl.Name]
		body, err := g.buildChoice(decl.Body)
		if err != nil {
			return nil, &GrammarError{Rule: r.name, Line: r.line, Msg: err.Error()}
		}
		r.body = body
	}
	return g, nil
}

func (g *Grammar) buildChoice(decl *choiceDecl) (expr, error) {
	alts := make([]expr, 0, len(decl.Alternatives))
	for _, seq := range decl.Alternatives {
		alt, err := g.buildSequence(seq)
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return &choice{alts: alts}, nil
}

func (g *Grammar) buildSequence(decl *sequenceDecl) (expr, error) {
	items := make([]expr, 0, len(decl.Terms))
	for _, term := range decl.Terms {
		item, err := g.buildTerm(term)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return &sequence{items: items}, nil
}

func (g *Grammar) buildTerm(decl *termDecl) (expr, error) {
	item, err := g.buildAtom(decl.Atom)
	if err != nil {
		return nil, err
	}
	switch decl.Suffix {
	case "*":
		item = &repeat{item: item, min: 0, max: -1}
	case "+":
		item = &repeat{item: item, min: 1, max: -1}
	case "?":
		item = &repeat{item: item, min: 0, max: 1}
	}
	switch decl.Prefix {
	case "&":
		item = &lookahead{item: item}
	case "!":
		item = &lookahead{item: item, negate: true}
	}
	return item, nil
}

func (g *Grammar) buildAtom(decl *atomDecl) (expr, error) {
	switch {
	case decl.Literal != nil:
		text, err := strconv.Unquote(*decl.Literal)
		if err != nil {
			return nil, fmt.Errorf("bad literal %s: %w", *decl.Literal, err)
		}
		if text == "" {
			return nil, fmt.Errorf("empty literal")
		}
		return &literal{text: text}, nil
	case decl.Regex != nil:
		src := unquoteRegex(*decl.Regex)
		re, err := regexp.Compile(`\A(?:` + src + `)`)
		if err != nil {
			return nil, fmt.Errorf("bad regex %s: %w", *decl.Regex, err)
		}
		return &pattern{re: re, src: src}, nil
	case decl.Ref != nil:
		target, ok := g.rules[*decl.Ref]
		if !ok {
			return nil, fmt.Errorf("undefined rule %s", *decl.Ref)
		}
		return &ruleRef{rule: target}, nil
	case decl.Group != nil:
		return g.buildChoice(decl.Group)
	}
	return nil, fmt.Errorf("empty expression")
}

// unquoteRegex strips the ~"..." wrapping. Backslashes other than \" are kept
// for the regexp compiler.
func unquoteRegex(tok string) string {
	body := strings.TrimPrefix(tok, "~")
	body = body[1 : len(body)-1]
	return strings.ReplaceAll(body, `\"`, `"`)
}

// Rules returns rule names in document order.
func (g *Grammar) Rules() []string {
	return append([]string(nil), g.order...)
}

// Has reports whether the grammar defines the named rule.
func (g *Grammar) Has(name string) bool {
	_, ok := g.rules[name]
	return ok
}

// String returns the grammar document.
func (g *Grammar) String() string {
	return g.doc
}

// Parse matches the whole of text against the named rule and returns the
// parse tree. A mismatch is reported as *SyntaxError.
func (g *Grammar) Parse(text, entry string) (*Node, error) {
	r, ok := g.rules[entry]
	if !ok {
		return nil, fmt.Errorf("peg: unknown rule %q", entry)
	}
	m := newMatcher(text)
	node, ok := m.matchRule(r, 0)
	if ok && node.End == len(text) {
		return node, nil
	}
	if ok {
		m.fail.record(node.End, "end of input")
	}
	return nil, &SyntaxError{
		Rule:     entry,
		Offset:   m.fail.offset,
		Expected: m.fail.list(),
		Found:    foundAt(text, m.fail.offset),
	}
}
