// Package typeexpr parses the textual type expressions used in schema files,
// such as "int", "list<Order>" or "map<string,list<int>>".
package typeexpr

import (
	"fmt"
	"strings"
)

// Expr is a parsed type expression: a name and its type arguments.
type Expr struct {
	Name string
	Args []*Expr
}

func (e *Expr) String() string {
	if len(e.Args) == 0 {
		return e.Name
	}
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Name + "<" + strings.Join(args, ",") + ">"
}

// Names returns every leaf identifier in e, left to right.
func (e *Expr) Names() []string {
	if len(e.Args) == 0 {
		return []string{e.Name}
	}
	var names []string
	for _, a := range e.Args {
		names = append(names, a.Names()...)
	}
	return names
}

// Arity returns how many type arguments a known shape takes, or -1 for names
// that are not shapes.
func Arity(name string) int {
	switch name {
	case "list", "generic":
		return 1
	case "map":
		return 2
	default:
		return -1
	}
}

// CheckArity reports the first shape in e used with the wrong number of
// arguments, and any known shape used bare.
func (e *Expr) CheckArity() error {
	want := Arity(e.Name)
	if want >= 0 && len(e.Args) != want {
		return fmt.Errorf("%s takes %d type argument(s), got %d", e.Name, want, len(e.Args))
	}
	for _, a := range e.Args {
		if err := a.CheckArity(); err != nil {
			return err
		}
	}
	return nil
}

func Parse(s string) (*Expr, error) {
	p := &parser{src: s}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return e, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) expr() (*Expr, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	e := &Expr{Name: name}

	p.skipSpace()
	if !p.accept('<') {
		return e, nil
	}
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		e.Args = append(e.Args, arg)

		p.skipSpace()
		if p.accept(',') {
			continue
		}
		if p.accept('>') {
			return e, nil
		}
		if p.pos == len(p.src) {
			return nil, p.errorf("missing '>'")
		}
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
}

func (p *parser) ident() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || (p.pos > start && '0' <= c && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		if p.pos == len(p.src) {
			return "", p.errorf("expected type name")
		}
		return "", p.errorf("expected type name, got %q", p.src[p.pos])
	}
	return p.src[start:p.pos], nil
}

func (p *parser) accept(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("type expression %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}
