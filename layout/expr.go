package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// expr is a parsed type expression such as "list<u16le, option<u8>>".
// Numeric arguments have an empty name.
type expr struct {
	name  string
	args  []expr
	num   int
	isNum bool
}

func (e expr) String() string {
	if e.isNum {
		return strconv.Itoa(e.num)
	}
	if len(e.args) == 0 {
		return e.name
	}
	parts := make([]string, len(e.args))
	for i, a := range e.args {
		parts[i] = a.String()
	}
	return e.name + "<" + strings.Join(parts, ", ") + ">"
}

type exprParser struct {
	in  string
	pos int
}

func parseExpr(s string) (expr, error) {
	p := &exprParser{in: s}
	e, err := p.parse()
	if err != nil {
		return expr{}, err
	}
	p.skipSpace()
	if p.pos != len(p.in) {
		return expr{}, fmt.Errorf("unexpected %q at column %d", p.in[p.pos:], p.pos+1)
	}
	if e.isNum {
		return expr{}, fmt.Errorf("expected a type, got %d", e.num)
	}
	return e, nil
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.in) && (p.in[p.pos] == ' ' || p.in[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) parse() (expr, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.in) && isIdent(p.in[p.pos]) {
		p.pos++
	}
	word := p.in[start:p.pos]
	if word == "" {
		if p.pos == len(p.in) {
			return expr{}, fmt.Errorf("unexpected end of %q", p.in)
		}
		return expr{}, fmt.Errorf("unexpected %q at column %d", p.in[p.pos], p.pos+1)
	}
	if word[0] >= '0' && word[0] <= '9' {
		n, err := strconv.Atoi(word)
		if err != nil || n < 0 {
			return expr{}, fmt.Errorf("bad number %q", word)
		}
		return expr{num: n, isNum: true}, nil
	}

	e := expr{name: word}
	p.skipSpace()
	if p.pos == len(p.in) || p.in[p.pos] != '<' {
		return e, nil
	}
	p.pos++
	for {
		arg, err := p.parse()
		if err != nil {
			return expr{}, err
		}
		e.args = append(e.args, arg)
		p.skipSpace()
		if p.pos == len(p.in) {
			return expr{}, fmt.Errorf("missing '>' in %q", p.in)
		}
		switch p.in[p.pos] {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return e, nil
		default:
			return expr{}, fmt.Errorf("unexpected %q at column %d", p.in[p.pos], p.pos+1)
		}
	}
}

func isIdent(c byte) bool {
	return c == '_' || c == '-' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
