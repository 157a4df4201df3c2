// Package expr evaluates the restricted arithmetic shorthand merchants type
// into free-text quantity fields. The grammar is fixed (numbers, + - * /,
// parentheses, decimal point) and every failure path collapses to zero so a
// half-typed expression can never corrupt a downstream total.
package expr

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// safePattern is checked against the expression after symbol substitution.
// It is the only gate between raw user text and the parser.
var safePattern = regexp.MustCompile(`^[0-9+\-*/.() ]+$`)

var symbolReplacer = strings.NewReplacer("×", "*", "÷", "/")

var (
	errUnexpectedToken = errors.New("expr: unexpected token")
	errDivideByZero    = errors.New("expr: division by zero")
)

// Evaluate resolves an arithmetic expression to a number rounded to two
// decimals (half away from zero). The multiplication and division signs
// commonly produced by mobile keyboards (× and ÷) are accepted. Any input
// that is empty, contains characters outside the whitelist, or fails to
// parse evaluates to 0. Evaluate never panics and never returns NaN or Inf.
func Evaluate(expression string) float64 {
	normalized := symbolReplacer.Replace(expression)
	if strings.TrimSpace(normalized) == "" {
		return 0
	}
	if !safePattern.MatchString(normalized) {
		return 0
	}
	p := parser{input: normalized}
	value, err := p.run()
	if err != nil {
		return 0
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return math.Round(value*100) / 100
}

// parser is a recursive-descent evaluator over the whitelisted grammar:
//
//	expr   = term   { (+|-) term }
//	term   = factor { (*|/) factor }
//	factor = [+|-] factor | "(" expr ")" | number
type parser struct {
	input string
	pos   int
}

func (p *parser) run() (float64, error) {
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, errUnexpectedToken
	}
	return value, nil
}

func (p *parser) parseExpr() (float64, error) {
	value, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			value += rhs
		case '-':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			value -= rhs
		default:
			return value, nil
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	value, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			value *= rhs
		case '/':
			p.pos++
			rhs, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, errDivideByZero
			}
			value /= rhs
		default:
			return value, nil
		}
	}
}

func (p *parser) parseFactor() (float64, error) {
	switch p.peek() {
	case '+':
		p.pos++
		return p.parseFactor()
	case '-':
		p.pos++
		value, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		return -value, nil
	case '(':
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, errUnexpectedToken
		}
		p.pos++
		return value, nil
	default:
		return p.parseNumber()
	}
}

func (p *parser) parseNumber() (float64, error) {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c < '0' || c > '9') && c != '.' {
			break
		}
		p.pos++
	}
	if start == p.pos {
		return 0, errUnexpectedToken
	}
	value, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, errUnexpectedToken
	}
	return value, nil
}

// peek returns the next non-space byte without consuming it, or 0 at the end.
func (p *parser) peek() byte {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}
