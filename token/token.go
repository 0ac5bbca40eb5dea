// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package token defines the token vocabulary shared by the scanner,
// the arity analyzer, the tree builder, and the evaluator.
package token

import (
	"fmt"
	"math/big"
)

//go:generate stringer -type Kind

// Kind identifies the shape of a Token.
type Kind int

const (
	Error Kind = iota

	Identifier
	AssignVariable
	AssignFunction
	AssignIterative
	Argument
	Number

	Plus
	Minus
	Times
	Divide
	PositiveMinus
	IntegerDiv
	Exp

	If
	ExpMod

	Return
	Partial
	Duplicate
	Drop
	Print
	Flush
	Empty
	Format
	Approx
)

// Token is a tagged value produced by the lexer and consumed by the
// rest of the pipeline. Only the fields relevant to Kind are set.
type Token struct {
	Kind   Kind
	Name   string   // Identifier, AssignVariable, AssignFunction, AssignIterative
	N      int      // AssignFunction, AssignIterative: declared arity. Argument: index.
	Value  *big.Rat // Number
	Text   string   // original source text, for Print and diagnostics
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier:
		return t.Name
	case AssignVariable:
		return "=" + t.Name
	case AssignFunction:
		return fmt.Sprintf("%s|%d", t.Name, t.N)
	case AssignIterative:
		return fmt.Sprintf("%s@%d", t.Name, t.N)
	case Argument:
		return fmt.Sprintf("$%d", t.N)
	case Number:
		return t.Value.RatString()
	case Error:
		return "error: " + t.Text
	default:
		if t.Text != "" {
			return t.Text
		}
		return kindNames[t.Kind]
	}
}

var kindNames = map[Kind]string{
	Plus:          "+",
	Minus:         "-",
	Times:         "*",
	Divide:        "/",
	PositiveMinus: "~",
	IntegerDiv:    `\`,
	Exp:           "^",
	If:            "?",
	ExpMod:        "_",
	Return:        "=",
	Partial:       "#",
	Duplicate:     "<",
	Drop:          "!",
	Print:         ":",
	Flush:         ">",
	Empty:         "%",
	Format:        "&",
	Approx:        "[]",
}

// IsAction reports whether t is a sentinel/action token: one that is
// never pushed onto the working stack and carries no arity.
func IsAction(k Kind) bool {
	switch k {
	case Return, Partial, Duplicate, Drop, Print, Flush, Empty, Format, Approx:
		return true
	}
	return false
}

// staticArity holds the arity of tokens whose arity does not depend on
// the symbol table.
var staticArity = map[Kind]int{
	Number:        0,
	Argument:      0,
	Plus:          2,
	Minus:         2,
	Times:         2,
	Divide:        2,
	PositiveMinus: 2,
	IntegerDiv:    2,
	Exp:           2,
	If:            3,
	ExpMod:        3,
}

// Lookup resolves the arity of an Identifier token against the symbol
// table in force. It is the single interface the token package shares
// with symtab, so neither package imports the other's concrete types.
// Unknown names and Variables both resolve to 0, per spec.
type Lookup interface {
	Arity(name string) int
}

// Arity returns the number of operands tok consumes, given table to
// resolve Identifier references. Action tokens return (0, false); they
// are not expression-forming and the caller must not ask for their
// arity during extraction.
func Arity(tok Token, table Lookup) (n int, ok bool) {
	if IsAction(tok.Kind) {
		return 0, false
	}
	if n, isStatic := staticArity[tok.Kind]; isStatic {
		return n, true
	}
	if tok.Kind == Identifier {
		return table.Arity(tok.Name), true
	}
	return 0, false
}
