// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symtab holds the two pieces of process-wide state a
// calculator instance mutates: the working stack of pending tokens and
// the symbol table mapping names to variables, functions, and
// iteratives. Per spec.md §4.2, both are mediated exclusively by the
// dispatcher; no other package keeps a long-lived reference to them.
package symtab

import (
	"math/big"

	"polyrat/token"
	"polyrat/tree"
)

// Stack is the ordered sequence of pending tokens; the end of the slice
// is the "top", matching spec.md §3.
type Stack []token.Token

// ObjKind distinguishes the three shapes an Object can take.
type ObjKind int

const (
	VariableKind ObjKind = iota
	FunctionKind
	IterativeKind
)

// Object is a named entry in the symbol table: a Variable, a Function,
// or an Iterative, per spec.md §3.
type Object struct {
	Kind ObjKind

	// VariableKind
	Value *big.Rat

	// FunctionKind and IterativeKind
	Arity int
	Body  *tree.Node // FunctionKind

	// IterativeKind
	Updates   []*tree.Node // exactly Arity trees, one per argument slot
	Finalizer *tree.Node
	Condition *tree.Node
}

// Table maps name to Object. The zero value is ready to use.
type Table map[string]*Object

// Arity implements token.Lookup: unknown names and Variables resolve to
// 0; Function and Iterative resolve to their declared arity. This is
// the early-binding point described in spec.md §9 — identifier arity is
// fixed at tree-build time by consulting the table as it stands then.
func (t Table) Arity(name string) int {
	obj, ok := t[name]
	if !ok {
		return 0
	}
	switch obj.Kind {
	case FunctionKind, IterativeKind:
		return obj.Arity
	default:
		return 0
	}
}

// SentinelFunction installs a placeholder Function(arity, Number(0))
// under name so that the tree builder resolves a self-referential
// occurrence of name — while its own body is being parsed — to arity,
// per spec.md §3 invariant 2 and §9's "early vs. late binding" note.
func (t Table) SentinelFunction(name string, arity int) {
	t[name] = &Object{
		Kind:  FunctionKind,
		Arity: arity,
		Body:  &tree.Node{Tok: token.Token{Kind: token.Number, Value: big.NewRat(0, 1)}},
	}
}
