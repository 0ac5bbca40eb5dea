// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arity implements the structural arity analysis that
// determines how many stack items constitute one complete postfix
// expression, per spec.md §4.3. It is the single source of truth for
// "what is one expression" and is reused, unchanged, by extraction for
// evaluation, extraction for function/iterative definitions, and Drop.
package arity

import (
	"polyrat/token"
)

// selfRef overrides Identifier arity resolution for one name, used
// while a function or iterative body is being parsed so that a
// self-referential occurrence resolves to the arity declared on the
// assignment token rather than to whatever (if anything) the table
// currently holds for that name.
type selfRef struct {
	table token.Lookup
	name  string
	arity int
}

func (s selfRef) Arity(name string) int {
	if s.name != "" && name == s.name {
		return s.arity
	}
	return s.table.Arity(name)
}

// Extract scans stack leftward from index end, looking for the
// longest-from-the-right prefix whose cumulative arity is exactly one
// complete expression. It returns the start index of that slice and
// true on success, or (0, false) if the stack is exhausted first.
//
// selfName, when non-empty, is the name currently being defined;
// self-referential occurrences resolve to selfArity instead of
// whatever the table says, supporting recursive definitions whose real
// body has not yet been installed (spec.md §4.3).
//
// Extract panics if it encounters an action token on the stack: the
// working stack must never hold one (spec.md §3 invariant 3), so
// finding one here is internal corruption, not a user error.
func Extract(stack []token.Token, table token.Lookup, end int, selfName string, selfArity int) (start int, ok bool) {
	lookup := token.Lookup(table)
	if selfName != "" {
		lookup = selfRef{table: table, name: selfName, arity: selfArity}
	}
	need := 1
	i := end
	for need > 0 {
		if i == 0 {
			return 0, false
		}
		i--
		tok := stack[i]
		if token.IsAction(tok.Kind) {
			panic("internal: action token found on working stack during extraction")
		}
		n, _ := token.Arity(tok, lookup)
		need += n - 1
	}
	return i, true
}

// Drop removes one complete expression from the top of stack using the
// same arity counter as Extract, but without needing the slice. If the
// stack runs out mid-expression it returns the original stack and
// false: the dispatcher's Drop handler stops silently in that case, per
// spec.md §4.6.
func Drop(stack []token.Token, table token.Lookup) ([]token.Token, bool) {
	from, ok := Extract(stack, table, len(stack), "", 0)
	if !ok {
		return stack, false
	}
	return stack[:from], true
}
