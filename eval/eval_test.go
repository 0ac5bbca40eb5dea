// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"math/big"
	"testing"

	"polyrat/symtab"
	"polyrat/token"
	"polyrat/tree"
)

func rat(n, d int64) *big.Rat { return big.NewRat(n, d) }

func numNode(n int64) *tree.Node {
	return &tree.Node{Tok: token.Token{Kind: token.Number, Value: rat(n, 1)}}
}

func argNode(i int) *tree.Node {
	return &tree.Node{Tok: token.Token{Kind: token.Argument, N: i}}
}

func opNode(k token.Kind, children ...*tree.Node) *tree.Node {
	return &tree.Node{Tok: token.Token{Kind: k}, Children: children}
}

func mustReduce(t *testing.T, n *tree.Node, table symtab.Table, args []*big.Rat) *big.Rat {
	t.Helper()
	v, err := Reduce(n, table, args)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	return v
}

func TestReduceExactThirdsSumToOne(t *testing.T) {
	// 1/3 + 1/3 + 1/3 must be exactly 1, not a rounded approximation.
	third := &tree.Node{Tok: token.Token{Kind: token.Number, Value: rat(1, 3)}}
	sum := opNode(token.Plus, opNode(token.Plus, third, third), third)
	got := mustReduce(t, sum, symtab.Table{}, nil)
	if got.Cmp(rat(1, 1)) != 0 {
		t.Errorf("got %v, want 1", got)
	}
}

func TestReduceIfThenArmOnNonzeroCondition(t *testing.T) {
	n := opNode(token.If, numNode(10), numNode(20), numNode(1))
	got := mustReduce(t, n, symtab.Table{}, nil)
	if got.Cmp(rat(10, 1)) != 0 {
		t.Errorf("got %v, want 10 (then arm)", got)
	}
}

func TestReduceIfElseArmOnZeroCondition(t *testing.T) {
	n := opNode(token.If, numNode(10), numNode(20), numNode(0))
	got := mustReduce(t, n, symtab.Table{}, nil)
	if got.Cmp(rat(20, 1)) != 0 {
		t.Errorf("got %v, want 20 (else arm)", got)
	}
}

func TestReduceArgumentOutOfRange(t *testing.T) {
	n := argNode(2)
	_, err := Reduce(n, symtab.Table{}, []*big.Rat{rat(1, 1), rat(2, 1)})
	if err == nil {
		t.Fatal("expected an error for an out-of-range argument")
	}
}

func TestReduceArgumentOutsideFunction(t *testing.T) {
	n := argNode(0)
	_, err := Reduce(n, symtab.Table{}, nil)
	if err == nil {
		t.Fatal("expected an error for an argument used outside a function")
	}
}

func TestReduceUndefinedName(t *testing.T) {
	n := &tree.Node{Tok: token.Token{Kind: token.Identifier, Name: "nope"}}
	_, err := Reduce(n, symtab.Table{}, nil)
	if err == nil {
		t.Fatal("expected an error for an undefined name")
	}
}

func TestReduceDivideByZero(t *testing.T) {
	n := opNode(token.Divide, numNode(1), numNode(0))
	if _, err := Reduce(n, symtab.Table{}, nil); err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestReducePositiveMinusFloorsAtZero(t *testing.T) {
	n := opNode(token.PositiveMinus, numNode(3), numNode(10))
	got := mustReduce(t, n, symtab.Table{}, nil)
	if got.Sign() != 0 {
		t.Errorf("got %v, want 0", got)
	}
}

func TestReduceExpZeroToZeroIsOne(t *testing.T) {
	n := opNode(token.Exp, numNode(0), numNode(0))
	got := mustReduce(t, n, symtab.Table{}, nil)
	if got.Cmp(rat(1, 1)) != 0 {
		t.Errorf("got %v, want 1", got)
	}
}

func TestReduceExpMod(t *testing.T) {
	// 3^5 mod 7 = 243 mod 7 = 5.
	n := opNode(token.ExpMod, numNode(3), numNode(5), numNode(7))
	got := mustReduce(t, n, symtab.Table{}, nil)
	if got.Cmp(rat(5, 1)) != 0 {
		t.Errorf("got %v, want 5", got)
	}
}

// buildFib installs a tail-recursive accumulator-pair Fibonacci in the
// style of the bootstrap library's fib_rec (this variant returns the
// first accumulator, not the second) directly as symtab Objects, to
// exercise the trampoline's constant-stack tail call without routing
// through the scanner/extractor/tree-builder pipeline.
//
// fib_rec(a, b, n) = a if n == 0 else fib_rec(b, a+b, n-1)
func buildFib(t *testing.T) symtab.Table {
	t.Helper()
	table := symtab.Table{}
	table.SentinelFunction("fib_rec", 3)

	call := &tree.Node{
		Tok: token.Token{Kind: token.Identifier, Name: "fib_rec"},
		Children: []*tree.Node{
			argNode(1),
			opNode(token.Plus, argNode(0), argNode(1)),
			opNode(token.PositiveMinus, argNode(2), numNode(1)),
		},
	}
	body := opNode(token.If, call, argNode(0), argNode(2))
	table["fib_rec"] = &symtab.Object{Kind: symtab.FunctionKind, Arity: 3, Body: body}
	return table
}

func TestReduceTailRecursionIsBoundedInProcessStack(t *testing.T) {
	table := buildFib(t)
	call := &tree.Node{
		Tok: token.Token{Kind: token.Identifier, Name: "fib_rec"},
		Children: []*tree.Node{numNode(0), numNode(1), numNode(100000)},
	}
	// A naive recursive implementation of Reduce would blow the Go call
	// stack at this depth; the trampoline must not.
	got, err := Reduce(call, table, nil)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if got.Sign() <= 0 {
		t.Errorf("got %v, want a positive Fibonacci number", got)
	}
}

func TestReduceFibRecSmallValues(t *testing.T) {
	table := buildFib(t)
	tests := []struct {
		n    int64
		want int64
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 3},
		{5, 5},
	}
	for _, tt := range tests {
		call := &tree.Node{
			Tok: token.Token{Kind: token.Identifier, Name: "fib_rec"},
			Children: []*tree.Node{numNode(0), numNode(1), numNode(tt.n)},
		}
		got, err := Reduce(call, table, nil)
		if err != nil {
			t.Fatalf("Reduce(fib_rec(0,1,%d)): %v", tt.n, err)
		}
		if got.Cmp(rat(tt.want, 1)) != 0 {
			t.Errorf("fib_rec(0,1,%d) = %v, want %d", tt.n, got, tt.want)
		}
	}
}

// buildFactAux installs an iterative that computes n! via an
// accumulator, matching fact_aux@2 in the bootstrap library:
// condition = n != 0, updates = (acc*n, n-1), finalizer = acc.
func buildFactAux(t *testing.T) *symtab.Object {
	t.Helper()
	return &symtab.Object{
		Kind:      symtab.IterativeKind,
		Arity:     2,
		Condition: argNode(1),
		Finalizer: argNode(0),
		Updates: []*tree.Node{
			opNode(token.Times, argNode(0), argNode(1)),
			opNode(token.PositiveMinus, argNode(1), numNode(1)),
		},
	}
}

func TestReduceIterativeFactorial(t *testing.T) {
	table := symtab.Table{"fact_aux": buildFactAux(t)}
	call := &tree.Node{
		Tok:      token.Token{Kind: token.Identifier, Name: "fact_aux"},
		Children: []*tree.Node{numNode(1), numNode(5)},
	}
	got, err := Reduce(call, table, nil)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if got.Cmp(rat(120, 1)) != 0 {
		t.Errorf("fact_aux(1,5) = %v, want 120", got)
	}
}

func TestReduceOverwritingAssignmentChangesArity(t *testing.T) {
	table := symtab.Table{}
	table["f"] = &symtab.Object{Kind: symtab.FunctionKind, Arity: 1, Body: argNode(0)}
	if table.Arity("f") != 1 {
		t.Fatalf("arity before overwrite = %d, want 1", table.Arity("f"))
	}
	table["f"] = &symtab.Object{
		Kind:  symtab.FunctionKind,
		Arity: 2,
		Body:  opNode(token.Plus, argNode(0), argNode(1)),
	}
	if table.Arity("f") != 2 {
		t.Fatalf("arity after overwrite = %d, want 2", table.Arity("f"))
	}
	call := &tree.Node{
		Tok:      token.Token{Kind: token.Identifier, Name: "f"},
		Children: []*tree.Node{numNode(3), numNode(4)},
	}
	got, err := Reduce(call, table, nil)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if got.Cmp(rat(7, 1)) != 0 {
		t.Errorf("got %v, want 7", got)
	}
}

func TestReduceStaleArityAfterOverwriteIsUndefined(t *testing.T) {
	// A call tree built against the old arity (1 child) before an
	// overwrite to arity 2 must be rejected as a mismatch, not silently
	// evaluated against stale argument binding.
	table := symtab.Table{}
	table["f"] = &symtab.Object{Kind: symtab.FunctionKind, Arity: 1, Body: argNode(0)}
	staleCall := &tree.Node{
		Tok:      token.Token{Kind: token.Identifier, Name: "f"},
		Children: []*tree.Node{numNode(3)},
	}
	table["f"] = &symtab.Object{
		Kind:  symtab.FunctionKind,
		Arity: 2,
		Body:  opNode(token.Plus, argNode(0), argNode(1)),
	}
	if _, err := Reduce(staleCall, table, nil); err == nil {
		t.Fatal("expected an arity-mismatch error after overwrite")
	}
}
