// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eval reduces a reduction tree to a rational, or reports
// failure, per spec.md §4.5. The evaluator is an explicit loop over a
// mutable (node, args) pair so that If-arm selection and user-function
// tail calls never grow the Go call stack — the trampoline technique
// the teacher uses in its top-level run loop, generalized here to cover
// every tail position spec.md names.
package eval

import (
	"fmt"
	"math/big"

	"polyrat/symtab"
	"polyrat/token"
	"polyrat/tree"
)

// Error is a semantic evaluation failure; its string is the exact
// user-visible diagnostic from spec.md §6.
type Error string

func (e Error) Error() string { return string(e) }

func errorf(format string, args ...interface{}) error {
	return Error(fmt.Sprintf(format, args...))
}

// Tracer, when non-nil, is called once per trampoline bounce (If-arm
// selection or function/iterative call entry). It is nil by default so
// tracing costs nothing when off; no package in this module sets it,
// and the "trace" debug flag does not enable it.
var Tracer func(op string, name string)

func trace(op, name string) {
	if Tracer != nil {
		Tracer(op, name)
	}
}

var zero = big.NewRat(0, 1)
var one = big.NewRat(1, 1)

// Reduce reduces n to a rational under table, with args bound as the
// argument vector of the enclosing function (nil/empty at top level).
func Reduce(n *tree.Node, table symtab.Table, args []*big.Rat) (*big.Rat, error) {
	for {
		switch n.Tok.Kind {
		case token.Number:
			return n.Tok.Value, nil

		case token.Argument:
			if len(args) == 0 {
				return nil, errorf("Arguments are only allowed in functions")
			}
			if n.Tok.N >= len(args) {
				return nil, errorf("Invalid argument")
			}
			return args[n.Tok.N], nil

		case token.Identifier:
			obj, ok := table[n.Tok.Name]
			if !ok {
				return nil, errorf("Undefined name: %s", n.Tok.Name)
			}
			switch obj.Kind {
			case symtab.VariableKind:
				return obj.Value, nil

			case symtab.FunctionKind:
				if len(n.Children) != obj.Arity {
					return nil, errorf("Undefined name: %s", n.Tok.Name)
				}
				newArgs, err := reduceAll(n.Children, table, args)
				if err != nil {
					return nil, err
				}
				trace("call", n.Tok.Name)
				n, args = obj.Body, newArgs
				continue

			case symtab.IterativeKind:
				if len(n.Children) != obj.Arity {
					return nil, errorf("Undefined name: %s", n.Tok.Name)
				}
				a, err := reduceAll(n.Children, table, args)
				if err != nil {
					return nil, err
				}
				final, a, err := reduceIterative(obj, table, a)
				if err != nil {
					return nil, err
				}
				trace("iterate", n.Tok.Name)
				n, args = final, a
				continue
			}

		case token.If:
			cond, err := Reduce(n.Children[2], table, args)
			if err != nil {
				return nil, err
			}
			trace("if", "")
			if cond.Sign() != 0 {
				n = n.Children[0]
			} else {
				n = n.Children[1]
			}
			continue

		default:
			return reduceOperator(n, table, args)
		}
	}
}

func reduceAll(nodes []*tree.Node, table symtab.Table, args []*big.Rat) ([]*big.Rat, error) {
	out := make([]*big.Rat, len(nodes))
	for i, c := range nodes {
		v, err := Reduce(c, table, args)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// reduceIterative runs the Iterative's update loop to completion and
// returns the finalizer node, still unreduced, together with the final
// argument vector, so the caller's trampoline performs the final
// reduction as its next tail step instead of this function recursing
// into it.
func reduceIterative(obj *symtab.Object, table symtab.Table, a []*big.Rat) (*tree.Node, []*big.Rat, error) {
	for {
		cond, err := Reduce(obj.Condition, table, a)
		if err != nil {
			return nil, nil, err
		}
		if cond.Sign() == 0 {
			return obj.Finalizer, a, nil
		}
		next := make([]*big.Rat, obj.Arity)
		for i, u := range obj.Updates {
			v, err := Reduce(u, table, a)
			if err != nil {
				return nil, nil, err
			}
			next[i] = v
		}
		a = next
	}
}

func reduceOperator(n *tree.Node, table symtab.Table, args []*big.Rat) (*big.Rat, error) {
	if n.Tok.Kind == token.ExpMod {
		vals, err := reduceAll(n.Children, table, args)
		if err != nil {
			return nil, err
		}
		return expMod(vals[0], vals[1], vals[2])
	}

	left, err := Reduce(n.Children[0], table, args)
	if err != nil {
		return nil, err
	}
	right, err := Reduce(n.Children[1], table, args)
	if err != nil {
		return nil, err
	}
	switch n.Tok.Kind {
	case token.Plus:
		return new(big.Rat).Add(left, right), nil
	case token.Minus:
		return new(big.Rat).Sub(left, right), nil
	case token.Times:
		return new(big.Rat).Mul(left, right), nil
	case token.Divide:
		if right.Sign() == 0 {
			return nil, errorf("Cannot divide by zero")
		}
		return new(big.Rat).Quo(left, right), nil
	case token.IntegerDiv:
		if right.Sign() == 0 {
			return nil, errorf("Cannot divide by zero")
		}
		q := new(big.Rat).Quo(left, right)
		return new(big.Rat).SetInt(floor(q)), nil
	case token.PositiveMinus:
		diff := new(big.Rat).Sub(left, right)
		if diff.Sign() < 0 {
			return new(big.Rat).Set(zero), nil
		}
		return diff, nil
	case token.Exp:
		k := new(big.Int).Abs(floor(right))
		return ratPow(left, k), nil
	}
	return nil, errorf("internal: unhandled operator %v", n.Tok.Kind)
}

// floor returns the greatest integer <= r. big.Rat always normalizes
// its denominator to a positive value, so plain integer Div (Euclidean
// division, which coincides with floor division when the divisor is
// positive) gives the correct floor directly.
func floor(r *big.Rat) *big.Int {
	return new(big.Int).Div(r.Num(), r.Denom())
}

// ratPow computes base**k by the standard square-and-multiply
// algorithm, stopping as soon as the last needed squaring is done.
// base**0 is 1, including 0**0, since the multiplication loop below
// simply never executes when k is zero.
func ratPow(base *big.Rat, k *big.Int) *big.Rat {
	result := new(big.Rat).Set(one)
	b := new(big.Rat).Set(base)
	e := new(big.Int).Set(k)
	for e.Sign() > 0 {
		if e.Bit(0) == 1 {
			result.Mul(result, b)
		}
		e.Rsh(e, 1)
		if e.Sign() > 0 {
			b.Mul(b, b)
		}
	}
	return result
}

// expMod returns a**b mod c on the floors of the three arguments, with
// b and c taken as absolute values, per spec.md §4.5.
func expMod(a, b, c *big.Rat) (*big.Rat, error) {
	base := floor(a)
	exp := new(big.Int).Abs(floor(b))
	mod := new(big.Int).Abs(floor(c))
	return new(big.Rat).SetInt(new(big.Int).Exp(base, exp, mod)), nil
}
