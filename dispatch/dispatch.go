// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dispatch reacts to tokens as they are produced by the
// scanner, mediating all mutation of the working stack and symbol
// table, per spec.md §4.6. Calculator.Submit is the single operation an
// I/O frontend invokes on the core.
package dispatch

import (
	"fmt"
	"math/big"
	"strings"

	"polyrat/arity"
	"polyrat/config"
	"polyrat/eval"
	"polyrat/scan"
	"polyrat/symtab"
	"polyrat/token"
	"polyrat/tree"
)

// Calculator owns the working stack and symbol table of one session.
// Per spec.md §4.2, nothing outside this package holds a long-lived
// reference to either.
type Calculator struct {
	Stack symtab.Stack
	Table symtab.Table
	Conf  *config.Config

	// DefLog records, in order, every source line that completed an
	// AssignVariable/AssignFunction/AssignIterative action. package
	// store replays it to persist and restore a workspace.
	DefLog []string

	sawDef bool
}

// New returns a Calculator with an empty stack and symbol table.
func New(conf *config.Config) *Calculator {
	if conf == nil {
		conf = config.New()
	}
	return &Calculator{Table: symtab.Table{}, Conf: conf}
}

// Submit lexes line, routes each token to the stack or to the matching
// dispatcher action, and returns everything printed while processing
// it — including the trailing "N elements in stack" line that closes
// every call, per spec.md §6.
func (c *Calculator) Submit(line string) string {
	var out strings.Builder
	c.sawDef = false
	for tok := range scan.New(line).Tokens {
		c.route(&out, tok)
	}
	if c.sawDef {
		c.DefLog = append(c.DefLog, line)
	}
	fmt.Fprintf(&out, "%d elements in stack\n", len(c.Stack))
	return out.String()
}

func (c *Calculator) route(out *strings.Builder, tok token.Token) {
	switch tok.Kind {
	case token.Error:
		fmt.Fprintf(out, "Dropped unrecognized token!\n")
	case token.Return:
		c.doReturn(out)
	case token.Partial:
		c.doPartial(out)
	case token.Approx:
		c.doApprox(out)
	case token.Format:
		c.doFormat(out)
	case token.Duplicate:
		c.doDuplicate(out)
	case token.Flush:
		c.doFlush(out)
	case token.Print:
		c.doPrint(out)
	case token.Empty:
		c.Stack = nil
	case token.Drop:
		c.doDrop()
	case token.AssignVariable:
		c.doAssignVariable(out, tok)
	case token.AssignFunction:
		c.doAssignFunction(out, tok)
	case token.AssignIterative:
		c.doAssignIterative(out, tok)
	default:
		c.Stack = append(c.Stack, tok)
	}
}

// extractReduce extracts one complete expression from the top of the
// stack, builds its tree, and reduces it. On success it truncates the
// stack past the consumed slice and returns the result. On structural
// failure (no complete expression available) the stack is left
// untouched. On semantic failure during reduction, the slice is still
// consumed — the extraction itself succeeded — matching spec.md §7's
// "Semantic" error class, which aborts only the enclosing action.
func (c *Calculator) extractReduce() (*big.Rat, error) {
	from, ok := arity.Extract(c.Stack, c.Table, len(c.Stack), "", 0)
	if !ok {
		return nil, errIncomplete
	}
	slice := c.Stack[from:]
	t, err := tree.Build(slice, c.Table)
	c.Stack = c.Stack[:from]
	if err != nil {
		return nil, err
	}
	return eval.Reduce(t, c.Table, nil)
}

var errIncomplete = fmt.Errorf("Incomplete expression")

func (c *Calculator) doReturn(out *strings.Builder) {
	v, err := c.extractReduce()
	if err != nil {
		fmt.Fprintf(out, "%s\n", err)
		return
	}
	fmt.Fprintf(out, "> %s\n", formatRat(v))
}

func (c *Calculator) doPartial(out *strings.Builder) {
	v, err := c.extractReduce()
	if err != nil {
		fmt.Fprintf(out, "%s\n", err)
		return
	}
	fmt.Fprintf(out, "< %s\n", formatRat(v))
	c.Stack = append(c.Stack, token.Token{Kind: token.Number, Value: v})
}

func (c *Calculator) doApprox(out *strings.Builder) {
	v, err := c.extractReduce()
	if err != nil {
		fmt.Fprintf(out, "%s\n", err)
		return
	}
	fmt.Fprintf(out, "> %s\n", formatApprox(v, c.Conf.ApproxDigits()))
}

func (c *Calculator) doFormat(out *strings.Builder) {
	v, err := c.extractReduce()
	if err != nil {
		fmt.Fprintf(out, "%s\n", err)
		return
	}
	out.WriteString(formatBytes(v))
	out.WriteByte('\n')
}

func (c *Calculator) doDuplicate(out *strings.Builder) {
	v, err := c.extractReduce()
	if err != nil {
		fmt.Fprintf(out, "%s\n", err)
		return
	}
	num := token.Token{Kind: token.Number, Value: v}
	c.Stack = append(c.Stack, num, num)
}

func (c *Calculator) doFlush(out *strings.Builder) {
	for len(c.Stack) > 0 {
		v, err := c.extractReduce()
		if err != nil {
			fmt.Fprintf(out, "%s\n", err)
			if err == errIncomplete {
				return
			}
			continue
		}
		fmt.Fprintf(out, "> %s\n", formatRat(v))
	}
}

func (c *Calculator) doPrint(out *strings.Builder) {
	for i, tok := range c.Stack {
		if i > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(tok.String())
	}
	out.WriteByte('\n')
}

func (c *Calculator) doDrop() {
	remaining, ok := arity.Drop(c.Stack, c.Table)
	if ok {
		c.Stack = remaining
	}
}

func (c *Calculator) doAssignVariable(out *strings.Builder, tok token.Token) {
	v, err := c.extractReduce()
	if err != nil {
		fmt.Fprintf(out, "%s\n", err)
		return
	}
	c.Table[tok.Name] = &symtab.Object{Kind: symtab.VariableKind, Value: v}
	c.sawDef = true
}

var errIncompleteFunction = fmt.Errorf("Incomplete function declaration")

func (c *Calculator) doAssignFunction(out *strings.Builder, tok token.Token) {
	from, ok := arity.Extract(c.Stack, c.Table, len(c.Stack), tok.Name, tok.N)
	if !ok {
		fmt.Fprintf(out, "%s\n", errIncompleteFunction)
		return
	}
	slice := append([]token.Token(nil), c.Stack[from:]...)
	c.Stack = c.Stack[:from]

	c.Table.SentinelFunction(tok.Name, tok.N)
	body, err := tree.Build(slice, c.Table)
	if err != nil {
		// Documented quirk (spec.md §9): leave the sentinel installed.
		fmt.Fprintf(out, "%s\n", errIncompleteFunction)
		return
	}
	c.Table[tok.Name] = &symtab.Object{Kind: symtab.FunctionKind, Arity: tok.N, Body: body}
	c.sawDef = true
}

func (c *Calculator) doAssignIterative(out *strings.Builder, tok token.Token) {
	count := tok.N + 2
	starts := make([]int, count)
	ends := make([]int, count)
	cur := len(c.Stack)
	for i := 0; i < count; i++ {
		from, ok := arity.Extract(c.Stack, c.Table, cur, tok.Name, tok.N)
		if !ok {
			// Spec.md §4.6: leave any prior definition intact.
			fmt.Fprintf(out, "%s\n", errIncompleteFunction)
			return
		}
		starts[i] = from
		ends[i] = cur
		cur = from
	}
	slices := make([][]token.Token, count)
	for i := range slices {
		slices[i] = append([]token.Token(nil), c.Stack[starts[i]:ends[i]]...)
	}
	c.Stack = c.Stack[:cur]

	prior := c.Table[tok.Name]
	c.Table.SentinelFunction(tok.Name, tok.N)

	build := func(slice []token.Token) (*tree.Node, bool) {
		n, err := tree.Build(slice, c.Table)
		return n, err == nil
	}

	condition, ok := build(slices[0])
	finalizer, ok2 := build(slices[1])
	updates := make([]*tree.Node, tok.N)
	allOK := ok && ok2
	for j := 0; j < tok.N; j++ {
		n, ok3 := build(slices[tok.N+1-j])
		updates[j] = n
		allOK = allOK && ok3
	}
	if !allOK {
		// Design notes (spec.md §9): restore the prior binding for the
		// iterative case, unlike the function case.
		if prior == nil {
			delete(c.Table, tok.Name)
		} else {
			c.Table[tok.Name] = prior
		}
		fmt.Fprintf(out, "%s\n", errIncompleteFunction)
		return
	}
	c.Table[tok.Name] = &symtab.Object{
		Kind:      symtab.IterativeKind,
		Arity:     tok.N,
		Updates:   updates,
		Finalizer: finalizer,
		Condition: condition,
	}
	c.sawDef = true
}
