// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tree builds reduction trees from a validated postfix token
// slice, following the scratch-stack construction of spec.md §4.4.
package tree

import (
	"fmt"

	"polyrat/token"
)

// Node is one node of a reduction tree: a token together with as many
// child subtrees as the token's arity requires.
type Node struct {
	Tok      token.Token
	Children []*Node
}

func (n *Node) String() string {
	if len(n.Children) == 0 {
		return n.Tok.String()
	}
	s := "("
	for i, c := range n.Children {
		if i > 0 {
			s += " "
		}
		s += c.String()
	}
	return s + " " + n.Tok.String() + ")"
}

// Build consumes slice as a postfix stream, left to right, maintaining a
// scratch stack of partially built trees: for each token of arity a, it
// pops the last a trees, wraps them under the new token, and pushes the
// result. At end of slice exactly one tree remains; that is the root.
//
// table resolves Identifier arity exactly as arity.Extract does; Build
// never needs the self-reference override because its caller always
// validates slice with arity.Extract first.
func Build(slice []token.Token, table token.Lookup) (*Node, error) {
	var scratch []*Node
	for _, tok := range slice {
		n, ok := token.Arity(tok, table)
		if !ok {
			return nil, fmt.Errorf("internal: action token %v in tree slice", tok)
		}
		if n > len(scratch) {
			return nil, fmt.Errorf("internal: arity underflow building tree for %v", tok)
		}
		children := append([]*Node(nil), scratch[len(scratch)-n:]...)
		scratch = scratch[:len(scratch)-n]
		scratch = append(scratch, &Node{Tok: tok, Children: children})
	}
	if len(scratch) != 1 {
		return nil, fmt.Errorf("internal: slice did not reduce to one tree, got %d", len(scratch))
	}
	return scratch[0], nil
}
