// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lib bundles the standard-library source snippet the frontend
// submits once at startup, as if it had been typed, per spec.md §6.
// Grounded on the teacher's lib.Directory/Lookup pattern, trimmed to
// this domain's single bootstrap script since the calculator has no
// notion of separately loadable libraries.
package lib

// Bootstrap is submitted through dispatch.Calculator.Submit before the
// frontend's first prompt. It defines a small set of named functions
// and iteratives any session can call immediately: tail-recursive and
// naive Fibonacci, factorial, and greatest common divisor.
const Bootstrap = `
; naive recursive fibonacci
$0 1 ~ nfib $0 2 ~ nfib + $0 $0 1 ~ ? nfib|1

; tail-recursive fibonacci, via an explicit accumulator pair
$1 $0 $1 + $2 1 ~ fib_rec $1 $2 ? fib_rec|3
1 0 $0 fib_rec tfib|1

; the same tail recursion expressed as an iterative update loop
$1 $0 $1 + $2 1 ~ $1 $2 fib_aux@3
1 0 $0 fib_aux fib|1

; iterative factorial
$0 $1 * $1 1 ~ $0 $1 fact_aux@2
1 $0 fact_aux fact|1

; iterative greatest common divisor (Euclid)
$1 $0 $0 $1 \ $1 * ~ $0 $1 gcd_aux@2
$0 $1 gcd_aux gcd|2
`
