// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dispatch

import (
	"fmt"
	"math/big"
)

// formatRat renders r as "n" if it is an integer, else "n/d", per
// spec.md §6. big.Rat already normalizes its denominator to a positive
// value and keeps the sign on the numerator, so RatString does exactly
// this.
func formatRat(r *big.Rat) string {
	return r.RatString()
}

// formatApprox renders a floating-point approximation of r with the
// given significant digits, scientific notation acceptable, per
// spec.md §6.
func formatApprox(r *big.Rat, digits int) string {
	f := new(big.Float).SetPrec(200).SetRat(r)
	return f.Text('g', digits)
}

// formatBytes is the inverse of the string-literal byte-decoding rule
// of spec.md §6: the numerator's absolute value split into base-256
// digits, most significant first — exactly big.Int.Bytes(). When the
// rational is not an integer, the denominator is rendered the same way
// and appended after a "/", mirroring formatRat's n/d convention.
func formatBytes(r *big.Rat) string {
	num := string(new(big.Int).Abs(r.Num()).Bytes())
	if r.IsInt() {
		return num
	}
	den := string(new(big.Int).Abs(r.Denom()).Bytes())
	return fmt.Sprintf("%s/%s", num, den)
}
