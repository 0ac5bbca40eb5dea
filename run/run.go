// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package run provides the execution control for polyrat, factored out
// of main so it can be used for tests, per the teacher's run/ivy.go
// split.
package run

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"

	"polyrat/dispatch"
	"polyrat/lib"
	"polyrat/store"
)

// Session wraps a dispatch.Calculator with the I/O streams and optional
// workspace database of one interactive run.
type Session struct {
	Calc   *dispatch.Calculator
	DB     *sql.DB // nil: no workspace persistence configured
	Reader io.Reader
	Writer io.Writer
}

// New returns a Session ready for Loop.
func New(calc *dispatch.Calculator, r io.Reader, w io.Writer, db *sql.DB) *Session {
	return &Session{Calc: calc, DB: db, Reader: r, Writer: w}
}

// Loop submits lib.Bootstrap, then the persisted workspace if a
// database is configured, then reads lines from Reader until EOF,
// submitting each through Calculator.Submit and writing the result to
// Writer. On a clean EOF it persists the accumulated definitions log
// and returns nil.
func (s *Session) Loop() error {
	fmt.Fprint(s.Writer, s.Calc.Submit(lib.Bootstrap))

	if s.DB != nil {
		defs, err := store.Load(s.DB)
		if err != nil {
			return fmt.Errorf("run: loading workspace: %w", err)
		}
		for _, line := range defs {
			fmt.Fprint(s.Writer, s.Calc.Submit(line))
		}
	}
	// Bootstrap and any replayed workspace are not themselves new
	// definitions to persist; only what the user types from here on is.
	s.Calc.DefLog = nil

	scanner := bufio.NewScanner(s.Reader)
	prompt := s.Calc.Conf.Prompt()
	for {
		if prompt != "" {
			fmt.Fprint(s.Writer, prompt)
		}
		if !scanner.Scan() {
			break
		}
		fmt.Fprint(s.Writer, s.Calc.Submit(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("run: reading input: %w", err)
	}

	if s.DB != nil {
		if err := store.Save(s.DB, s.Calc.DefLog); err != nil {
			return fmt.Errorf("run: saving workspace: %w", err)
		}
	}
	return nil
}
