// Copyright 2014 Rob Pike. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"polyrat/config"
	"polyrat/dispatch"
	"polyrat/run"
	"polyrat/store"
)

var (
	execute = flag.Bool("e", false, "execute arguments as a single line and exit")
	prompt  = flag.String("prompt", "", "command prompt")
	approx  = flag.Int("approx", 0, "significant digits for the [] approximation operator (0: use default)")
	debug   = flag.String("debug", "", "comma-separated debug flags (trace, tokens)")
	dbPath  = flag.String("db", "", "path to a workspace database; empty disables persistence")
)

func main() {
	// A missing .env is not an error; it only seeds flag defaults that
	// a deployment can choose to pin, per godotenv's own usage pattern.
	_ = godotenv.Load()
	if v := os.Getenv("POLYRAT_PROMPT"); v != "" && *prompt == "" {
		*prompt = v
	}
	if v := os.Getenv("POLYRAT_DB"); v != "" && *dbPath == "" {
		*dbPath = v
	}
	if v := os.Getenv("POLYRAT_APPROX_DIGITS"); v != "" && *approx == 0 {
		if n, err := strconv.Atoi(v); err == nil {
			*approx = n
		}
	}

	flag.Usage = usage
	flag.Parse()

	conf := config.New()
	conf.SetPrompt(*prompt)
	if *approx > 0 {
		conf.SetApproxDigits(*approx)
	}
	for _, word := range strings.Split(*debug, ",") {
		word = strings.TrimSpace(word)
		if word != "" {
			conf.SetDebug(word, true)
		}
	}

	var db *sql.DB
	if *dbPath != "" {
		var err error
		db, err = store.Open(*dbPath)
		if err != nil {
			log.Fatalf("polyrat: %v", err)
		}
		defer db.Close()
	}

	calc := dispatch.New(conf)

	if *execute {
		// Mirrors the teacher's runArgs: -e runs a single expression
		// without loading the bootstrap library or a workspace.
		line := strings.Join(flag.Args(), " ")
		fmt.Print(calc.Submit(line))
		return
	}

	s := run.New(calc, os.Stdin, os.Stdout, db)
	if err := s.Loop(); err != nil {
		log.Fatalf("polyrat: %v", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: polyrat [flags] [-e expression]\n")
	flag.PrintDefaults()
	os.Exit(2)
}
