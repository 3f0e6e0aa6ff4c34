/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Command lognormctl loads a JSON rule file, builds and optimizes a pdag,
// and normalizes log lines from a file or stdin, printing one JSON record
// per line — a small CLI wrapping the pdag engine for ad hoc testing and
// rule development.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gravwell/lognorm/metrics"
	"github.com/gravwell/lognorm/pdag"
	"github.com/gravwell/lognorm/record"
	"github.com/gravwell/lognorm/rulebase"

	_ "github.com/gravwell/lognorm/kinds"
)

var (
	ruleFile = flag.String("rules", "", "Path to a JSON rule file")
	inFile   = flag.String("i", "", "Input file to normalize (default: stdin)")
	dump     = flag.Bool("dump", false, "Print the constructed pdag and exit")
	dot      = flag.Bool("dot", false, "Print the constructed pdag as Graphviz DOT and exit")
	stats    = flag.Bool("stats", false, "Print pdag shape statistics and exit")
	debug    = flag.Bool("debug", false, "Trace every edge attempt to stderr")
)

func main() {
	flag.Parse()
	if *ruleFile == "" {
		log.Fatal("lognormctl: -rules is required")
	}

	rf, err := os.Open(*ruleFile)
	if err != nil {
		log.Fatalf("lognormctl: open rule file: %v", err)
	}
	defer rf.Close()

	ctx := pdag.New()
	ctx.Metrics = metrics.NewRecorder(prometheus.DefaultRegisterer, "lognorm", "ctl")
	if *debug {
		ctx.Debug = true
		ctx.Trace = func(n *pdag.Node, edgeIdx, offset int, matched bool) {
			fmt.Fprintf(os.Stderr, "trace: offset=%d edge=%d matched=%v\n", offset, edgeIdx, matched)
		}
	}
	defer ctx.Close()

	if err := rulebase.Load(ctx, rf); err != nil {
		log.Fatalf("lognormctl: load rules: %v", err)
	}
	if err := ctx.Optimize(); err != nil {
		log.Fatalf("lognormctl: optimize: %v", err)
	}
	ctx.Metrics.SetNodeCount(ctx.NodeCount())

	switch {
	case *dump:
		fmt.Print(ctx.Dump())
		return
	case *dot:
		fmt.Print(ctx.DOT())
		return
	case *stats:
		s := ctx.Stats()
		fmt.Printf("nodes=%d edges=%d terminal=%d types=%d max-fanout=%d\n",
			s.Nodes, s.Edges, s.TerminalNode, s.NamedTypes, s.MaxFanout)
		return
	}

	in := os.Stdin
	if *inFile != "" {
		f, err := os.Open(*inFile)
		if err != nil {
			log.Fatalf("lognormctl: open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	if err := normalizeLines(ctx, in); err != nil {
		log.Fatalf("lognormctl: %v", err)
	}
}

func normalizeLines(ctx *pdag.Context, f *os.File) error {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		rec, err := ctx.Normalize(scanner.Text())
		if err != nil {
			return fmt.Errorf("normalize: %w", err)
		}
		b, err := recordJSON(rec)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		fmt.Println(string(b))
	}
	return scanner.Err()
}

func recordJSON(rec record.Record) ([]byte, error) {
	return rec.MarshalJSON()
}
