package main

import (
	"bytes"
	"strings"
	"testing"

	"batonring/baton"
	"batonring/report"
	"batonring/ring"
)

// ============================================================================
// OPTION PARSING
// ============================================================================

func TestParseOptions_Defaults(t *testing.T) {
	opts, err := parseOptions(nil, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if len(opts.kinds) != len(baton.Kinds()) {
		t.Fatalf("kinds = %v", opts.kinds)
	}
	if len(opts.blockSizes) != 1 || opts.blockSizes[0] != 1024 {
		t.Fatalf("block sizes = %v", opts.blockSizes)
	}
	if !opts.warmup || opts.format != report.Text || opts.bench.Remainder != ring.RemainderSpread {
		t.Fatalf("defaults = %+v", opts)
	}
}

func TestParseOptions_Flags(t *testing.T) {
	opts, err := parseOptions([]string{
		"-signal", "completion", "-target", "4095", "-remainder", "reject",
		"-format", "json", "-warmup=false", "-doublings", "3", "16", "256",
	}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if len(opts.kinds) != 1 || opts.kinds[0] != baton.Completion {
		t.Fatalf("kinds = %v", opts.kinds)
	}
	if opts.bench.Target != 4095 || opts.bench.Doublings != 3 || opts.bench.Remainder != ring.RemainderReject {
		t.Fatalf("bench = %+v", opts.bench)
	}
	if opts.format != report.JSON || opts.warmup {
		t.Fatalf("opts = %+v", opts)
	}
	if len(opts.blockSizes) != 2 || opts.blockSizes[1] != 256 {
		t.Fatalf("block sizes = %v", opts.blockSizes)
	}
}

func TestParseOptions_Rejects(t *testing.T) {
	for _, args := range [][]string{
		{"-signal", "spin"},
		{"-format", "xml"},
		{"-remainder", "round"},
		{"-target", "0"},
		{"-doublings", "0"},
		{"-target", "4095", "-remainder", "reject"},
		{"abc"},
		{"0"},
	} {
		if _, err := parseOptions(args, &bytes.Buffer{}); err == nil {
			t.Errorf("%v accepted", args)
		}
	}
}

// ============================================================================
// END-TO-END
// ============================================================================

func TestRun_SmallSweep(t *testing.T) {
	var stdout, usage bytes.Buffer
	code := run([]string{"-signal", "channel", "-target", "256", "-doublings", "3", "-warmup=false", "8"}, &stdout, &usage)
	if code != exitOK {
		t.Fatalf("exit %d, want %d", code, exitOK)
	}
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("stdout:\n%s", stdout.String())
	}
	if lines[0] != "Beginning channel run with 32-byte data blocks per thread" {
		t.Fatalf("header %q", lines[0])
	}
	for i, n := range []string{"1", "2", "4"} {
		if !strings.HasSuffix(lines[i+1], "with "+n+" threads") {
			t.Fatalf("line %d = %q", i+1, lines[i+1])
		}
	}
}

func TestRun_IndivisibleTargetIsUsageError(t *testing.T) {
	var stdout, usage bytes.Buffer
	code := run([]string{"-signal", "condition", "-target", "6", "-remainder", "reject", "-doublings", "3", "-warmup=false", "4"}, &stdout, &usage)
	if code != exitUsage {
		t.Fatalf("exit %d, want %d", code, exitUsage)
	}
	if stdout.Len() != 0 {
		t.Fatalf("results printed before rejection:\n%s", stdout.String())
	}
}

func TestRun_HelpWritesUsage(t *testing.T) {
	var stdout, usage bytes.Buffer
	if code := run([]string{"-h"}, &stdout, &usage); code != exitOK {
		t.Fatalf("exit %d, want %d", code, exitOK)
	}
	if !strings.Contains(usage.String(), "usage: batonring") {
		t.Fatalf("usage text = %q", usage.String())
	}
}

func TestRun_UsageError(t *testing.T) {
	var stdout, usage bytes.Buffer
	if code := run([]string{"-signal", "spin"}, &stdout, &usage); code != exitUsage {
		t.Fatalf("exit %d, want %d", code, exitUsage)
	}
}
