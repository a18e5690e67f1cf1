// ════════════════════════════════════════════════════════════════════════════════════════════════
// Thread-Switch Latency Benchmark - Main Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Baton Ring
// Component: Main Entry Point & Benchmark Orchestration
//
// Description:
//   Measures the cost of handing execution between OS threads arranged in a ring, once per
//   baton signal kind. Each positional argument is a per-thread data block size; for each,
//   thread counts 1, 2, 4, ... are swept and one line per configuration is printed.
//
// Architecture:
//   - Phase 0: Flag parsing and validation
//   - Phase 1: Unrecorded warm-up passes per signal kind
//   - Phase 2: Recorded sweeps, block size by block size
//
// Exit status:
//   0 on success, 1 when any run fails (corruption, timeout, interrupt), 2 on usage errors.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"batonring/baton"
	"batonring/bench"
	"batonring/constants"
	"batonring/control"
	"batonring/debug"
	"batonring/report"
	"batonring/ring"
	"batonring/utils"
)

const (
	exitOK    = 0
	exitRun   = 1
	exitUsage = 2
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// COMMAND-LINE OPTIONS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// options is the parsed command line.
type options struct {
	kinds      []baton.Kind
	blockSizes []int
	bench      bench.Config
	format     report.Format
	warmup     bool
	switches   bool
}

// parseOptions reads flags and positional block sizes. Flag errors and -h
// text go to usage.
func parseOptions(args []string, usage io.Writer) (options, error) {
	def := bench.DefaultConfig()
	fs := flag.NewFlagSet("batonring", flag.ContinueOnError)
	fs.SetOutput(usage)
	fs.Usage = func() {
		fmt.Fprintln(usage, "usage: batonring [flags] [block-size ...]")
		fs.PrintDefaults()
	}

	signalName := fs.String("signal", "all", "baton signal: condition, completion, channel or all")
	target := fs.Int("target", def.Target, "total handoffs per run")
	doublings := fs.Int("doublings", def.Doublings, "thread counts per sweep (1, 2, 4, ...)")
	timeout := fs.Duration("timeout", def.Timeout, "per-run deadline, 0 disables")
	remainder := fs.String("remainder", def.Remainder.String(), "indivisible target policy: spread or reject")
	pin := fs.Bool("pin", false, "pin thread i to CPU i mod NumCPU (linux)")
	format := fs.String("format", "text", "output format: text or json")
	warmup := fs.Bool("warmup", true, "run unrecorded warm-up passes first")
	switches := fs.Bool("switches", false, "append OS context-switch counts to text lines")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{bench: def, warmup: *warmup, switches: *switches}
	opts.bench.Target = *target
	opts.bench.Doublings = *doublings
	opts.bench.Timeout = *timeout
	opts.bench.Pin = *pin

	var err error
	if opts.bench.Remainder, err = ring.ParseRemainderPolicy(*remainder); err != nil {
		return options{}, err
	}
	if opts.format, err = report.ParseFormat(*format); err != nil {
		return options{}, err
	}
	if *signalName == "all" {
		opts.kinds = baton.Kinds()
	} else {
		k, err := baton.ParseKind(*signalName)
		if err != nil {
			return options{}, err
		}
		opts.kinds = []baton.Kind{k}
	}
	if err := opts.bench.Validate(); err != nil {
		return options{}, err
	}

	for _, a := range fs.Args() {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 || n > constants.MaxBlockSize {
			return options{}, fmt.Errorf("invalid block size %q", a)
		}
		opts.blockSizes = append(opts.blockSizes, n)
	}
	if len(opts.blockSizes) == 0 {
		opts.blockSizes = []int{constants.DefaultBlockSize}
	}
	return opts, nil
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// MAIN ORCHESTRATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func main() {
	setupSignalHandling()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the whole benchmark and returns the process exit status.
// Results go to stdout and flag usage text to usage; diagnostics always go
// to the process stderr through the debug package.
func run(args []string, stdout, usage io.Writer) int {
	control.ShutdownWG.Add(1)
	defer control.ShutdownWG.Done()

	// PHASE 0: options
	opts, err := parseOptions(args, usage)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		debug.DropError("USAGE", err)
		return exitUsage
	}

	ctx, cancel := control.Context(context.Background())
	defer cancel()

	out := report.New(opts.format, stdout, opts.switches && bench.UsageSupported())
	harnesses := make([]*bench.Harness, 0, len(opts.kinds))
	for _, k := range opts.kinds {
		cfg := opts.bench
		cfg.Signal = k
		h, err := bench.New(cfg, out.Write)
		if err != nil {
			debug.DropError("USAGE", err)
			return exitUsage
		}
		harnesses = append(harnesses, h)
	}

	debug.DropMessage("INIT", utils.Itoa(len(harnesses))+" signal kinds, "+
		utils.Itoa(len(opts.blockSizes))+" block sizes, target "+utils.Itoa(opts.bench.Target))

	// PHASE 1: warm-up
	if opts.warmup {
		for _, h := range harnesses {
			if err := h.WarmUp(ctx); err != nil {
				debug.DropError("RUN_ERROR", err)
				return exitRun
			}
		}
	}

	// PHASE 2: recorded sweeps
	for i, size := range opts.blockSizes {
		for _, h := range harnesses {
			if err := out.Header(h.Config().Signal, size); err != nil {
				debug.DropError("OUTPUT", err)
				return exitRun
			}
			if err := h.Sweep(ctx, size); err != nil {
				debug.DropError("RUN_ERROR", err)
				return exitRun
			}
		}
		if i < len(opts.blockSizes)-1 && !settle(ctx) {
			debug.DropError("RUN_ERROR", ring.ErrRunCanceled)
			return exitRun
		}
	}

	debug.DropMessage("DONE", "all sweeps complete")
	return exitOK
}

// settle pauses between block sizes. It reports false if interrupted.
func settle(ctx context.Context) bool {
	t := time.NewTimer(constants.SettleDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SYSTEM LIFECYCLE MANAGEMENT
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// setupSignalHandling turns SIGINT/SIGTERM into control.Shutdown, which
// aborts the active run. A second signal exits immediately.
func setupSignalHandling() {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		debug.DropMessage("SIGNAL", "Received interrupt, aborting runs...")
		control.Shutdown()

		go func() {
			<-sigChan
			debug.DropMessage("SIGNAL", "Forced exit")
			os.Exit(exitRun)
		}()

		control.ShutdownWG.Wait()
		debug.DropMessage("SIGNAL", "All runs unwound")
	}()
}
