// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: report.go — Console result formatting
//
// Purpose:
//   - Renders harness results as human-readable lines or JSON lines.
//   - Keeps stdout the only destination of measurements.
//
// Notes:
//   - Text mode groups the per-switch figure by locale (x/text/message),
//     prints thread and millisecond counts bare
//   - JSON mode writes one object per line (sonnet), suitable for jq
// ─────────────────────────────────────────────────────────────────────────────

package report

import (
	"fmt"
	"io"

	"batonring/baton"
	"batonring/bench"
	"batonring/utils"

	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Writer renders a sweep: one header per (signal, block size), then one
// entry per recorded run.
type Writer interface {
	Header(kind baton.Kind, blockSize int) error
	Write(res bench.Result) error
}

// Format selects a Writer implementation.
type Format uint8

const (
	Text Format = iota
	JSON
)

// ParseFormat resolves "text" or "json".
func ParseFormat(name string) (Format, error) {
	switch name {
	case "text":
		return Text, nil
	case "json":
		return JSON, nil
	}
	return 0, fmt.Errorf("report: unknown format %q", name)
}

// New returns the writer for f on w.
func New(f Format, w io.Writer, withSwitches bool) Writer {
	if f == JSON {
		return NewJSONWriter(w)
	}
	return NewTextWriter(w, withSwitches)
}

// ───────────────────────────── Text Output ──────────────────────────────

// TextWriter prints the classic one-line-per-run report.
type TextWriter struct {
	w        io.Writer
	p        *message.Printer
	switches bool
}

// NewTextWriter formats numbers for English. withSwitches appends the
// context-switch counters to every line.
func NewTextWriter(w io.Writer, withSwitches bool) *TextWriter {
	return &TextWriter{
		w:        w,
		p:        message.NewPrinter(language.English),
		switches: withSwitches,
	}
}

func (t *TextWriter) Header(kind baton.Kind, blockSize int) error {
	_, err := io.WriteString(t.w, "Beginning "+kind.String()+" run with "+
		utils.Itoa(4*blockSize)+"-byte data blocks per thread\n")
	return err
}

func (t *TextWriter) Write(res bench.Result) error {
	line := t.p.Sprintf("%.3f", res.MicrosPerSwitch()) +
		" microseconds per switch (" + utils.Itoa(int(res.Millis())) +
		" ms. total) with " + utils.Itoa(res.Units) + " threads"
	if t.switches {
		line += " [" + utils.Utoa(uint64(res.VoluntarySwitches)) + " voluntary, " +
			utils.Utoa(uint64(res.InvoluntarySwitches)) + " involuntary switches]"
	}
	_, err := io.WriteString(t.w, line+"\n")
	return err
}

// ───────────────────────────── JSON Output ──────────────────────────────

type headerRecord struct {
	Event      string `json:"event"`
	Signal     string `json:"signal"`
	BlockSize  int    `json:"block_size"`
	BlockBytes int    `json:"block_bytes"`
}

type resultRecord struct {
	Event               string  `json:"event"`
	Signal              string  `json:"signal"`
	Threads             int     `json:"threads"`
	BlockSize           int     `json:"block_size"`
	Increments          int64   `json:"increments"`
	ElapsedNs           int64   `json:"elapsed_ns"`
	MicrosPerSwitch     float64 `json:"micros_per_switch"`
	TotalMs             int64   `json:"total_ms"`
	VoluntarySwitches   int64   `json:"voluntary_switches"`
	InvoluntarySwitches int64   `json:"involuntary_switches"`
}

// JSONWriter emits one JSON object per line.
type JSONWriter struct {
	w io.Writer
}

func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

func (j *JSONWriter) Header(kind baton.Kind, blockSize int) error {
	return j.emit(headerRecord{
		Event:      "begin",
		Signal:     kind.String(),
		BlockSize:  blockSize,
		BlockBytes: 4 * blockSize,
	})
}

func (j *JSONWriter) Write(res bench.Result) error {
	return j.emit(resultRecord{
		Event:               "result",
		Signal:              res.Signal.String(),
		Threads:             res.Units,
		BlockSize:           res.BlockSize,
		Increments:          res.Increments,
		ElapsedNs:           res.Elapsed.Nanoseconds(),
		MicrosPerSwitch:     res.MicrosPerSwitch(),
		TotalMs:             res.Millis(),
		VoluntarySwitches:   res.VoluntarySwitches,
		InvoluntarySwitches: res.InvoluntarySwitches,
	})
}

func (j *JSONWriter) emit(v any) error {
	b, err := sonnet.Marshal(v)
	if err != nil {
		return err
	}
	_, err = j.w.Write(append(b, '\n'))
	return err
}
