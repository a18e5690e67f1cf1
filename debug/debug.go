// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — Cold-path diagnostic logging (zero-format)
//
// Purpose:
//   - Logs setup, warm-up and run-failure events to stderr.
//   - Keeps benchmark output on stdout clean for piping.
//
// Notes:
//   - Avoids fmt.Sprintf; messages are built by plain concatenation.
//   - Never called from inside a ring unit's switch loop.
//
// ⚠️ Use only outside measured regions: logging perturbs timings.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "batonring/utils"

// DropError logs an error with a prefix tag.
// A nil error prints just the prefix, which is used as a bare trace marker.
//
//go:nosplit
//go:inline
//go:registerparams
func DropError(prefix string, err error) {
	if err != nil {
		utils.PrintWarning(prefix + ": " + err.Error() + "\n")
		return
	}
	utils.PrintWarning(prefix + "\n")
}

// DropMessage logs a tagged diagnostic line.
// Used for phase transitions: warm-up, sweep start, shutdown.
//
//go:nosplit
//go:inline
//go:registerparams
func DropMessage(prefix, message string) {
	utils.PrintWarning(prefix + ": " + message + "\n")
}
