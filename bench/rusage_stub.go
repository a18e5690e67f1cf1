//go:build !linux

package bench

const usageSupported = false

// sampleUsage reports zero counters where getrusage switch counts are not
// exposed through x/sys.
func sampleUsage() usage {
	return usage{}
}
