//go:build !unix

package hosts

// checkWritable is a no-op where access(2) is unavailable; CreateTemp reports the failure instead.
func checkWritable(dir string) error {
	return nil
}
