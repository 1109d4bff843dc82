//go:build !windows

package hive

import "golang.org/x/sys/unix"

// osPageSize returns the OS memory page size, used to round large hives'
// page growth to page-aligned slot counts.
func osPageSize() int {
	return unix.Getpagesize()
}
