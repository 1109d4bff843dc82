//go:build windows

package hive

import "golang.org/x/sys/windows"

// osPageSize returns the OS memory page size, used to round large hives'
// page growth to page-aligned slot counts.
func osPageSize() int {
	var info windows.SystemInfo
	windows.GetSystemInfo(&info)
	if info.PageSize == 0 {
		return 4096
	}
	return int(info.PageSize)
}
