//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package cmd

func terminalWidth(fd uintptr) int {
	return 80
}
