// Package main starts the WinToucher tray application.
package main

import "flag"

// main is the entrypoint for WinToucher.
func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	if err := run(*debug); err != nil {
		logFatal(err)
	}
}
