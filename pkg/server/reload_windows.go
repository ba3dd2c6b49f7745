//go:build windows

package server

import "os"

// SIGHUP-driven reload is unavailable on windows.
func notifyReload(ch chan<- os.Signal) {}
