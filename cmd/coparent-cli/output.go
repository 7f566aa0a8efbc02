package main

import (
	"fmt"
	"io"
	"runtime"
)

func printSuccess(w io.Writer, format string, args ...interface{}) {
	prefix := "✓"
	if runtime.GOOS == "windows" {
		prefix = "[OK]"
	}
	fmt.Fprintf(w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

func printFailure(w io.Writer, format string, args ...interface{}) {
	prefix := "✗"
	if runtime.GOOS == "windows" {
		prefix = "[ERROR]"
	}
	fmt.Fprintf(w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
