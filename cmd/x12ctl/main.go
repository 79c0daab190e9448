// Package main provides x12ctl, a command-line tool for inspecting, mapping
// and building X12 interchanges.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
