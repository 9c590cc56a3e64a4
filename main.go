// Package main is the entry point for the tabula pcap-to-table converter.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/tabula/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
