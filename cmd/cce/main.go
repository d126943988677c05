// Package main is the entry point for cce, which reconciles ccusage spend
// with rtk token savings.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/j-veylop/cc-economics/internal/cli"
)

func main() {
	if err := cli.RootCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
