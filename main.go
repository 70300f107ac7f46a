package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/satlab/minunsat/cmd/minunsat"
)

func main() {
	debug.SetGCPercent(300)
	if err := minunsat.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
