package main

import (
	"fmt"
	"os"

	"github.com/khardix/urldispatch/pkg/lib/dispatch"
)

func main() {
	// Must run before anything else: when this process is a dispatch
	// child, Init takes over and never returns.
	dispatch.Init()

	root := NewRootCmd()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
