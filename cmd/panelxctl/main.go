package main

import (
	"fmt"
	"os"

	"panelxd/internal/ctl"
)

func main() {
	if err := ctl.BuildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "panelxctl:", err)
		os.Exit(1)
	}
}
