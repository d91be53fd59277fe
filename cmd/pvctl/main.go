package main

import (
	"fmt"
	"os"

	"github.com/example/pvctl/internal/pvctl"
	"github.com/example/pvctl/internal/tui"
)

func main() {
	var err error
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		err = tui.StartWizard()
	} else {
		err = pvctl.Run(os.Args[1:])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
