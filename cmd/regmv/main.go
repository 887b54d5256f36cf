package main

import (
	"fmt"
	"os"

	"github.com/sokinpui/regmv"
)

func main() {
	if err := regmv.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "regmv: %v\n", err)
		os.Exit(regmv.ExitCode(err))
	}
}
