// Command udfgen writes the //export shims for every function in pkg/suite.
//
//	go run ./cmd/udfgen -o cmd/udfsuite/exports_gen.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pluots/udf-suite/pkg/errors"
	"github.com/pluots/udf-suite/pkg/suite"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("udfgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("o", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	src, err := generate(suite.Registry.All())
	if err != nil {
		fmt.Fprintf(stderr, "udfgen: %s\n", errors.Message(err))
		return 1
	}

	if *out == "" {
		stdout.Write(src)
		return 0
	}
	if err := os.WriteFile(*out, src, 0644); err != nil {
		fmt.Fprintf(stderr, "udfgen: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "udfgen: wrote %d functions to %s\n", suite.Registry.Len(), *out)
	return 0
}
