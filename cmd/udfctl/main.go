// Command udfctl installs and inspects the loadable function library.
//
//	udfctl list
//	udfctl sql [--drop] [functions...]
//	udfctl build -o /usr/lib/mysql/plugin/libudf_suite.so
//	udfctl install --dsn 'root:pw@tcp(localhost:3306)/' [--watch]
//	udfctl uninstall --dsn ...
//	udfctl status --dsn ...
//	udfctl query "SELECT uuid_generate_v7()"
//	udfctl parity --pg-dsn postgres://...
//
// Settings come from an optional YAML file (--config); flags override it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pluots/udf-suite/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "udfctl: %v\n", err)
		if hint, ok := errors.GetFields(err)["hint"]; ok {
			fmt.Fprintf(stderr, "hint: %v\n", hint)
		}
		return 1
	}
	return 0
}
