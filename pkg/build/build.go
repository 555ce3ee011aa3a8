// Package build compiles cmd/udfsuite into the shared object the server
// loads.
package build

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pluots/udf-suite/pkg/errors"
)

// MainPackage is the import path, relative to the module root, of the
// library's main package.
const MainPackage = "./cmd/udfsuite"

// Config describes one library build.
type Config struct {
	// GoPath is the go binary.
	GoPath string

	// ModuleDir is the udf-suite module root.
	ModuleDir string

	// Output is the shared object to write.
	Output string

	// Strip drops the symbol table and DWARF data. Exported functions are
	// kept since they are in the dynamic symbol table.
	Strip bool

	BuildTags string

	// Generate runs go generate on the main package first, so the export
	// shims match the current function table.
	Generate bool
}

// DefaultConfig builds into the current directory.
func DefaultConfig() Config {
	return Config{
		GoPath:    "go",
		ModuleDir: ".",
		Output:    "libudf_suite.so",
		Generate:  true,
	}
}

// Args returns the go build arguments for c.
func (c Config) Args() []string {
	args := []string{"build", "-buildmode=c-shared"}
	if c.Strip {
		args = append(args, "-ldflags=-s -w")
	}
	if c.BuildTags != "" {
		args = append(args, "-tags", c.BuildTags)
	}
	return append(args, "-o", c.Output, MainPackage)
}

func (c Config) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.GoPath, args...)
	cmd.Dir = c.ModuleDir
	cmd.Env = append(os.Environ(), "CGO_ENABLED=1")
	return cmd
}

// Commands returns the commands Run executes, in order.
func (c Config) Commands(ctx context.Context) []*exec.Cmd {
	var cmds []*exec.Cmd
	if c.Generate {
		cmds = append(cmds, c.command(ctx, "generate", MainPackage))
	}
	return append(cmds, c.command(ctx, c.Args()...))
}

// Run builds the library and returns the absolute path of the result.
// Compiler output is attached to the error on failure.
func Run(ctx context.Context, c Config) (string, error) {
	if !filepath.IsAbs(c.Output) {
		abs, err := filepath.Abs(filepath.Join(c.ModuleDir, c.Output))
		if err != nil {
			return "", errors.Wrap(err, errors.ErrCodeConfigInvalid, "resolve output path").Err()
		}
		c.Output = abs
	}

	for _, cmd := range c.Commands(ctx) {
		output, err := cmd.CombinedOutput()
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrCodeBuildFailed, "%s failed", cmd.Args[1]).
				WithOp("build.Run").
				WithField("output", string(output)).
				WithField("hint", "building the library needs cgo and a C compiler").
				Err()
		}
	}
	return c.Output, nil
}
