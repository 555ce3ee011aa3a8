package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pluots/udf-suite/pkg/build"
	"github.com/pluots/udf-suite/pkg/config"
	"github.com/pluots/udf-suite/pkg/errors"
	"github.com/pluots/udf-suite/pkg/install"
	"github.com/pluots/udf-suite/pkg/log"
	"github.com/pluots/udf-suite/pkg/parity"
	"github.com/pluots/udf-suite/pkg/sqlitehost"
	"github.com/pluots/udf-suite/pkg/suite"
	"github.com/pluots/udf-suite/pkg/udf"
	"github.com/pluots/udf-suite/pkg/version"
)

// options are the persistent flags.
type options struct {
	configFile  string
	dsn         string
	library     string
	libraryPath string
	replace     bool
	postgresDSN string
	logLevel    string
	logFormat   string
}

// resolve loads the config file, if any, and applies flags that were set.
func (o *options) resolve(cmd *cobra.Command) (config.Installer, error) {
	cfg := config.DefaultInstallerConfig()
	if o.configFile != "" {
		var err error
		if cfg, err = config.LoadInstaller(o.configFile); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dsn") {
		cfg.DSN = o.dsn
	}
	if flags.Changed("library") {
		cfg.Library = o.library
	}
	if flags.Changed("library-path") {
		cfg.LibraryPath = o.libraryPath
	}
	if flags.Changed("replace") {
		cfg.Replace = o.replace
	}
	if flags.Changed("pg-dsn") {
		cfg.PostgresDSN = o.postgresDSN
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = o.logFormat
	}
	return cfg, nil
}

func newLogger(cfg config.Installer, w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid log level").Err()
	}
	format, err := log.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid log format").Err()
	}
	return log.New(log.Config{DefaultLevel: level, Output: w, Format: format}), nil
}

// selectFunctions picks the positional names, else the config allowlist,
// else everything.
func selectFunctions(cfg config.Installer, args []string) ([]*udf.Definition, error) {
	names := args
	if len(names) == 0 {
		names = cfg.Functions
	}
	return suite.Registry.Select(names)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "udfctl",
		Short:         "Install and inspect the udf-suite loadable functions",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("udfctl version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&o.configFile, "config", "c", "", "YAML configuration file")
	pf.StringVar(&o.dsn, "dsn", "", "MySQL/MariaDB DSN, e.g. user:pw@tcp(host:3306)/")
	pf.StringVar(&o.library, "library", config.DefaultLibrary, "Shared object name used in CREATE FUNCTION")
	pf.StringVar(&o.libraryPath, "library-path", "", "Built library to watch with install --watch")
	pf.BoolVar(&o.replace, "replace", false, "Use CREATE OR REPLACE (MariaDB)")
	pf.StringVar(&o.postgresDSN, "pg-dsn", "", "PostgreSQL DSN for parity")
	pf.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&o.logFormat, "log-format", "text", "Log format (text, json, server)")

	root.AddCommand(
		newListCmd(),
		newSQLCmd(o),
		newBuildCmd(),
		newInstallCmd(o),
		newUninstallCmd(o),
		newStatusCmd(o),
		newQueryCmd(o),
		newParityCmd(o),
		newVersionCmd(),
	)
	return root
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the functions in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tKIND\tRETURNS\tUSAGE")
			for _, d := range suite.Registry.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Name, d.Kind, d.Returns.ReturnsKeyword(), d.Usage)
			}
			return tw.Flush()
		},
	}
}

func newSQLCmd(o *options) *cobra.Command {
	var drop bool
	cmd := &cobra.Command{
		Use:   "sql [functions...]",
		Short: "Print the CREATE FUNCTION (or DROP FUNCTION) statements",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			defs, err := selectFunctions(cfg, args)
			if err != nil {
				return err
			}
			if drop {
				_, err = io.WriteString(cmd.OutOrStdout(), install.DropScript(defs))
			} else {
				_, err = io.WriteString(cmd.OutOrStdout(), install.Script(defs, cfg.Library, cfg.Replace))
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "Print DROP FUNCTION statements")
	return cmd
}

func newBuildCmd() *cobra.Command {
	cfg := build.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the shared library (needs cgo and a C compiler)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := build.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "built %s\n", path)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output file; copy it into the server's plugin_dir")
	f.StringVar(&cfg.ModuleDir, "module", cfg.ModuleDir, "udf-suite module root")
	f.StringVar(&cfg.GoPath, "go", cfg.GoPath, "Path to the go binary")
	f.StringVar(&cfg.BuildTags, "tags", "", "Build tags")
	f.BoolVar(&cfg.Strip, "strip", false, "Strip symbol table and debug info")
	f.BoolVar(&cfg.Generate, "generate", cfg.Generate, "Regenerate export shims first")
	return cmd
}

// session is an open connection to the server being managed.
type session struct {
	cfg    config.Installer
	logger *log.Logger
	db     *sql.DB
	in     *install.Installer
}

func openSession(cmd *cobra.Command, o *options) (*session, error) {
	cfg, err := o.resolve(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, errors.New(errors.ErrCodeConfigMissing, "no DSN; pass --dsn or set dsn in the config file").Err()
	}
	db, err := install.Open(cmd.Context(), cfg.DSN)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:    cfg,
		logger: logger,
		db:     db,
		in:     install.New(db, cfg.Library, cfg.Replace, logger),
	}, nil
}

func (s *session) Close() {
	s.db.Close()
	s.logger.Close()
}

func newInstallCmd(o *options) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "install [functions...]",
		Short: "Create the functions on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, o)
			if err != nil {
				return err
			}
			defer s.Close()

			defs, err := selectFunctions(s.cfg, args)
			if err != nil {
				return err
			}
			if err := s.in.Install(cmd.Context(), defs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "installed %d functions from %s\n", len(defs), s.cfg.Library)
			if !watch {
				return nil
			}

			if s.cfg.LibraryPath == "" {
				return errors.New(errors.ErrCodeConfigMissing, "--watch needs --library-path").Err()
			}
			w, err := install.NewWatcher(s.cfg.LibraryPath, func(ctx context.Context) error {
				return s.in.Reinstall(ctx, defs)
			}, s.logger)
			if err != nil {
				return err
			}
			if err := w.Start(cmd.Context()); err != nil {
				return err
			}
			<-cmd.Context().Done()
			return w.Stop()
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reinstall whenever --library-path is rebuilt")
	return cmd
}

func newUninstallCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall [functions...]",
		Short: "Drop the functions from the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, o)
			if err != nil {
				return err
			}
			defer s.Close()

			defs, err := selectFunctions(s.cfg, args)
			if err != nil {
				return err
			}
			if err := s.in.Uninstall(cmd.Context(), defs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dropped %d functions\n", len(defs))
			return nil
		},
	}
}

func newStatusCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which functions the server has loaded from the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, o)
			if err != nil {
				return err
			}
			defer s.Close()

			fns, err := s.in.Installed(cmd.Context())
			if err != nil {
				return err
			}
			installed := make(map[string]install.Function, len(fns))
			for _, f := range fns {
				installed[f.Name] = f
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSTATUS")
			for _, d := range suite.Registry.All() {
				status := "missing"
				if f, ok := installed[d.Name]; ok {
					status = "installed"
					if f.Returns != d.Returns || f.Aggregate != (d.Kind == udf.KindAggregate) {
						status = "stale (reinstall)"
					}
				}
				fmt.Fprintf(tw, "%s\t%s\n", d.Name, status)
			}
			return tw.Flush()
		},
	}
}

func newQueryCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Run SQL against an in-memory SQLite database with the functions loaded",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			prev := log.Default()
			log.SetDefault(logger)
			defer log.SetDefault(prev)

			db, err := sqlitehost.Open(suite.Registry.All())
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := sqlitehost.Query(cmd.Context(), db, strings.Join(args, " "))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, strings.Join(res.Columns, "\t"))
			for _, row := range res.Rows {
				fmt.Fprintln(tw, strings.Join(row, "\t"))
			}
			return tw.Flush()
		},
	}
}

func newParityCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parity",
		Short: "Compare the UUID functions with PostgreSQL uuid-ossp",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			if cfg.PostgresDSN == "" {
				return errors.New(errors.ErrCodeConfigMissing, "no PostgreSQL DSN; pass --pg-dsn or set postgres_dsn").Err()
			}
			conn, err := parity.Connect(cmd.Context(), cfg.PostgresDSN)
			if err != nil {
				return err
			}
			defer conn.Close(context.Background())

			checks, err := parity.Run(cmd.Context(), conn, suite.Registry)
			if err != nil {
				return err
			}
			return printChecks(cmd.OutOrStdout(), checks)
		},
	}
}

func printChecks(w io.Writer, checks []parity.Check) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FUNCTION\tRESULT\tOURS\tPOSTGRES")
	failed := 0
	for _, c := range checks {
		result := "ok"
		if !c.OK {
			result = "FAIL: " + c.Detail
			failed++
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Function, result, c.Ours, c.Theirs)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return errors.Newf(errors.ErrCodeProcessFailed, "%d of %d functions differ", failed, len(checks)).Err()
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}
