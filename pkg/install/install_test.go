package install

import (
	"context"
	"database/sql"
	"database/sql/driver"
	stderrors "errors"
	"os"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"

	"github.com/pluots/udf-suite/pkg/errors"
	"github.com/pluots/udf-suite/pkg/log"
	"github.com/pluots/udf-suite/pkg/udf"
)

// recorder is a DB that remembers statements and fails the ones listed.
type recorder struct {
	stmts []string
	fail  map[string]error
}

func (r *recorder) ExecContext(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
	r.stmts = append(r.stmts, query)
	if err, ok := r.fail[query]; ok {
		return nil, err
	}
	return driver.RowsAffected(0), nil
}

func (r *recorder) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, stderrors.New("not supported")
}

func quietLogger() *log.Logger {
	return log.New(log.Config{DefaultLevel: log.LevelError})
}

func TestInstall(t *testing.T) {
	defs := []*udf.Definition{scalarDef, aggDef}

	tests := []struct {
		name      string
		orReplace bool
		run       func(in *Installer) error
		want      []string
	}{
		{
			name: "drop then create",
			run:  func(in *Installer) error { return in.Install(context.Background(), defs) },
			want: []string{
				"DROP FUNCTION IF EXISTS uuid_is_valid",
				"CREATE FUNCTION uuid_is_valid RETURNS INTEGER SONAME 'l.so'",
				"DROP FUNCTION IF EXISTS jsonify_agg",
				"CREATE AGGREGATE FUNCTION jsonify_agg RETURNS STRING SONAME 'l.so'",
			},
		},
		{
			name:      "or replace",
			orReplace: true,
			run:       func(in *Installer) error { return in.Install(context.Background(), defs) },
			want: []string{
				"CREATE OR REPLACE FUNCTION uuid_is_valid RETURNS INTEGER SONAME 'l.so'",
				"CREATE OR REPLACE AGGREGATE FUNCTION jsonify_agg RETURNS STRING SONAME 'l.so'",
			},
		},
		{
			name: "uninstall",
			run:  func(in *Installer) error { return in.Uninstall(context.Background(), defs) },
			want: []string{
				"DROP FUNCTION IF EXISTS uuid_is_valid",
				"DROP FUNCTION IF EXISTS jsonify_agg",
			},
		},
		{
			name:      "reinstall drops everything first",
			orReplace: true,
			run:       func(in *Installer) error { return in.Reinstall(context.Background(), defs) },
			want: []string{
				"DROP FUNCTION IF EXISTS uuid_is_valid",
				"DROP FUNCTION IF EXISTS jsonify_agg",
				"CREATE FUNCTION uuid_is_valid RETURNS INTEGER SONAME 'l.so'",
				"CREATE AGGREGATE FUNCTION jsonify_agg RETURNS STRING SONAME 'l.so'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &recorder{}
			if err := tt.run(New(db, "l.so", tt.orReplace, quietLogger())); err != nil {
				t.Fatal(err)
			}
			if strings.Join(db.stmts, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("statements:\n%s\nwant:\n%s", strings.Join(db.stmts, "\n"), strings.Join(tt.want, "\n"))
			}
		})
	}
}

func TestInstallErrorHints(t *testing.T) {
	create := CreateStatement(scalarDef, "l.so", false)
	db := &recorder{fail: map[string]error{
		create: &mysql.MySQLError{Number: 1126, Message: "Can't open shared library 'l.so'"},
	}}

	err := New(db, "l.so", false, quietLogger()).Install(context.Background(), []*udf.Definition{scalarDef, aggDef})
	if !errors.IsCode(err, errors.ErrCodeInstallFailed) {
		t.Fatalf("err = %v", err)
	}
	var me *mysql.MySQLError
	if !stderrors.As(err, &me) || me.Number != 1126 {
		t.Errorf("server error not preserved: %v", err)
	}
	fields := errors.GetFields(err)
	if hint, _ := fields["hint"].(string); !strings.Contains(hint, "plugin_dir") {
		t.Errorf("hint = %q", hint)
	}
	if fields["statement"] != create {
		t.Errorf("statement = %v", fields["statement"])
	}
	// Installation stops at the first failure.
	if len(db.stmts) != 2 {
		t.Errorf("ran %d statements", len(db.stmts))
	}
}

func TestOpenRejectsBadDSN(t *testing.T) {
	_, err := Open(context.Background(), "not a dsn")
	if !errors.IsCode(err, errors.ErrCodeConfigInvalid) {
		t.Errorf("err = %v", err)
	}
}

// TestLiveInstall runs against a real server when UDF_SUITE_TEST_DSN is set.
// The library must already be in the server's plugin_dir.
func TestLiveInstall(t *testing.T) {
	dsn := os.Getenv("UDF_SUITE_TEST_DSN")
	if dsn == "" {
		t.Skip("UDF_SUITE_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	def := &udf.Definition{Name: "uuid_nil", Returns: udf.TypeString}
	in := New(db, "libudf_suite.so", false, quietLogger())
	if err := in.Install(ctx, []*udf.Definition{def}); err != nil {
		t.Fatal(err)
	}
	defer in.Uninstall(ctx, []*udf.Definition{def})

	var got string
	if err := db.QueryRowContext(ctx, "SELECT uuid_nil()").Scan(&got); err != nil {
		t.Fatal(err)
	}
	if got != "00000000-0000-0000-0000-000000000000" {
		t.Errorf("uuid_nil() = %q", got)
	}

	fns, err := in.Installed(ctx)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range fns {
		found = found || f.Name == "uuid_nil"
	}
	if !found {
		t.Errorf("uuid_nil not listed in %v", fns)
	}
}
