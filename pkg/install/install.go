package install

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/pluots/udf-suite/pkg/errors"
	"github.com/pluots/udf-suite/pkg/log"
	"github.com/pluots/udf-suite/pkg/udf"
)

// Server error numbers with a known remedy.
const (
	erCantOpenLibrary = 1126
	erCantFindDLEntry = 1127
	erFunctionExists  = 1125
)

// DB is the part of *sql.DB the installer uses.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// Installer creates and drops functions on one server.
type Installer struct {
	db        DB
	soname    string
	orReplace bool
	logger    *log.Logger
}

// New returns an installer that loads functions from soname.
func New(db DB, soname string, orReplace bool, logger *log.Logger) *Installer {
	if logger == nil {
		logger = log.Default()
	}
	return &Installer{db: db, soname: soname, orReplace: orReplace, logger: logger}
}

// Open connects to the server named by a go-sql-driver/mysql DSN.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid DSN").Err()
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConnectionFailed, "open connection").Err()
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.ErrCodeConnectionFailed, "connect to server").Err()
	}
	return db, nil
}

// Install (re)creates every function in defs. Functions already present
// are replaced.
func (in *Installer) Install(ctx context.Context, defs []*udf.Definition) error {
	for _, d := range defs {
		if !in.orReplace {
			if err := in.exec(ctx, d.Name, DropStatement(d.Name)); err != nil {
				return err
			}
		}
		if err := in.create(ctx, d, in.orReplace); err != nil {
			return err
		}
	}
	return nil
}

func (in *Installer) create(ctx context.Context, d *udf.Definition, orReplace bool) error {
	if err := in.exec(ctx, d.Name, CreateStatement(d, in.soname, orReplace)); err != nil {
		return err
	}
	in.logger.Install().Info("installed function", "function", d.Name, "kind", d.Kind, "returns", d.Returns.ReturnsKeyword())
	return nil
}

// Uninstall drops every function in defs that exists.
func (in *Installer) Uninstall(ctx context.Context, defs []*udf.Definition) error {
	for _, d := range defs {
		if err := in.exec(ctx, d.Name, DropStatement(d.Name)); err != nil {
			return err
		}
		in.logger.Install().Info("dropped function", "function", d.Name)
	}
	return nil
}

// Reinstall drops all of defs before creating any. The server only reopens a
// shared object once no function refers to it, so a rebuilt library is
// picked up this way and not by replacing functions one at a time.
func (in *Installer) Reinstall(ctx context.Context, defs []*udf.Definition) error {
	if err := in.Uninstall(ctx, defs); err != nil {
		return err
	}
	for _, d := range defs {
		if err := in.create(ctx, d, false); err != nil {
			return err
		}
	}
	return nil
}

// Function is a row of mysql.func.
type Function struct {
	Name      string
	Returns   udf.SQLType
	Library   string
	Aggregate bool
}

// Installed lists the functions the server has loaded from the installer's
// library.
func (in *Installer) Installed(ctx context.Context) ([]Function, error) {
	rows, err := in.db.QueryContext(ctx, "SELECT name, ret, dl, type FROM mysql.func WHERE dl = ? ORDER BY name", in.soname)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeQueryFailed, "list installed functions").Err()
	}
	defer rows.Close()

	var out []Function
	for rows.Next() {
		var (
			f    Function
			ret  int32
			kind string
		)
		if err := rows.Scan(&f.Name, &ret, &f.Library, &kind); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeQueryFailed, "scan mysql.func").Err()
		}
		f.Returns = udf.SQLType(ret)
		f.Aggregate = strings.EqualFold(kind, "aggregate")
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeQueryFailed, "list installed functions").Err()
	}
	return out, nil
}

func (in *Installer) exec(ctx context.Context, name, stmt string) error {
	in.logger.Install().Debug("exec", "statement", stmt)
	if _, err := in.db.ExecContext(ctx, stmt); err != nil {
		return explain(err, name, stmt)
	}
	return nil
}

// explain wraps a server error, adding what usually fixes it.
func explain(err error, name, stmt string) error {
	b := errors.Wrapf(err, errors.ErrCodeInstallFailed, "%s failed", name).
		WithField("statement", stmt)

	var me *mysql.MySQLError
	if stderrors.As(err, &me) {
		b = b.WithField("server_error", me.Number)
		switch me.Number {
		case erCantOpenLibrary:
			b = b.WithField("hint", "copy the library into the server's plugin_dir")
		case erCantFindDLEntry:
			b = b.WithField("hint", "the library does not export this function; rebuild it after go generate ./cmd/udfsuite")
		case erFunctionExists:
			b = b.WithField("hint", "drop the function first or install with replace")
		}
	}
	return b.Err()
}
