// Package sqlitehost runs registered functions inside SQLite through
// mattn/go-sqlite3, so they can be queried without a MySQL server.
//
// Each scalar call is one statement: init, one process call and teardown.
// Each aggregate group is one statement that initializes on its first row.
// SQLite has no argument expressions to show, so arguments are labelled
// arg1, arg2 and so on. A row failure yields NULL, as in the server.
package sqlitehost

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/mattn/go-sqlite3"

	"github.com/pluots/udf-suite/pkg/emulate"
	"github.com/pluots/udf-suite/pkg/errors"
	"github.com/pluots/udf-suite/pkg/log"
	"github.com/pluots/udf-suite/pkg/udf"
)

var (
	registerMu sync.Mutex
	registered = make(map[string]bool)
	openSeq    atomic.Int64
)

// Register makes a database/sql driver called driverName that is
// go-sqlite3 with defs installed on every connection. Registering the same
// name twice is an error.
func Register(driverName string, defs []*udf.Definition) error {
	registerMu.Lock()
	defer registerMu.Unlock()

	if registered[driverName] {
		return errors.Newf(errors.ErrCodeDuplicateFunc, "driver %s already registered", driverName).Err()
	}
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return install(conn, defs)
		},
	})
	registered[driverName] = true
	return nil
}

// Open registers a driver for defs under a name unique to this call and
// opens an in-memory database with it.
func Open(defs []*udf.Definition) (*sql.DB, error) {
	name := fmt.Sprintf("sqlite3_udf_%d", openSeq.Add(1))
	if err := Register(name, defs); err != nil {
		return nil, err
	}
	db, err := sql.Open(name, ":memory:")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConnectionFailed, "open sqlite host").Err()
	}
	// Each connection of :memory: is its own database.
	db.SetMaxOpenConns(1)
	return db, nil
}

func install(conn *sqlite3.SQLiteConn, defs []*udf.Definition) error {
	for _, d := range defs {
		var err error
		if d.Kind == udf.KindAggregate {
			err = conn.RegisterAggregator(d.Name, aggregatorFor(d), false)
		} else {
			err = conn.RegisterFunc(d.Name, scalarFor(d), false)
		}
		if err != nil {
			return errors.Wrapf(err, errors.ErrCodeInstallFailed, "register %s with sqlite", d.Name).Err()
		}
		log.Default().Host().Debug("registered function", "function", d.Name, "kind", d.Kind)
	}
	return nil
}

func scalarFor(def *udf.Definition) func(args ...interface{}) (interface{}, error) {
	return func(args ...interface{}) (interface{}, error) {
		row := toValues(args)
		st, err := emulate.Init(def, columns(row)...)
		if err != nil {
			return nil, initError(def, err)
		}
		defer st.Close()

		v, err := st.ProcessRow(row...)
		if err != nil {
			logRowFailure(def, err)
			return nil, nil
		}
		return fromValue(v), nil
	}
}

// aggregator is one SQLite aggregate context, which is one group.
type aggregator struct {
	def    *udf.Definition
	st     *emulate.Statement
	failed bool
}

func aggregatorFor(def *udf.Definition) func() *aggregator {
	return func() *aggregator { return &aggregator{def: def} }
}

func (a *aggregator) Step(args ...interface{}) error {
	if a.failed {
		return nil
	}
	row := toValues(args)
	if a.st == nil {
		st, err := emulate.Init(a.def, columns(row)...)
		if err != nil {
			return initError(a.def, err)
		}
		if err := st.Clear(); err != nil {
			st.Close()
			return err
		}
		a.st = st
	}
	if err := a.st.Add(row...); err != nil {
		logRowFailure(a.def, err)
		a.failed = true
	}
	return nil
}

// Done returns the group's result. An empty group never initialized the
// function, since its argument types are unknown, and yields NULL.
func (a *aggregator) Done() (interface{}, error) {
	if a.st == nil {
		return nil, nil
	}
	defer a.st.Close()
	if a.failed {
		return nil, nil
	}
	v, err := a.st.Process()
	if err != nil {
		logRowFailure(a.def, err)
		return nil, nil
	}
	return fromValue(v), nil
}

func initError(def *udf.Definition, err error) error {
	log.Default().Host().Warn("init failed", "function", def.Name, "error", errors.Message(err))
	return errors.New(errors.GetCode(err), udf.InitMessage(err)).Err()
}

func logRowFailure(def *udf.Definition, err error) {
	log.Default().Host().Debug("row failed", "function", def.Name, "error", errors.Message(err))
}

func columns(row []udf.Value) []emulate.Arg {
	args := make([]emulate.Arg, len(row))
	for i, v := range row {
		args[i] = emulate.Column(v, "arg"+strconv.Itoa(i+1))
	}
	return args
}

func toValues(args []interface{}) []udf.Value {
	row := make([]udf.Value, len(args))
	for i, a := range args {
		row[i] = toValue(a)
	}
	return row
}

// toValue maps SQLite's storage classes onto the server's argument types.
func toValue(a interface{}) udf.Value {
	switch v := a.(type) {
	case nil:
		return udf.Null(udf.TypeString)
	case int64:
		return udf.Int(v)
	case float64:
		return udf.Real(v)
	case []byte:
		// The driver passes NULL arguments as a nil []byte.
		if v == nil {
			return udf.Null(udf.TypeString)
		}
		return udf.OwnedText(v)
	case string:
		return udf.TextString(v)
	case bool:
		if v {
			return udf.Int(1)
		}
		return udf.Int(0)
	default:
		return udf.TextString(fmt.Sprint(v))
	}
}

// fromValue copies v out of instance memory. Valid UTF-8 strings become
// TEXT and other byte strings become BLOBs; decimals are returned as text.
func fromValue(v udf.Value) interface{} {
	if v.IsNull() {
		return nil
	}
	switch v.Type() {
	case udf.TypeInt:
		i, _ := v.AsInt()
		return i
	case udf.TypeReal:
		f, _ := v.AsReal()
		return f
	case udf.TypeDecimal:
		s, _ := v.AsDecimal()
		return s
	default:
		b, _ := v.AsBytes()
		if utf8.Valid(b) {
			return string(b)
		}
		return append([]byte(nil), b...)
	}
}

// Result is a fully read query result.
type Result struct {
	Columns []string
	Rows    [][]string
}

// Query runs query on db and renders every value as text. NULL is shown as
// "NULL" and BLOBs as hex.
func Query(ctx context.Context, db *sql.DB, query string, args ...interface{}) (*Result, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeQueryFailed, "query failed").
			WithField("query", query).
			Err()
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeQueryFailed, "read columns").Err()
	}
	res := &Result{Columns: cols}

	vals := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeQueryFailed, "scan row").Err()
		}
		out := make([]string, len(cols))
		for i, v := range vals {
			out[i] = render(v)
		}
		res.Rows = append(res.Rows, out)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeQueryFailed, "iterate rows").Err()
	}
	return res, nil
}

func render(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		if utf8.Valid(v) {
			return string(v)
		}
		return fmt.Sprintf("0x%X", v)
	default:
		return fmt.Sprint(v)
	}
}
