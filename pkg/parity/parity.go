// Package parity compares the UUID functions with PostgreSQL's uuid-ossp
// extension, which they are modelled on.
//
// Constants must match exactly. Generated values cannot match, so for those
// the version, variant and the node's multicast bit are compared instead.
package parity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pluots/udf-suite/pkg/emulate"
	"github.com/pluots/udf-suite/pkg/errors"
	"github.com/pluots/udf-suite/pkg/udf"
)

// Querier is the part of *pgx.Conn the checks use.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Connect opens a connection and makes sure uuid-ossp is available.
func Connect(ctx context.Context, dsn string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConnectionFailed, "connect to postgres").Err()
	}
	if _, err := conn.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		conn.Close(ctx)
		return nil, errors.Wrap(err, errors.ErrCodeQueryFailed, "enable uuid-ossp").Err()
	}
	return conn, nil
}

// mode says how two results are compared.
type mode int

const (
	exact mode = iota
	shape
)

// Functions present in both. uuid-ossp has no v6, v7, max or bin helpers.
var checked = []struct {
	name string
	mode mode
}{
	{"uuid_nil", exact},
	{"uuid_ns_dns", exact},
	{"uuid_ns_url", exact},
	{"uuid_ns_oid", exact},
	{"uuid_ns_x500", exact},
	{"uuid_generate_v1", shape},
	{"uuid_generate_v1mc", shape},
	{"uuid_generate_v4", shape},
}

// Check is the outcome for one function.
type Check struct {
	Function string
	Ours     string
	Theirs   string
	OK       bool
	Detail   string
}

// Run calls every shared function on both sides. Functions missing from reg
// are skipped.
func Run(ctx context.Context, q Querier, reg *udf.Registry) ([]Check, error) {
	var out []Check
	for _, c := range checked {
		def, ok := reg.Lookup(c.name)
		if !ok {
			continue
		}

		ours, err := call(def)
		if err != nil {
			return out, err
		}
		var theirs string
		if err := q.QueryRow(ctx, "SELECT "+c.name+"()::text").Scan(&theirs); err != nil {
			return out, errors.Wrapf(err, errors.ErrCodeQueryFailed, "postgres %s()", c.name).Err()
		}

		check := Check{Function: c.name, Ours: ours, Theirs: theirs}
		if c.mode == exact {
			check.OK = ours == theirs
			if !check.OK {
				check.Detail = "values differ"
			}
		} else {
			check.OK, check.Detail = sameShape(ours, theirs)
		}
		out = append(out, check)
	}
	return out, nil
}

func call(def *udf.Definition) (string, error) {
	res, err := emulate.Call(def, nil)
	if err != nil {
		return "", err
	}
	s, ok := res[0].AsString()
	if !ok {
		return "", errors.Newf(errors.ErrCodeProcessFailed, "%s returned NULL", def.Name).Err()
	}
	return s, nil
}

// sameShape compares what two random UUIDs of one kind have in common.
func sameShape(ours, theirs string) (bool, string) {
	a, err := uuid.Parse(ours)
	if err != nil {
		return false, "ours does not parse: " + err.Error()
	}
	b, err := uuid.Parse(theirs)
	if err != nil {
		return false, "theirs does not parse: " + err.Error()
	}

	switch {
	case a.Version() != b.Version():
		return false, fmt.Sprintf("version %d, postgres %d", a.Version(), b.Version())
	case a.Variant() != b.Variant():
		return false, fmt.Sprintf("variant %v, postgres %v", a.Variant(), b.Variant())
	case a.Version() == 1 && multicast(a) != multicast(b):
		return false, fmt.Sprintf("multicast node %t, postgres %t", multicast(a), multicast(b))
	}
	return true, ""
}

func multicast(u uuid.UUID) bool { return u[10]&0x01 != 0 }
