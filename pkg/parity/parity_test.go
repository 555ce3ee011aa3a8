package parity

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pluots/udf-suite/pkg/suite"
)

type row struct {
	s   string
	err error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.s
	return nil
}

// fakePG answers like uuid-ossp, with overrides per function.
type fakePG map[string]string

func (f fakePG) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	name := strings.TrimSuffix(strings.TrimPrefix(sql, "SELECT "), "()::text")
	if s, ok := f[name]; ok {
		return row{s: s}
	}
	switch name {
	case "uuid_nil":
		return row{s: uuid.Nil.String()}
	case "uuid_ns_dns":
		return row{s: uuid.NameSpaceDNS.String()}
	case "uuid_ns_url":
		return row{s: uuid.NameSpaceURL.String()}
	case "uuid_ns_oid":
		return row{s: uuid.NameSpaceOID.String()}
	case "uuid_ns_x500":
		return row{s: uuid.NameSpaceX500.String()}
	case "uuid_generate_v1":
		return row{s: "a3bb189e-8bf9-11ee-b9d1-0242ac120002"}
	case "uuid_generate_v1mc":
		return row{s: "a3bb189e-8bf9-11ee-b9d1-0300000000aa"}
	case "uuid_generate_v4":
		return row{s: uuid.NewString()}
	}
	return row{s: "unexpected " + name}
}

func TestRunAgrees(t *testing.T) {
	checks, err := Run(context.Background(), fakePG{}, suite.Registry)
	if err != nil {
		t.Fatal(err)
	}
	if len(checks) != len(checked) {
		t.Fatalf("%d checks, want %d", len(checks), len(checked))
	}
	for _, c := range checks {
		// v1 compares the hardware node's multicast bit, which depends on the
		// machine running the test.
		if c.Function == "uuid_generate_v1" {
			continue
		}
		if !c.OK {
			t.Errorf("%s: ours %s, theirs %s: %s", c.Function, c.Ours, c.Theirs, c.Detail)
		}
	}
}

func TestRunReportsDifferences(t *testing.T) {
	pg := fakePG{
		"uuid_ns_dns":      uuid.NameSpaceURL.String(),
		"uuid_generate_v4": "a3bb189e-8bf9-11ee-b9d1-0242ac120002",
	}
	checks, err := Run(context.Background(), pg, suite.Registry)
	if err != nil {
		t.Fatal(err)
	}

	byName := make(map[string]Check)
	for _, c := range checks {
		byName[c.Function] = c
	}
	if c := byName["uuid_ns_dns"]; c.OK || c.Detail != "values differ" {
		t.Errorf("uuid_ns_dns = %+v", c)
	}
	if c := byName["uuid_generate_v4"]; c.OK || c.Detail != "version 4, postgres 1" {
		t.Errorf("uuid_generate_v4 = %+v", c)
	}
}

func TestSameShape(t *testing.T) {
	tests := []struct {
		name         string
		ours, theirs string
		ok           bool
		detailPrefix string
	}{
		{"same v4", uuid.NewString(), uuid.NewString(), true, ""},
		{"bad ours", "x", uuid.NewString(), false, "ours does not parse"},
		{"multicast", "a3bb189e-8bf9-11ee-b9d1-0300000000aa", "a3bb189e-8bf9-11ee-b9d1-0242ac120002", false, "multicast node true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, detail := sameShape(tt.ours, tt.theirs)
			if ok != tt.ok || !strings.HasPrefix(detail, tt.detailPrefix) {
				t.Errorf("sameShape = %t, %q", ok, detail)
			}
		})
	}
}

// TestLiveParity runs against a real server when UDF_SUITE_TEST_PG_DSN is set.
func TestLiveParity(t *testing.T) {
	dsn := os.Getenv("UDF_SUITE_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("UDF_SUITE_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	conn, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close(ctx)

	checks, err := Run(ctx, conn, suite.Registry)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range checks {
		if !c.OK && c.Function != "uuid_generate_v1" {
			t.Errorf("%s: %s", c.Function, c.Detail)
		}
	}
}
