package sqlitehost_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluots/udf-suite/pkg/sqlitehost"
	"github.com/pluots/udf-suite/pkg/suite"
)

func openHost(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlitehost.Open(suite.Registry.All())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func queryString(t *testing.T, db *sql.DB, query string) sql.NullString {
	t.Helper()
	var s sql.NullString
	require.NoError(t, db.QueryRow(query).Scan(&s))
	return s
}

func TestScalarFunctions(t *testing.T) {
	db := openHost(t)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"is_valid", "SELECT uuid_is_valid('00908d94-c78d-4ea5-8aa5-5a06868f0420')", "1"},
		{"is_invalid", "SELECT uuid_is_valid('nope')", "0"},
		{"generated length", "SELECT length(uuid_generate_v4())", "36"},
		{"constant", "SELECT uuid_ns_url()", "6ba7b811-9dad-11d1-80b4-00c04fd430c8"},
		{"swapped", "SELECT hex(uuid_to_bin('6ccd780c-baba-1026-9564-5b8c656024db', 1))", "1026BABA6CCD780C95645B8C656024DB"},
		{"round trip", "SELECT uuid_from_bin(uuid_to_bin('6ccd780c-baba-1026-9564-5b8c656024db', 1), 1)", "6ccd780c-baba-1026-9564-5b8c656024db"},
		{"jsonify labels", "SELECT jsonify(1, 'a', NULL)", `{"arg1":1,"arg2":"a","arg3":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := queryString(t, db, tt.query)
			require.True(t, got.Valid)
			assert.Equal(t, tt.want, got.String)
		})
	}
}

func TestNullArgumentsStayNull(t *testing.T) {
	db := openHost(t)

	assert.False(t, queryString(t, db, "SELECT uuid_to_bin(NULL)").Valid)
	assert.False(t, queryString(t, db, "SELECT uuid_from_bin(NULL, 1)").Valid)
	assert.Equal(t, sql.NullString{String: "0", Valid: true}, queryString(t, db, "SELECT uuid_is_valid(NULL)"))
	assert.Equal(t, sql.NullString{String: `{"arg1":null}`, Valid: true}, queryString(t, db, "SELECT jsonify(NULL)"))
	assert.Equal(t, sql.NullString{String: `{"arg1":""}`, Valid: true}, queryString(t, db, "SELECT jsonify('')"))

	_, err := db.Exec(`CREATE TABLE n (v TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO n VALUES (NULL), (NULL)`)
	require.NoError(t, err)
	assert.Equal(t, sql.NullString{String: "[null,null]", Valid: true}, queryString(t, db, "SELECT jsonify_agg(v) FROM n"))
}

func TestRowFailureIsNull(t *testing.T) {
	db := openHost(t)
	got := queryString(t, db, "SELECT uuid_to_bin('not-a-uuid')")
	assert.False(t, got.Valid)
}

func TestInitFailureIsQueryError(t *testing.T) {
	db := openHost(t)
	var s sql.NullString
	err := db.QueryRow("SELECT uuid_nil(1)").Scan(&s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uuid_nil takes 0 arguments but got 1")
}

func TestAggregates(t *testing.T) {
	db := openHost(t)
	_, err := db.Exec(`CREATE TABLE t (g INTEGER, k TEXT, v INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO t VALUES (1, 'a', 1), (1, 'b', 2), (2, 'c', NULL)`)
	require.NoError(t, err)

	rows, err := db.Query(`SELECT g, jsonify_agg(v), jsonify_objectagg(k, v) FROM t GROUP BY g ORDER BY g`)
	require.NoError(t, err)
	defer rows.Close()

	type group struct {
		g        int
		arr, obj string
	}
	var got []group
	for rows.Next() {
		var r group
		require.NoError(t, rows.Scan(&r.g, &r.arr, &r.obj))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())

	require.Len(t, got, 2)
	// Row order inside a group is up to SQLite's sorter.
	assert.Contains(t, []string{"[1,2]", "[2,1]"}, got[0].arr)
	assert.Equal(t, `{"a":1,"b":2}`, got[0].obj)
	assert.Equal(t, group{2, "[null]", `{"c":null}`}, got[1])
}

func TestEmptyAggregateIsNull(t *testing.T) {
	db := openHost(t)
	_, err := db.Exec(`CREATE TABLE e (v INTEGER)`)
	require.NoError(t, err)
	got := queryString(t, db, "SELECT jsonify_agg(v) FROM e")
	assert.False(t, got.Valid)
}

func TestQueryRendersValues(t *testing.T) {
	db := openHost(t)
	res, err := sqlitehost.Query(context.Background(), db, "SELECT uuid_to_bin('bad') AS a, uuid_to_bin(uuid_max()) AS b, 7 AS c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "NULL", res.Rows[0][0])
	assert.Equal(t, "0x"+strings.Repeat("FF", 16), res.Rows[0][1])
	assert.Equal(t, "7", res.Rows[0][2])
}

func TestRegisterTwice(t *testing.T) {
	require.NoError(t, sqlitehost.Register("sqlitehost_test_dup", nil))
	assert.Error(t, sqlitehost.Register("sqlitehost_test_dup", nil))
}
