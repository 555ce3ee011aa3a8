// Package install registers the library's functions with a MySQL or MariaDB
// server and keeps them registered while the library is rebuilt.
package install

import (
	"strings"

	"github.com/pluots/udf-suite/pkg/udf"
)

// CreateStatement returns the CREATE FUNCTION statement for d loaded from
// soname. orReplace uses MariaDB's CREATE OR REPLACE form.
func CreateStatement(d *udf.Definition, soname string, orReplace bool) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if orReplace {
		b.WriteString("OR REPLACE ")
	}
	if d.Kind == udf.KindAggregate {
		b.WriteString("AGGREGATE ")
	}
	b.WriteString("FUNCTION ")
	b.WriteString(d.Name)
	b.WriteString(" RETURNS ")
	b.WriteString(d.Returns.ReturnsKeyword())
	b.WriteString(" SONAME ")
	b.WriteString(quote(soname))
	return b.String()
}

// DropStatement returns the statement that removes name if present.
func DropStatement(name string) string {
	return "DROP FUNCTION IF EXISTS " + name
}

// Script returns the statements that install defs, one per line with
// terminating semicolons, in the order Install runs them.
func Script(defs []*udf.Definition, soname string, orReplace bool) string {
	var b strings.Builder
	for _, stmt := range installStatements(defs, soname, orReplace) {
		b.WriteString(stmt)
		b.WriteString(";\n")
	}
	return b.String()
}

// DropScript returns the statements that uninstall defs.
func DropScript(defs []*udf.Definition) string {
	var b strings.Builder
	for _, d := range defs {
		b.WriteString(DropStatement(d.Name))
		b.WriteString(";\n")
	}
	return b.String()
}

func installStatements(defs []*udf.Definition, soname string, orReplace bool) []string {
	stmts := make([]string, 0, 2*len(defs))
	for _, d := range defs {
		if !orReplace {
			stmts = append(stmts, DropStatement(d.Name))
		}
		stmts = append(stmts, CreateStatement(d, soname, orReplace))
	}
	return stmts
}

// quote returns s as a single-quoted SQL string literal.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
