package udf_test

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/pluots/udf-suite/pkg/errors"
	"github.com/pluots/udf-suite/pkg/log"
	"github.com/pluots/udf-suite/pkg/udf"
)

func noop(*udf.InitConfig, *udf.InitArgs) (udf.Func, error) { return wrongType{}, nil }

func TestNewRegistryValidation(t *testing.T) {
	tests := []struct {
		name string
		defs []udf.Definition
		code errors.Code
	}{
		{
			name: "ok",
			defs: []udf.Definition{
				{Name: "a", Returns: udf.TypeInt, New: noop},
				{Name: "b_2", Returns: udf.TypeString, New: noop},
			},
		},
		{
			name: "duplicate",
			defs: []udf.Definition{
				{Name: "a", Returns: udf.TypeInt, New: noop},
				{Name: "a", Returns: udf.TypeInt, New: noop},
			},
			code: errors.ErrCodeDuplicateFunc,
		},
		{
			name: "uppercase",
			defs: []udf.Definition{{Name: "Upper", Returns: udf.TypeInt, New: noop}},
			code: errors.ErrCodeConfigInvalid,
		},
		{
			name: "reserved suffix",
			defs: []udf.Definition{{Name: "thing_init", Returns: udf.TypeInt, New: noop}},
			code: errors.ErrCodeConfigInvalid,
		},
		{
			name: "no constructor",
			defs: []udf.Definition{{Name: "a", Returns: udf.TypeInt}},
			code: errors.ErrCodeConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := udf.NewRegistry(tt.defs...)
			if tt.code == 0 {
				if err != nil {
					t.Fatal(err)
				}
				if r.Len() != len(tt.defs) {
					t.Errorf("Len() = %d", r.Len())
				}
				return
			}
			if !errors.IsCode(err, tt.code) {
				t.Errorf("err = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestRegistryLookupAndSelect(t *testing.T) {
	r := udf.MustRegistry(
		udf.Definition{Name: "first", Returns: udf.TypeInt, New: noop},
		udf.Definition{Name: "second", Kind: udf.KindAggregate, Returns: udf.TypeString, New: noop},
	)

	if d, ok := r.Lookup("FIRST"); !ok || d.Name != "first" {
		t.Errorf("Lookup is case-insensitive")
	}

	all := r.All()
	if all[0].Name != "first" || all[1].Name != "second" {
		t.Errorf("All() lost registration order")
	}

	sel, err := r.Select([]string{"second"})
	if err != nil || len(sel) != 1 || sel[0].Name != "second" {
		t.Errorf("Select() = %v, %v", sel, err)
	}
	if _, err := r.Select([]string{"missing"}); !errors.IsCode(err, errors.ErrCodeUnknownFunc) {
		t.Errorf("Select(missing) = %v", err)
	}

	want := []string{"second", "second_init", "second_deinit", "second_clear", "second_add"}
	if got := all[1].Symbols(); !slices.Equal(got, want) {
		t.Errorf("Symbols() = %v", got)
	}
	if got := all[0].Symbols(); len(got) != 3 {
		t.Errorf("scalar Symbols() = %v", got)
	}
}

func TestLogfWritesRowCategory(t *testing.T) {
	var buf bytes.Buffer
	cfg := log.DefaultConfig()
	cfg.Output = &buf
	cfg.Format = log.FormatText
	cfg.DefaultLevel = log.LevelInfo
	l := log.New(cfg)
	defer l.Close()

	udf.SetLogger(l)
	defer udf.SetLogger(nil)

	udf.Logf(udf.LogWarning, "bad value %d", 7)
	udf.Logf(udf.LogNote, "note")

	out := buf.String()
	if !strings.Contains(out, "bad value 7") || !strings.Contains(out, "note") {
		t.Errorf("output = %q", out)
	}
}
