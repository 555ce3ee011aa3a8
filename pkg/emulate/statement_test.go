package emulate

import (
	"testing"

	"github.com/pluots/udf-suite/pkg/udf"
)

// initProbe records what it saw during init.
type initProbe struct {
	seen   []udf.Value
	consts []bool
}

func (p *initProbe) def() *udf.Definition {
	return &udf.Definition{
		Name:    "probe",
		Returns: udf.TypeInt,
		New: func(_ *udf.InitConfig, args *udf.InitArgs) (udf.Func, error) {
			for _, a := range args.All() {
				p.seen = append(p.seen, a.Value())
				p.consts = append(p.consts, a.IsConst())
			}
			return p, nil
		},
	}
}

func (p *initProbe) Process(_ *udf.ProcessConfig, args *udf.ProcessArgs) (udf.Value, error) {
	return udf.Int(int64(args.Len())), nil
}

func TestInitSeesOnlyConstants(t *testing.T) {
	p := &initProbe{}
	st, err := Init(p.def(), Literal(udf.Int(1), "1"), Column(udf.TextString("x"), "c"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	if !p.seen[0].Equal(udf.Int(1)) || !p.consts[0] {
		t.Errorf("literal = %v const=%v", p.seen[0], p.consts[0])
	}
	if !p.seen[1].IsNull() || p.seen[1].Type() != udf.TypeString || p.consts[1] {
		t.Errorf("column = %v const=%v", p.seen[1], p.consts[1])
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings([]Arg{Literal(udf.Int(1), "1")})
	if s.MaybeNull {
		t.Error("a non-NULL literal cannot be NULL")
	}
	s = DefaultSettings([]Arg{Literal(udf.Int(1), "1"), Column(udf.Int(0), "c")})
	if !s.MaybeNull {
		t.Error("a column may be NULL")
	}
}

func TestProcessRowCountMismatch(t *testing.T) {
	p := &initProbe{}
	st, err := Init(p.def(), Column(udf.Int(0), "c"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	v, err := st.ProcessRow(udf.Int(1), udf.Int(2))
	if err == nil {
		t.Fatal("expected an error for two values against one argument")
	}
	if !v.IsNull() {
		t.Errorf("v = %v", v)
	}
}

func TestCallCopiesResults(t *testing.T) {
	def := &udf.Definition{
		Name:    "reuse",
		Returns: udf.TypeString,
		New: func(_ *udf.InitConfig, args *udf.InitArgs) (udf.Func, error) {
			return &reuseBuf{}, nil
		},
	}

	got, err := Call(def, []Arg{Column(udf.TextString(""), "c")},
		[]udf.Value{udf.TextString("first")},
		[]udf.Value{udf.TextString("second")},
	)
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := got[0].AsString(); s != "first" {
		t.Errorf("got[0] = %q, was overwritten by a later row", s)
	}
	if s, _ := got[1].AsString(); s != "second" {
		t.Errorf("got[1] = %q", s)
	}
}

// reuseBuf returns its argument through one buffer shared by all rows.
type reuseBuf struct{ buf [16]byte }

func (r *reuseBuf) Process(_ *udf.ProcessConfig, args *udf.ProcessArgs) (udf.Value, error) {
	b, _ := args.Value(0).AsBytes()
	n := copy(r.buf[:], b)
	for i := n; i < len(r.buf); i++ {
		r.buf[i] = 0
	}
	return udf.Text(r.buf[:n]), nil
}
