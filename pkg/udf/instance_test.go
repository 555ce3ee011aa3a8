package udf_test

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pluots/udf-suite/pkg/emulate"
	"github.com/pluots/udf-suite/pkg/errors"
	"github.com/pluots/udf-suite/pkg/log"
	"github.com/pluots/udf-suite/pkg/udf"
)

// counter records lifecycle calls made on its instances.
type counter struct {
	processed int
	torn      int
}

type countingFunc struct {
	c   *counter
	buf []byte
}

func (f *countingFunc) Process(_ *udf.ProcessConfig, args *udf.ProcessArgs) (udf.Value, error) {
	f.c.processed++
	v := args.Value(0)
	if v.IsNull() {
		return udf.Null(udf.TypeString), nil
	}
	s, ok := v.AsBytes()
	if !ok {
		udf.Logf(udf.LogWarning, "echo expects a string")
		return udf.Value{}, udf.ErrProcess
	}
	if string(s) == "panic" {
		panic("boom")
	}
	f.buf = append(f.buf[:0], s...)
	return udf.Text(f.buf), nil
}

func (f *countingFunc) Teardown() { f.c.torn++ }

func echoDef(c *counter) *udf.Definition {
	return &udf.Definition{
		Name:    "echo",
		Returns: udf.TypeString,
		New: func(cfg *udf.InitConfig, args *udf.InitArgs) (udf.Func, error) {
			if err := udf.ValidateArgCount(args.Len(), 1, "echo"); err != nil {
				return nil, err
			}
			arg, _ := args.Get(0)
			arg.SetTypeCoercion(udf.TypeString)
			arg.SetTypeCoercion(udf.TypeString)
			cfg.SetMaxLen(udf.MaxLenBlob)
			return &countingFunc{c: c}, nil
		},
	}
}

func TestArityMessage(t *testing.T) {
	tests := []struct {
		got  int
		want string
	}{
		{0, "echo takes 1 argument but got 0"},
		{2, "echo takes 1 argument but got 2"},
	}

	for _, tt := range tests {
		args := make([]emulate.Arg, tt.got)
		for i := range args {
			args[i] = emulate.Column(udf.TextString("x"), "x")
		}
		_, err := emulate.Init(echoDef(&counter{}), args...)
		if err == nil {
			t.Fatalf("init with %d args succeeded", tt.got)
		}
		if msg := udf.InitMessage(err); msg != tt.want {
			t.Errorf("InitMessage() = %q, want %q", msg, tt.want)
		}
		if !errors.IsCode(err, errors.ErrCodeArgCount) {
			t.Errorf("code = %v", errors.GetCode(err))
		}
	}
}

func TestValidateArgRange(t *testing.T) {
	err := udf.ValidateArgRange(3, 1, 2, "uuid_to_bin", "`uuid_to_bin(str)`")
	want := "uuid_to_bin takes 1 or 2 arguments but got 3 (usage: `uuid_to_bin(str)`)"
	if msg := udf.InitMessage(err); msg != want {
		t.Errorf("got %q, want %q", msg, want)
	}
	if udf.ValidateArgRange(2, 1, 2, "f", "") != nil {
		t.Error("2 is within [1, 2]")
	}
	err = udf.ValidateArgRange(2, 0, 1, "uuid_generate_v6", "")
	if msg := udf.InitMessage(err); msg != "uuid_generate_v6 takes 0 or 1 arguments but got 2" {
		t.Errorf("got %q", msg)
	}
	err = udf.ValidateArgRange(5, 0, 3, "f", "")
	if msg := udf.InitMessage(err); msg != "f takes 0 to 3 arguments but got 5" {
		t.Errorf("got %q", msg)
	}
}

func TestCoercionAndSettingsNegotiated(t *testing.T) {
	st, err := emulate.Init(echoDef(&counter{}), emulate.Column(udf.Int(5), "n"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	if got := st.ArgTypes(); len(got) != 1 || got[0] != udf.TypeString {
		t.Errorf("ArgTypes() = %v", got)
	}
	if st.Settings().MaxLen != udf.MaxLenBlob {
		t.Errorf("MaxLen = %d", st.Settings().MaxLen)
	}

	v, err := st.ProcessRow(udf.Int(42))
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := v.AsString(); s != "42" {
		t.Errorf("coerced value = %v", v)
	}
}

func TestTeardownExactlyOnce(t *testing.T) {
	for _, rows := range []int{0, 1, 5} {
		c := &counter{}
		st, err := emulate.Init(echoDef(c), emulate.Column(udf.TextString("a"), "a"))
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < rows; i++ {
			if _, err := st.Process(); err != nil {
				t.Fatal(err)
			}
		}
		st.Close()
		st.Close()

		if c.processed != rows || c.torn != 1 {
			t.Errorf("rows=%d: processed=%d torn=%d", rows, c.processed, c.torn)
		}
	}
}

func TestProcessAfterCloseFails(t *testing.T) {
	st, err := emulate.Init(echoDef(&counter{}), emulate.Column(udf.TextString("a"), "a"))
	if err != nil {
		t.Fatal(err)
	}
	st.Close()

	v, err := st.Process()
	if !errors.IsCode(err, errors.ErrCodeWrongPhase) {
		t.Errorf("err = %v", err)
	}
	if !v.IsNull() {
		t.Errorf("v = %v, want NULL", v)
	}
}

func TestPanicBecomesRowFailure(t *testing.T) {
	c := &counter{}
	st, err := emulate.Init(echoDef(c), emulate.Column(udf.TextString("a"), "a"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	v, err := st.ProcessRow(udf.TextString("panic"))
	if !errors.IsCode(err, errors.ErrCodePanic) {
		t.Fatalf("err = %v", err)
	}
	if !v.IsNull() {
		t.Errorf("v = %v, want NULL", v)
	}

	// The statement continues.
	v, err = st.ProcessRow(udf.TextString("ok"))
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := v.AsString(); s != "ok" {
		t.Errorf("v = %v", v)
	}
}

func TestPanicDuringInitBecomesInitError(t *testing.T) {
	def := &udf.Definition{
		Name:    "bad_init",
		Returns: udf.TypeInt,
		New: func(*udf.InitConfig, *udf.InitArgs) (udf.Func, error) {
			var m map[string]int
			m["x"] = 1
			return nil, nil
		},
	}

	_, err := emulate.Init(def)
	if !errors.IsCode(err, errors.ErrCodePanic) {
		t.Fatalf("err = %v", err)
	}
	if msg := udf.InitMessage(err); !strings.Contains(msg, "bad_init.init") {
		t.Errorf("message %q should name the function", msg)
	}
}

func TestBareErrProcess(t *testing.T) {
	st, err := emulate.Init(echoDef(&counter{}), emulate.Column(udf.TextString("a"), "a"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	// Bypass coercion by handing the instance a frame directly.
	frame := udf.NewFrame(1)
	frame.Slots[0].Value = udf.Int(1)
	frame.Slots[0].Type = udf.TypeString

	_, err = st.Instance().Process(frame)
	if !stderrors.Is(err, udf.ErrProcess) {
		t.Errorf("err = %v", err)
	}
}

func TestArgCountChangeIsRejected(t *testing.T) {
	st, err := emulate.Init(echoDef(&counter{}), emulate.Column(udf.TextString("a"), "a"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	_, err = st.Instance().Process(udf.NewFrame(2))
	if !errors.IsCode(err, errors.ErrCodeWrongPhase) {
		t.Errorf("err = %v", err)
	}
}

type wrongType struct{}

func (wrongType) Process(*udf.ProcessConfig, *udf.ProcessArgs) (udf.Value, error) {
	return udf.Int(1), nil
}

func TestResultTypeMismatch(t *testing.T) {
	def := &udf.Definition{
		Name:    "declared_string",
		Returns: udf.TypeString,
		New: func(*udf.InitConfig, *udf.InitArgs) (udf.Func, error) {
			return wrongType{}, nil
		},
	}

	_, err := emulate.Call(def, nil)
	if !errors.IsCode(err, errors.ErrCodeProcessFailed) {
		t.Errorf("err = %v", err)
	}
}

// sum is a minimal aggregate over one integer column.
type sum struct {
	total int64
	rows  int
}

func (s *sum) Clear(*udf.ProcessConfig) error {
	s.total, s.rows = 0, 0
	return nil
}

func (s *sum) Add(_ *udf.ProcessConfig, args *udf.ProcessArgs) error {
	v, ok := args.Value(0).AsInt()
	if !ok {
		return nil
	}
	if v < 0 {
		return errors.BadRow("sum_pos", "negative input").Err()
	}
	s.total += v
	s.rows++
	return nil
}

func (s *sum) Process(*udf.ProcessConfig, *udf.ProcessArgs) (udf.Value, error) {
	if s.rows == 0 {
		return udf.Null(udf.TypeInt), nil
	}
	return udf.Int(s.total), nil
}

var sumDef = &udf.Definition{
	Name:    "sum_pos",
	Kind:    udf.KindAggregate,
	Returns: udf.TypeInt,
	New: func(_ *udf.InitConfig, args *udf.InitArgs) (udf.Func, error) {
		if err := udf.ValidateArgCount(args.Len(), 1, "sum_pos"); err != nil {
			return nil, err
		}
		arg, _ := args.Get(0)
		arg.SetTypeCoercion(udf.TypeInt)
		return &sum{}, nil
	},
}

func TestAggregateGroups(t *testing.T) {
	got, err := emulate.Aggregate(sumDef,
		[]emulate.Arg{emulate.Column(udf.Int(0), "n")},
		[][]udf.Value{{udf.Int(1)}, {udf.TextString("2")}, {udf.Null(udf.TypeInt)}},
		[][]udf.Value{},
		[][]udf.Value{{udf.Int(5)}, {udf.Int(-1)}, {udf.Int(5)}},
		[][]udf.Value{{udf.Int(7)}},
	)
	if err != nil {
		t.Fatal(err)
	}

	want := []udf.Value{udf.Int(3), udf.Null(udf.TypeInt), udf.Null(udf.TypeInt), udf.Int(7)}
	if len(got) != len(want) {
		t.Fatalf("got %d groups", len(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("group %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScalarInstanceRejectsAggregateCalls(t *testing.T) {
	st, err := emulate.Init(echoDef(&counter{}), emulate.Column(udf.TextString("a"), "a"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	if err := st.Clear(); !errors.IsCode(err, errors.ErrCodeWrongPhase) {
		t.Errorf("Clear() = %v", err)
	}
}

func TestAggregateConstructorMustReturnAggregate(t *testing.T) {
	def := &udf.Definition{
		Name:    "not_agg",
		Kind:    udf.KindAggregate,
		Returns: udf.TypeInt,
		New: func(*udf.InitConfig, *udf.InitArgs) (udf.Func, error) {
			return wrongType{}, nil
		},
	}
	if _, err := emulate.Init(def); !errors.IsCode(err, errors.ErrCodeInternal) {
		t.Errorf("err = %v", err)
	}
}

func TestInitMessageTruncation(t *testing.T) {
	long := strings.Repeat("é", udf.MaxMessageLen)
	msg := udf.InitMessage(stderrors.New(long))

	if len(msg) > udf.MaxMessageLen-1 {
		t.Errorf("len = %d", len(msg))
	}
	if !utf8.ValidString(msg) {
		t.Error("truncation split a UTF-8 sequence")
	}
	if udf.InitMessage(stderrors.New("")) == "" {
		t.Error("empty messages get a default")
	}
}

// failWith returns err from every Process call.
type failWith struct{ err error }

func (f failWith) Process(*udf.ProcessConfig, *udf.ProcessArgs) (udf.Value, error) {
	return udf.Value{}, f.err
}

func TestRowFailureLogging(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		logged  bool
		message string
	}{
		{"bare ErrProcess", udf.ErrProcess, false, ""},
		{"coded failure", errors.New(errors.ErrCodeProcessFailed, "bad row").Err(), true, "bad row"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := log.DefaultConfig()
			cfg.Output = &buf
			cfg.Format = log.FormatText
			cfg.DefaultLevel = log.LevelInfo
			l := log.New(cfg)
			defer l.Close()

			udf.SetLogger(l)
			defer udf.SetLogger(nil)

			def := &udf.Definition{
				Name:    "failing",
				Returns: udf.TypeString,
				New: func(*udf.InitConfig, *udf.InitArgs) (udf.Func, error) {
					return failWith{tt.err}, nil
				},
			}
			if _, err := emulate.Call(def, nil); err == nil {
				t.Fatal("expected a row failure")
			}

			out := buf.String()
			if got := strings.Contains(out, "process failed"); got != tt.logged {
				t.Errorf("logged = %v, want %v; output %q", got, tt.logged, out)
			}
			if !strings.Contains(out, tt.message) {
				t.Errorf("output %q should contain %q", out, tt.message)
			}
		})
	}
}
