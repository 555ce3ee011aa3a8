package uuid

import (
	"github.com/google/uuid"

	"github.com/pluots/udf-suite/pkg/emulate"
	"github.com/pluots/udf-suite/pkg/errors"
	"github.com/pluots/udf-suite/pkg/udf"
)

const (
	toBinUsage   = "`uuid_to_bin(str_uuid)` or `uuid_to_bin(str_uuid, swap)`"
	fromBinUsage = "`uuid_from_bin(bin_uuid)` or `uuid_from_bin(bin_uuid, swap)`"
)

// Swapped layout: time_hi, time_mid, time_low, then the clock sequence and
// node. Time-based UUIDs sort by creation time in this form.
func swapToBin(dst *[BinaryLen]byte, u uuid.UUID) {
	copy(dst[0:2], u[6:8])
	copy(dst[2:4], u[4:6])
	copy(dst[4:8], u[0:4])
	copy(dst[8:], u[8:])
}

func swapFromBin(b []byte) uuid.UUID {
	var u uuid.UUID
	copy(u[0:4], b[4:8])
	copy(u[4:6], b[2:4])
	copy(u[6:8], b[0:2])
	copy(u[8:], b[8:])
	return u
}

// initSwap validates the optional swap flag. A constant must be 0 or 1; a
// column is checked per row.
func initSwap(cfg *udf.InitConfig, args *udf.InitArgs, name, usage string) error {
	if err := udf.ValidateArgRange(args.Len(), 1, 2, name, usage); err != nil {
		return err
	}
	arg, _ := args.Get(0)
	arg.SetTypeCoercion(udf.TypeString)
	isConst := arg.IsConst()

	if flag, ok := args.Get(1); ok {
		if flag.IsConst() && !validSwapConst(flag.Value()) {
			return errors.ArgValue(name, 1, "must be 0 or 1; got "+flag.Value().String()).Err()
		}
		isConst = isConst && flag.IsConst()
		flag.SetTypeCoercion(udf.TypeInt)
	}
	cfg.SetIsConst(isConst)
	return nil
}

// validSwapConst checks a constant flag as the integer the server will
// convert it to for every row, so '1x' reads as 1 and 'abc' as 0. NULL means
// no swap.
func validSwapConst(v udf.Value) bool {
	if v.IsNull() {
		return true
	}
	i, _ := emulate.Coerce(v, udf.TypeInt).AsInt()
	return i == 0 || i == 1
}

// swapFlag reads the per-row flag; NULL or absent means no swap.
func swapFlag(name string, args *udf.ProcessArgs) (bool, error) {
	i, ok := args.Value(1).AsInt()
	if !ok {
		return false, nil
	}
	switch i {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	udf.Logf(udf.LogWarning, "%s: swap flag must be 0 or 1; got %d", name, i)
	return false, udf.ErrProcess
}

// toBin converts text to the 16-byte form.
type toBin struct {
	buf [BinaryLen]byte
}

func newToBin(cfg *udf.InitConfig, args *udf.InitArgs) (udf.Func, error) {
	if err := initSwap(cfg, args, "uuid_to_bin", toBinUsage); err != nil {
		return nil, err
	}
	cfg.SetMaxLen(BinaryLen)
	return &toBin{}, nil
}

func (t *toBin) Process(_ *udf.ProcessConfig, args *udf.ProcessArgs) (udf.Value, error) {
	in, ok := args.Value(0).AsBytes()
	if !ok {
		return udf.Null(udf.TypeString), nil
	}
	swap, err := swapFlag("uuid_to_bin", args)
	if err != nil {
		return udf.Value{}, err
	}

	u, err := uuid.ParseBytes(in)
	if err != nil {
		udf.Logf(udf.LogWarning, "uuid input invalid: %x", in[:min(20, len(in))])
		return udf.Value{}, udf.ErrProcess
	}

	if swap {
		swapToBin(&t.buf, u)
	} else {
		t.buf = [BinaryLen]byte(u)
	}
	return udf.Text(t.buf[:]), nil
}

// fromBin converts the 16-byte form back to hyphenated text.
type fromBin struct {
	buf [HyphenatedLen]byte
}

func newFromBin(cfg *udf.InitConfig, args *udf.InitArgs) (udf.Func, error) {
	if err := initSwap(cfg, args, "uuid_from_bin", fromBinUsage); err != nil {
		return nil, err
	}
	cfg.SetMaxLen(HyphenatedLen)
	return &fromBin{}, nil
}

func (f *fromBin) Process(_ *udf.ProcessConfig, args *udf.ProcessArgs) (udf.Value, error) {
	in, ok := args.Value(0).AsBytes()
	if !ok {
		return udf.Null(udf.TypeString), nil
	}
	swap, err := swapFlag("uuid_from_bin", args)
	if err != nil {
		return udf.Value{}, err
	}
	if len(in) != BinaryLen {
		udf.Logf(udf.LogWarning, "uuid_from_bin expected %d bytes; got %d", BinaryLen, len(in))
		return udf.Value{}, udf.ErrProcess
	}

	var u uuid.UUID
	if swap {
		u = swapFromBin(in)
	} else {
		copy(u[:], in)
	}
	return udf.Text(encode(&f.buf, u)), nil
}
