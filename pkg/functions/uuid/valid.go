package uuid

import (
	"github.com/google/uuid"

	"github.com/pluots/udf-suite/pkg/udf"
)

// isValid reports 1 for text that parses as a UUID once hyphens are
// removed, and 0 otherwise, including for NULL.
type isValid struct {
	buf []byte
}

func newIsValid(cfg *udf.InitConfig, args *udf.InitArgs) (udf.Func, error) {
	if err := udf.ValidateArgCount(args.Len(), 1, "uuid_is_valid"); err != nil {
		return nil, err
	}
	arg, _ := args.Get(0)
	arg.SetTypeCoercion(udf.TypeString)
	cfg.SetMaybeNull(false)
	return &isValid{}, nil
}

func (v *isValid) Process(_ *udf.ProcessConfig, args *udf.ProcessArgs) (udf.Value, error) {
	in, ok := args.Value(0).AsBytes()
	if !ok {
		return udf.Int(0), nil
	}

	v.buf = v.buf[:0]
	for _, c := range in {
		if c != '-' {
			v.buf = append(v.buf, c)
		}
	}
	if _, err := uuid.ParseBytes(v.buf); err != nil {
		return udf.Int(0), nil
	}
	return udf.Int(1), nil
}
