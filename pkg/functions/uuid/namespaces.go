package uuid

import (
	"github.com/google/uuid"

	"github.com/pluots/udf-suite/pkg/udf"
)

// constantUUID returns the same text for every row.
type constantUUID struct {
	text []byte
}

func (c *constantUUID) Process(*udf.ProcessConfig, *udf.ProcessArgs) (udf.Value, error) {
	return udf.Text(c.text), nil
}

func constant(name string, u uuid.UUID) udf.Constructor {
	var buf [HyphenatedLen]byte
	text := encode(&buf, u)

	return func(cfg *udf.InitConfig, args *udf.InitArgs) (udf.Func, error) {
		if err := udf.ValidateArgCount(args.Len(), 0, name); err != nil {
			return nil, err
		}
		cfg.SetIsConst(true)
		cfg.SetMaxLen(HyphenatedLen)
		cfg.SetMaybeNull(false)
		return &constantUUID{text: text}, nil
	}
}
