package uuid

import (
	"github.com/google/uuid"

	"github.com/pluots/udf-suite/pkg/udf"
)

// generator is shared by the parameterless generators. next produces one
// UUID per row.
type generator struct {
	name string
	next func() (uuid.UUID, error)
	buf  [HyphenatedLen]byte
}

func (g *generator) Process(*udf.ProcessConfig, *udf.ProcessArgs) (udf.Value, error) {
	u, err := g.next()
	if err != nil {
		udf.Logf(udf.LogWarning, "%s: %v", g.name, err)
		return udf.Value{}, udf.ErrProcess
	}
	return udf.Text(encode(&g.buf, u)), nil
}

func newGenerator(name string, next func() (uuid.UUID, error)) udf.Constructor {
	return func(cfg *udf.InitConfig, args *udf.InitArgs) (udf.Func, error) {
		if err := udf.ValidateArgCount(args.Len(), 0, name); err != nil {
			return nil, err
		}
		cfg.SetMaxLen(HyphenatedLen)
		cfg.SetMaybeNull(false)
		return &generator{name: name, next: next}, nil
	}
}

var (
	newGenerateV1 = newGenerator("uuid_generate_v1", func() (uuid.UUID, error) {
		u, err := uuid.NewUUID()
		if err != nil {
			return u, err
		}
		setNode(&u, hardwareNode())
		return u, nil
	})

	// Version 1 with a random multicast node instead of the hardware address.
	newGenerateV1mc = newGenerator("uuid_generate_v1mc", func() (uuid.UUID, error) {
		u, err := uuid.NewUUID()
		if err != nil {
			return u, err
		}
		node := randomNode()
		node[0], node[1], node[2] = 0x01, 0x00, 0x5e
		setNode(&u, node)
		return u, nil
	})

	newGenerateV4 = newGenerator("uuid_generate_v4", uuid.NewRandom)

	newGenerateV7 = newGenerator("uuid_generate_v7", uuid.NewV7)
)

const v6Usage = "`uuid_generate_v6()` or `uuid_generate_v6(node_id)`"

// generateV6 is the reordered time-based version, with the node taken from
// the optional argument or generated per row.
type generateV6 struct {
	buf [HyphenatedLen]byte
}

func newGenerateV6(cfg *udf.InitConfig, args *udf.InitArgs) (udf.Func, error) {
	if err := udf.ValidateArgRange(args.Len(), 0, 1, "uuid_generate_v6", v6Usage); err != nil {
		return nil, err
	}
	if arg, ok := args.Get(0); ok {
		arg.SetTypeCoercion(udf.TypeString)
	}
	cfg.SetMaxLen(HyphenatedLen)
	return &generateV6{}, nil
}

func (g *generateV6) Process(_ *udf.ProcessConfig, args *udf.ProcessArgs) (udf.Value, error) {
	var node [6]byte
	if arg, ok := args.Get(0); ok {
		b, ok := arg.Value().AsBytes()
		if !ok || len(b) != len(node) {
			udf.Logf(udf.LogWarning, "uuid_generate_v6 expected argument of length 6; got %d", len(b))
			return udf.Value{}, udf.ErrProcess
		}
		copy(node[:], b)
	} else {
		node = randomNode()
	}

	u, err := uuid.NewV6()
	if err != nil {
		udf.Logf(udf.LogWarning, "uuid_generate_v6: %v", err)
		return udf.Value{}, udf.ErrProcess
	}
	setNode(&u, node)
	return udf.Text(encode(&g.buf, u)), nil
}
