package udf

// Max length presets matching the server's BLOB column widths.
const (
	MaxLenTinyBlob   uint64 = 255
	MaxLenBlob       uint64 = 65535
	MaxLenMediumBlob uint64 = 16777215
	MaxLenLongBlob   uint64 = 4294967295
)

// Settings is the per-statement configuration negotiated during init. The
// glue copies it into the engine's UDF_INIT when init returns.
type Settings struct {
	MaxLen    uint64
	Decimals  uint32
	IsConst   bool
	MaybeNull bool
}

// InitConfig is the configuration handle passed to a Constructor. It is the
// only way to change Settings.
type InitConfig struct {
	s *Settings
}

// SetMaxLen sets the maximum result length in bytes.
func (c *InitConfig) SetMaxLen(n uint64) { c.s.MaxLen = n }

// SetIsConst marks the result as the same for every row, letting the engine
// call process once and reuse the result.
func (c *InitConfig) SetIsConst(b bool) { c.s.IsConst = b }

// SetDecimals sets the number of digits after the decimal point for REAL
// and DECIMAL results.
func (c *InitConfig) SetDecimals(n uint32) { c.s.Decimals = n }

// SetMaybeNull declares whether the function can return NULL.
func (c *InitConfig) SetMaybeNull(b bool) { c.s.MaybeNull = b }

// ProcessConfig is a read-only snapshot of Settings taken when init
// returned. Changing configuration after init would have no effect on the
// engine, so there are no setters.
type ProcessConfig struct {
	s Settings
}

// MaxLen returns the maximum result length set during init.
func (c *ProcessConfig) MaxLen() uint64 { return c.s.MaxLen }

// Decimals returns the number of digits after the decimal point.
func (c *ProcessConfig) Decimals() uint32 { return c.s.Decimals }

// IsConst reports whether the result was declared constant.
func (c *ProcessConfig) IsConst() bool { return c.s.IsConst }

// MaybeNull reports whether the function may return NULL.
func (c *ProcessConfig) MaybeNull() bool { return c.s.MaybeNull }

// Settings returns the whole snapshot.
func (c *ProcessConfig) Settings() Settings { return c.s }
