package flexbuffers

// ShareFlags controls which interning pools a Builder consults before
// emitting a key or string. Values compose as a bitmask, ordered so
// comparisons against the flag thresholds in the FlexBuffers reference
// implementation (>= ShareKeys, >= ShareKeysAndStrings) read naturally.
type ShareFlags uint8

const (
	ShareNone           ShareFlags = 0
	ShareKeys           ShareFlags = 1
	ShareStrings        ShareFlags = 2
	ShareKeysAndStrings ShareFlags = ShareKeys | ShareStrings
	ShareKeyVectors     ShareFlags = 4
	ShareAll            ShareFlags = ShareKeysAndStrings | ShareKeyVectors
)

func (f ShareFlags) sharesKeys() bool    { return f >= ShareKeys }
func (f ShareFlags) sharesStrings() bool { return f >= ShareKeysAndStrings }

// defaultMaxBufferSize caps builder growth at 2GiB, matching the ceiling
// the FlexBuffers reference implementation carries (commented out there,
// enforced here) because back-offsets beyond 1<<31 behave unpredictably
// on 32 bit platforms.
const defaultMaxBufferSize = 1 << 31

// BuilderOptions configures a Builder. Use New or NewWithOptions; the
// zero value is not a usable configuration on its own (InitialSize of 0
// is fine, it just means "start small").
type BuilderOptions struct {
	Flags         ShareFlags
	InitialSize   int
	MinBitWidth   BitWidth
	MaxBufferSize int
}

// Option mutates a *BuilderOptions. Implementations type-assert their
// target the way massifs.Option does, so a single Option type can in
// principle be shared across configurable components in this module.
type Option func(any)

func WithFlags(flags ShareFlags) Option {
	return func(o any) {
		if opts, ok := o.(*BuilderOptions); ok {
			opts.Flags = flags
		}
	}
}

func WithInitialSize(size int) Option {
	return func(o any) {
		if opts, ok := o.(*BuilderOptions); ok {
			opts.InitialSize = size
		}
	}
}

func WithMinBitWidth(width BitWidth) Option {
	return func(o any) {
		if opts, ok := o.(*BuilderOptions); ok {
			opts.MinBitWidth = width
		}
	}
}

func WithMaxBufferSize(size int) Option {
	return func(o any) {
		if opts, ok := o.(*BuilderOptions); ok {
			opts.MaxBufferSize = size
		}
	}
}

func newBuilderOptions(opts ...Option) BuilderOptions {
	o := BuilderOptions{
		Flags:         ShareNone,
		InitialSize:   256,
		MinBitWidth:   BitWidth8,
		MaxBufferSize: defaultMaxBufferSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
