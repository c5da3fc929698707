package gapbuffer

// DefaultChunkSize is the growth granularity used when no option overrides it.
const DefaultChunkSize = 64

// Option is a functional option for configuring a GapBuffer.
type Option func(*GapBuffer)

// WithChunkSize sets the growth granularity. Non-positive sizes are ignored.
func WithChunkSize(size int) Option {
	return func(b *GapBuffer) {
		if size > 0 {
			b.chunk = size
		}
	}
}
