package ports

import "context"

// DurationProber returns the total duration of a media file in seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// ChunkEncoder re-encodes a time slice of src into dst: fixed start offset
// plus duration, both in seconds. Each call writes a distinct output file.
type ChunkEncoder interface {
	EncodeSlice(ctx context.Context, src, dst string, start, duration float64) error
}
