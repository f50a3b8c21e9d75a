package domain

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"chronicle/internal/ports"
)

// Chunk is one time slice of a source file. Start and Duration are seconds;
// Duration is zero when the source was small enough to pass through whole.
type Chunk struct {
	Path     string
	Start    float64
	Duration float64
}

// Chunker splits an audio file into slices that fit under the speech-to-text
// request size limit. The split is by time, not byte-accurate boundaries, so
// individual slices can land slightly over or under the budget.
type Chunker struct {
	probe    ports.DurationProber
	enc      ports.ChunkEncoder
	storage  ports.FileStorage
	maxBytes int64
}

func NewChunker(probe ports.DurationProber, enc ports.ChunkEncoder, storage ports.FileStorage, maxBytes int64) *Chunker {
	return &Chunker{
		probe:    probe,
		enc:      enc,
		storage:  storage,
		maxBytes: maxBytes,
	}
}

// Split writes sibling chunk files next to the source and returns them in
// order. The source itself is never written or removed. On any probe or
// encode failure the whole split fails; files already produced are left on
// disk for the caller to clean up.
func (c *Chunker) Split(ctx context.Context, path string) ([]Chunk, error) {
	size, err := c.storage.Size(path)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}

	if size <= c.maxBytes {
		log.Printf("[chunker] %s is %d bytes, under budget, no split", filepath.Base(path), size)
		return []Chunk{{Path: path}}, nil
	}

	total, err := c.probe.Duration(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("probe duration: %w", err)
	}

	numChunks := int((size + c.maxBytes - 1) / c.maxBytes)
	chunkDur := total / float64(numChunks)

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	chunks := make([]Chunk, numChunks)
	for i := range chunks {
		chunks[i] = Chunk{
			Path:     fmt.Sprintf("%s_chunk%d%s", base, i, ext),
			Start:    float64(i) * chunkDur,
			Duration: chunkDur,
		}
	}

	log.Printf("[chunker] splitting %s into %d chunks of ~%.2fs", filepath.Base(path), numChunks, chunkDur)

	// Each encode writes its own output file, so they can run concurrently.
	g, gctx := errgroup.WithContext(ctx)
	for _, ch := range chunks {
		g.Go(func() error {
			if err := c.enc.EncodeSlice(gctx, path, ch.Path, ch.Start, ch.Duration); err != nil {
				return fmt.Errorf("encode chunk %s: %w", filepath.Base(ch.Path), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return chunks, nil
}
