package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestSplitUnderBudgetPassesThrough(t *testing.T) {
	storage := newMemStorage()
	storage.files["/media/session.mp3"] = make([]byte, 10)

	probe := &fakeProber{dur: 300}
	enc := &fakeEncoder{storage: storage}
	c := NewChunker(probe, enc, storage, 100)

	chunks, err := c.Split(context.Background(), "/media/session.mp3")
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Path != "/media/session.mp3" {
		t.Errorf("chunk path = %q, want the source path", chunks[0].Path)
	}
	if probe.calls != 0 {
		t.Errorf("duration probed %d times for an under-budget file", probe.calls)
	}
	if len(enc.calls) != 0 {
		t.Errorf("encoder ran %d times for an under-budget file", len(enc.calls))
	}
}

func TestSplitOverBudget(t *testing.T) {
	storage := newMemStorage()
	storage.files["/media/session.mp3"] = make([]byte, 250)

	probe := &fakeProber{dur: 1000}
	enc := &fakeEncoder{storage: storage}
	c := NewChunker(probe, enc, storage, 100)

	chunks, err := c.Split(context.Background(), "/media/session.mp3")
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	// 250 bytes over a 100-byte budget rounds up to 3 slices.
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	wantDur := 1000.0 / 3.0
	for i, ch := range chunks {
		wantPath := fmt.Sprintf("/media/session_chunk%d.mp3", i)
		if ch.Path != wantPath {
			t.Errorf("chunk %d path = %q, want %q", i, ch.Path, wantPath)
		}
		if math.Abs(ch.Start-float64(i)*wantDur) > 1e-9 {
			t.Errorf("chunk %d start = %f, want %f", i, ch.Start, float64(i)*wantDur)
		}
		if math.Abs(ch.Duration-wantDur) > 1e-9 {
			t.Errorf("chunk %d duration = %f, want %f", i, ch.Duration, wantDur)
		}
		if !storage.Exists(ch.Path) {
			t.Errorf("chunk %d file %q was not written", i, ch.Path)
		}
	}
	if len(enc.calls) != 3 {
		t.Errorf("encoder ran %d times, want 3", len(enc.calls))
	}
}

func TestSplitProbeFailure(t *testing.T) {
	storage := newMemStorage()
	storage.files["/media/session.mp3"] = make([]byte, 250)

	probe := &fakeProber{err: errors.New("ffprobe exited 1")}
	enc := &fakeEncoder{storage: storage}
	c := NewChunker(probe, enc, storage, 100)

	if _, err := c.Split(context.Background(), "/media/session.mp3"); err == nil {
		t.Fatal("expected an error when the duration probe fails")
	}
	if len(enc.calls) != 0 {
		t.Errorf("encoder ran %d times after a failed probe", len(enc.calls))
	}
}

func TestSplitEncodeFailure(t *testing.T) {
	storage := newMemStorage()
	storage.files["/media/session.mp3"] = make([]byte, 250)

	probe := &fakeProber{dur: 1000}
	enc := &fakeEncoder{storage: storage, err: errors.New("ffmpeg exited 1")}
	c := NewChunker(probe, enc, storage, 100)

	_, err := c.Split(context.Background(), "/media/session.mp3")
	if err == nil {
		t.Fatal("expected an error when an encode fails")
	}
	if !strings.Contains(err.Error(), "encode chunk") {
		t.Errorf("error %q does not name the failing step", err)
	}
}

func TestSplitMissingSource(t *testing.T) {
	storage := newMemStorage()
	c := NewChunker(&fakeProber{}, &fakeEncoder{storage: storage}, storage, 100)

	if _, err := c.Split(context.Background(), "/media/nope.mp3"); err == nil {
		t.Fatal("expected an error for a missing source file")
	}
}
