package infra

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpegTools implements duration probing (ffprobe) and chunk slicing
// (ffmpeg) against local media files.
type FFmpegTools struct {
	ffmpegBin  string
	ffprobeBin string
}

func NewFFmpegTools(ffmpegBin, ffprobeBin string) *FFmpegTools {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	return &FFmpegTools{ffmpegBin: ffmpegBin, ffprobeBin: ffprobeBin}
}

func (t *FFmpegTools) Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, t.ffprobeBin,
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		path,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}

	dur, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: parse duration: %w", path, err)
	}
	return dur, nil
}

func (t *FFmpegTools) EncodeSlice(ctx context.Context, src, dst string, start, duration float64) error {
	cmd := exec.CommandContext(ctx, t.ffmpegBin,
		"-y",
		"-loglevel", "error",
		"-ss", formatSeconds(start),
		"-i", src,
		"-t", formatSeconds(duration),
		"-vn",
		dst,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg slice %s: %w: %s", dst, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
