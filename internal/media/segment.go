package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Segment is one bounded-duration slice of normalized audio.
type Segment struct {
	Index int
	Path  string
}

// Segmenter splits a WAV file into fixed-duration parts with ffmpeg's
// stream-copy segment muxer.
type Segmenter struct {
	binPath        string
	segmentSeconds int
	runner         Runner
}

func NewSegmenter(binPath string, segmentSeconds int, runner Runner) *Segmenter {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Segmenter{binPath: binPath, segmentSeconds: segmentSeconds, runner: runner}
}

// Split writes parte_000.wav, parte_001.wav, ... into dir and returns them
// ordered by index. The zero-padded naming makes the lexical sort equal to
// the numeric one.
func (s *Segmenter) Split(ctx context.Context, wavPath, dir string) ([]Segment, error) {
	pattern := filepath.Join(dir, "parte_%03d"+canonicalExt)
	_, err := s.runner.Run(ctx, s.binPath,
		"-i", wavPath,
		"-f", "segment",
		"-segment_time", strconv.Itoa(s.segmentSeconds),
		"-c", "copy",
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("segment %s: %w", filepath.Base(wavPath), err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read segment dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), canonicalExt) {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("segmentation produced no parts in %s", dir)
	}
	sort.Strings(names)

	segments := make([]Segment, len(names))
	for i, name := range names {
		segments[i] = Segment{Index: i, Path: filepath.Join(dir, name)}
	}
	return segments, nil
}
