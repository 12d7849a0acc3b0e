package media

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Canonical decoding target expected by the transcription provider.
const (
	canonicalExt        = ".wav"
	canonicalSampleRate = "16000"
	canonicalChannels   = "1"
)

// ConvertResult describes the outcome of a conversion.
type ConvertResult struct {
	// Path of the canonical artifact. Equal to the input path when the
	// conversion was skipped.
	Path string
	// Skipped is true for the identity pass-through case.
	Skipped bool
}

// Converter normalizes input audio into 16 kHz mono WAV with ffmpeg.
type Converter struct {
	binPath string
	runner  Runner
}

func NewConverter(binPath string, runner Runner) *Converter {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Converter{binPath: binPath, runner: runner}
}

// Convert produces `<base>.wav` next to the input file. Inputs that are
// already canonical WAV are passed through untouched. Conversion failure is
// fatal for the owning job; the caller decides disposition.
func (c *Converter) Convert(ctx context.Context, inputPath string) (ConvertResult, error) {
	if isCanonical(inputPath) {
		return ConvertResult{Path: inputPath, Skipped: true}, nil
	}

	outputPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + canonicalExt
	_, err := c.runner.Run(ctx, c.binPath,
		"-y",
		"-i", inputPath,
		"-vn",
		"-ar", canonicalSampleRate,
		"-ac", canonicalChannels,
		"-f", "wav",
		outputPath,
	)
	if err != nil {
		return ConvertResult{}, fmt.Errorf("convert %s: %w", filepath.Base(inputPath), err)
	}
	return ConvertResult{Path: outputPath}, nil
}

// isCanonical sniffs the file content; extension is only the fallback when
// the file cannot be read.
func isCanonical(path string) bool {
	if m, err := mimetype.DetectFile(path); err == nil {
		return m.Is("audio/wav")
	}
	return strings.EqualFold(filepath.Ext(path), canonicalExt)
}
