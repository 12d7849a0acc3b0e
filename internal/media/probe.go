package media

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
)

// Prober measures media duration with ffprobe.
type Prober struct {
	binPath string
	runner  Runner
	logger  *slog.Logger
}

func NewProber(binPath string, runner Runner, logger *slog.Logger) *Prober {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{binPath: binPath, runner: runner, logger: logger}
}

// Duration returns the media duration in seconds. Duration is advisory
// (it only feeds efficiency metrics), so every failure degrades to 0
// instead of propagating.
func (p *Prober) Duration(ctx context.Context, path string) float64 {
	out, err := p.runner.Run(ctx, p.binPath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		p.logger.Warn("ffprobe failed, assuming zero duration", "path", path, "err", err)
		return 0
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(out.Stdout), 64)
	if err != nil || seconds < 0 {
		p.logger.Warn("ffprobe returned unparseable duration", "path", path, "output", strings.TrimSpace(out.Stdout))
		return 0
	}
	return seconds
}
