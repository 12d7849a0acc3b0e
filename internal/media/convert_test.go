package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// wavHeader is the RIFF/WAVE magic that content sniffing recognizes.
var wavHeader = append([]byte("RIFF\x24\x00\x00\x00WAVE"), []byte("fmt ")...)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestConvertIdentityPassThrough(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "entrevista.wav")
	writeFile(t, input, wavHeader)

	runner := &fakeRunner{
		run: func(ctx context.Context, name string, args ...string) (Output, error) {
			t.Fatal("ffmpeg must not run for canonical input")
			return Output{}, nil
		},
	}

	c := NewConverter("ffmpeg", runner)
	res, err := c.Convert(context.Background(), input)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if !res.Skipped {
		t.Fatal("expected identity pass-through")
	}
	if res.Path != input {
		t.Fatalf("Path = %q, want input path", res.Path)
	}
}

func TestConvertRunsFFmpeg(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "entrevista.webm")
	writeFile(t, input, []byte("\x1a\x45\xdf\xa3webm-data"))

	var gotArgs []string
	runner := &fakeRunner{
		run: func(ctx context.Context, name string, args ...string) (Output, error) {
			gotArgs = args
			writeFile(t, args[len(args)-1], wavHeader)
			return Output{}, nil
		},
	}

	c := NewConverter("ffmpeg", runner)
	res, err := c.Convert(context.Background(), input)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if res.Skipped {
		t.Fatal("webm input must not be skipped")
	}
	want := filepath.Join(dir, "entrevista.wav")
	if res.Path != want {
		t.Fatalf("Path = %q, want %q", res.Path, want)
	}

	assertArgPair(t, gotArgs, "-ar", "16000")
	assertArgPair(t, gotArgs, "-ac", "1")
	assertArgPair(t, gotArgs, "-i", input)
	if gotArgs[len(gotArgs)-1] != want {
		t.Fatalf("output arg = %q, want %q", gotArgs[len(gotArgs)-1], want)
	}
}

func TestConvertFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "entrevista.webm")
	writeFile(t, input, []byte("\x1a\x45\xdf\xa3webm-data"))

	runner := &fakeRunner{
		run: func(ctx context.Context, name string, args ...string) (Output, error) {
			return Output{ExitCode: 1, Stderr: "decoder not found"}, &CommandError{
				Name:     name,
				ExitCode: 1,
				Stderr:   "decoder not found",
				Err:      errors.New("exit status 1"),
			}
		},
	}

	c := NewConverter("ffmpeg", runner)
	if _, err := c.Convert(context.Background(), input); err == nil {
		t.Fatal("expected conversion error")
	}
}

func assertArgPair(t *testing.T, args []string, flag, value string) {
	t.Helper()
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return
		}
	}
	t.Fatalf("args %v missing %s %s", args, flag, value)
}
