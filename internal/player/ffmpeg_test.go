package player

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"
)

func stubFFmpegDeps(t *testing.T) {
	t.Helper()
	origLookPath, origRunner := lookPath, probeRunner
	t.Cleanup(func() {
		lookPath, probeRunner = origLookPath, origRunner
	})
}

func TestFFmpegArgsForcesOutputFormat(t *testing.T) {
	args := ffmpegArgs("track.m4a", 0)
	if slices.Contains(args, "-ss") {
		t.Fatalf("unexpected -ss in %v", args)
	}
	joined := strings.Join(args, " ")
	for _, want := range []string{"-i track.m4a", "-vn", "-f s16le", "-ar 44100", "-ac 2", "pipe:1"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("ffmpegArgs() = %q, missing %q", joined, want)
		}
	}
}

func TestFFmpegArgsSeeksBeforeInput(t *testing.T) {
	args := ffmpegArgs("track.m4a", 90*bytesPerSec)
	i := slices.Index(args, "-ss")
	if i < 0 || args[i+1] != "00:01:30.000" {
		t.Fatalf("ffmpegArgs() = %v, want -ss 00:01:30.000", args)
	}
	if i > slices.Index(args, "-i") {
		t.Fatalf("expected -ss before -i, got %v", args)
	}
}

func TestFormatSeekTime(t *testing.T) {
	if got := formatSeekTime(3725.5); got != "01:02:05.500" {
		t.Fatalf("formatSeekTime() = %q", got)
	}
	if got := formatSeekTime(-3); got != "00:00:00.000" {
		t.Fatalf("formatSeekTime(negative) = %q", got)
	}
}

func TestAlignFrame(t *testing.T) {
	if got := alignFrame(4103); got != 4100 {
		t.Fatalf("alignFrame() = %d, want 4100", got)
	}
}

func TestParseProbeDuration(t *testing.T) {
	got, err := parseProbeDuration([]byte(`{"streams":[{"codec_type":"audio"}],"format":{"duration":"113.500000"}}`))
	if err != nil {
		t.Fatalf("parseProbeDuration() error = %v", err)
	}
	if got != 113500*time.Millisecond {
		t.Fatalf("parseProbeDuration() = %v", got)
	}

	if _, err := parseProbeDuration([]byte(`{"streams":[],"format":{"duration":"1"}}`)); err == nil {
		t.Fatal("expected error for missing audio stream")
	}
	if _, err := parseProbeDuration([]byte(`{"streams":[{}],"format":{}}`)); err == nil {
		t.Fatal("expected error for missing duration")
	}
	if _, err := parseProbeDuration([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid output")
	}
}

func TestProbeDurationMissingFFprobe(t *testing.T) {
	stubFFmpegDeps(t)
	lookPath = func(string) (string, error) {
		return "", errors.New("missing")
	}

	_, err := probeDuration("track.aac")
	if err == nil || !strings.Contains(err.Error(), "ffprobe not found") {
		t.Fatalf("expected ffprobe not found error, got %v", err)
	}
}

func TestProbeDurationRunsFFprobe(t *testing.T) {
	stubFFmpegDeps(t)
	lookPath = func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	}
	var gotArgs []string
	probeRunner = func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return []byte(`{"streams":[{"codec_type":"audio"}],"format":{"duration":"164"}}`), nil
	}

	got, err := probeDuration("track.aac")
	if err != nil {
		t.Fatalf("probeDuration() error = %v", err)
	}
	if got != 164*time.Second {
		t.Fatalf("probeDuration() = %v, want 2m44s", got)
	}
	if gotArgs[0] != "/usr/bin/ffprobe" || gotArgs[len(gotArgs)-1] != "track.aac" {
		t.Fatalf("unexpected ffprobe invocation %v", gotArgs)
	}
}

func TestNewFFmpegDecoderReportsProbeFailure(t *testing.T) {
	stubFFmpegDeps(t)
	lookPath = func(string) (string, error) {
		return "", errors.New("missing")
	}

	if _, err := newFFmpegDecoder("track.m4a"); err == nil {
		t.Fatal("expected error without ffprobe")
	}
}
