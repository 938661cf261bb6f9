package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

// ffmpegDecoder decodes formats without a native Go decoder (AAC in .m4a,
// .m4b or raw .aac) through an ffmpeg subprocess that emits PCM already in the
// output format. Seeking restarts the process with -ss.
type ffmpegDecoder struct {
	path       string
	totalBytes int64

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdout io.ReadCloser
	cancel context.CancelFunc
	pos    int64
	closed bool
}

var errFFmpegNotFound = errors.New("ffmpeg not found (required for .aac/.m4a/.m4b playback)")

// Overridden in tests.
var (
	lookPath    = exec.LookPath
	probeRunner = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return exec.CommandContext(ctx, name, args...).Output()
	}
)

func newFFmpegDecoder(path string) (*ffmpegDecoder, error) {
	duration, err := probeDuration(path)
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", path, err)
	}

	d := &ffmpegDecoder{
		path:       path,
		totalBytes: alignFrame(int64(duration.Seconds() * bytesPerSec)),
	}
	if err := d.startProcess(0); err != nil {
		return nil, err
	}
	return d, nil
}

type ffprobeResult struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// probeDuration asks ffprobe for the duration of the first audio stream.
func probeDuration(path string) (time.Duration, error) {
	ffprobe, err := lookPath("ffprobe")
	if err != nil {
		return 0, errors.New("ffprobe not found (required for .aac/.m4a/.m4b playback)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	output, err := probeRunner(ctx, ffprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		"-select_streams", "a:0",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbeDuration(output)
}

func parseProbeDuration(output []byte) (time.Duration, error) {
	var result ffprobeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, fmt.Errorf("parsing ffprobe output: %w", err)
	}
	if len(result.Streams) == 0 {
		return 0, errors.New("no audio stream found")
	}
	secs, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil || secs <= 0 {
		return 0, errors.New("ffprobe reported no duration")
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// startProcess launches ffmpeg decoding from the given byte offset.
func (d *ffmpegDecoder) startProcess(fromPos int64) error {
	ffmpeg, err := lookPath("ffmpeg")
	if err != nil {
		return errFFmpegNotFound
	}

	d.stopProcess()

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, ffmpeg, ffmpegArgs(d.path, fromPos)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("setting up ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("starting ffmpeg: %w", err)
	}

	d.cmd = cmd
	d.stdout = stdout
	d.cancel = cancel
	d.pos = fromPos
	return nil
}

func ffmpegArgs(path string, fromPos int64) []string {
	args := []string{"-v", "quiet"}
	if fromPos > 0 {
		args = append(args, "-ss", formatSeekTime(float64(fromPos)/bytesPerSec))
	}
	return append(args,
		"-i", path,
		"-vn",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channelCount),
		"pipe:1",
	)
}

func (d *ffmpegDecoder) stopProcess() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.cmd != nil {
		d.cmd.Wait()
		d.cmd = nil
	}
	d.stdout = nil
}

func (d *ffmpegDecoder) Read(p []byte) (int, error) {
	d.mu.Lock()
	if d.closed || d.stdout == nil {
		d.mu.Unlock()
		return 0, io.EOF
	}
	stdout := d.stdout
	d.mu.Unlock()

	n, err := stdout.Read(p)

	d.mu.Lock()
	d.pos += int64(n)
	d.mu.Unlock()
	return n, err
}

func (d *ffmpegDecoder) Seek(offset int64, whence int) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = d.pos + offset
	case io.SeekEnd:
		newPos = d.totalBytes + offset
	}
	newPos = alignFrame(min(max(newPos, 0), d.totalBytes))

	if err := d.startProcess(newPos); err != nil {
		return d.pos, err
	}
	return newPos, nil
}

func (d *ffmpegDecoder) Length() int64     { return d.totalBytes }
func (d *ffmpegDecoder) SampleRate() int   { return sampleRate }
func (d *ffmpegDecoder) ChannelCount() int { return channelCount }

func (d *ffmpegDecoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.stopProcess()
	return nil
}

// formatSeekTime formats seconds as HH:MM:SS.mmm for ffmpeg -ss.
func formatSeekTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := int(seconds) / 3600
	m := (int(seconds) % 3600) / 60
	s := seconds - float64(h*3600+m*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", h, m, s)
}

func alignFrame(pos int64) int64 {
	return pos - pos%frameSize
}
