package player

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate   = 44100
	channelCount = 2
	bitDepth     = 2 // 16-bit = 2 bytes
	frameSize    = channelCount * bitDepth
	bytesPerSec  = sampleRate * frameSize
)

// ErrUnsupported is returned for files no decoder can handle.
var ErrUnsupported = errors.New("unsupported audio format")

// countingReader wraps an io.Reader and tracks bytes read.
type countingReader struct {
	reader io.Reader
	pos    int64
	eof    bool
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	if err == io.EOF {
		cr.eof = true
	}
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

func (cr *countingReader) SetPos(pos int64) {
	cr.mu.Lock()
	cr.pos = pos
	cr.eof = false
	cr.mu.Unlock()
}

func (cr *countingReader) EOF() bool {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.eof
}

// output is the subset of *oto.Player the Player drives.
type output interface {
	Play()
	Pause()
	SetVolume(float64)
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// Player plays a single audio file. It is created paused.
type Player struct {
	decoder     audioDecoder
	counter     *countingReader
	out         output
	newOutput   func(io.Reader) output
	bytesPerSec int64
	canSeek     bool
	duration    time.Duration
	volume      float64
	paused      bool
	done        chan struct{}
	stopMon     chan struct{}
	cleanup     func()
	mu          sync.Mutex
	closed      bool
}

// New opens path and prepares it for playback. Formats without a pure Go
// decoder are handed to ffmpeg.
func New(path string) (*Player, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		dec     audioDecoder
		cleanup func()
	)
	if canDecodeNatively(ext) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		native, err := newNativeDecoder(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		if dec, err = normalize(native); err != nil {
			f.Close()
			return nil, err
		}
		cleanup = func() { f.Close() }
	} else {
		switch ext {
		case ".aac", ".m4a", ".m4b":
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
		}
		ff, err := newFFmpegDecoder(path)
		if err != nil {
			return nil, err
		}
		dec = ff
		cleanup = func() { ff.Close() }
	}

	ctx, err := initOto()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("initializing audio output: %w", err)
	}

	p := &Player{
		decoder:     dec,
		counter:     &countingReader{reader: dec},
		newOutput:   func(r io.Reader) output { return ctx.NewPlayer(r) },
		bytesPerSec: bytesPerSec,
		canSeek:     true,
		duration:    time.Duration(float64(dec.Length()) / bytesPerSec * float64(time.Second)),
		volume:      1,
		paused:      true,
		done:        make(chan struct{}),
		stopMon:     make(chan struct{}),
		cleanup:     cleanup,
	}
	p.out = p.newOutput(p.counter)
	p.out.SetVolume(p.volume)

	go p.monitor(p.done)

	slog.Debug("opened track", slog.String("path", path), slog.Duration("duration", p.duration))
	return p, nil
}

func (p *Player) monitor(done chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopMon:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		if p.closed || p.done != done {
			p.mu.Unlock()
			return
		}
		finished := !p.paused && (p.counter.EOF() || p.counter.Pos() >= p.decoder.Length())
		p.mu.Unlock()

		if finished {
			close(done)
			return
		}
	}
}

// Done returns a channel that closes when playback reaches the end.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Play resumes playback.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if p.out != nil {
		p.out.Play()
	}
	p.paused = false
}

// Pause stops playback without releasing the track.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out != nil {
		p.out.Pause()
	}
	p.paused = true
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	if p.counter == nil || p.bytesPerSec == 0 {
		return 0
	}
	secs := float64(p.counter.Pos()) / float64(p.bytesPerSec)
	return min(time.Duration(secs*float64(time.Second)), p.duration)
}

// Duration returns the total duration of the track.
func (p *Player) Duration() time.Duration {
	return p.duration
}

func clampSeekByteOffset(pos time.Duration, bytesPerSec, length, frameSize int64) int64 {
	offset := int64(pos.Seconds() * float64(bytesPerSec))
	offset = min(max(offset, 0), length)
	return offset - offset%frameSize
}

// SeekTo moves playback to an absolute position. Playback continues afterwards
// only when resume is set.
func (p *Player) SeekTo(pos time.Duration, resume bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.canSeek {
		return errors.New("track is not seekable")
	}

	newPos := clampSeekByteOffset(pos, p.bytesPerSec, p.decoder.Length(), frameSize)
	if _, err := p.decoder.Seek(newPos, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to %s: %w", pos, err)
	}
	p.counter.SetPos(newPos)

	// A fresh output discards audio already buffered from the old position.
	if p.out != nil {
		p.out.Pause()
	}
	if p.newOutput != nil {
		p.out = p.newOutput(p.counter)
		p.out.SetVolume(p.volume)
	}

	p.paused = !resume
	if resume && p.out != nil {
		p.out.Play()
	}

	if p.done != nil {
		select {
		case <-p.done:
			p.done = make(chan struct{})
			go p.monitor(p.done)
		default:
		}
	}
	return nil
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	v = min(max(v, 0), 1)
	p.volume = v
	if p.out != nil {
		p.out.SetVolume(v)
	}
}

// Close stops playback and releases the decoder.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	if p.stopMon != nil {
		close(p.stopMon)
	}
	if p.out != nil {
		p.out.Pause()
	}
	if p.cleanup != nil {
		p.cleanup()
	}
}
