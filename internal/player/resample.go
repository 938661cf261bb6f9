package player

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// resampler presents any mono or stereo s16le decoder as a stereo stream at
// the output sample rate, interpolating linearly between source frames.
type resampler struct {
	src          audioDecoder
	br           *bufio.Reader
	srcChannels  int
	srcFrameSize int64
	step         float64 // source frames per output frame

	length int64
	pos    int64

	phase  float64
	cur    [2]int16
	next   [2]int16
	primed bool
}

// normalize wraps src so that it matches the output format. Decoders that
// already match are returned unchanged.
func normalize(src audioDecoder) (audioDecoder, error) {
	rate, channels := src.SampleRate(), src.ChannelCount()
	if rate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrUnsupported, rate)
	}
	if channels < 1 || channels > channelCount {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupported, channels)
	}
	if rate == sampleRate && channels == channelCount {
		return src, nil
	}

	srcFrameSize := int64(channels) * bitDepth
	srcFrames := src.Length() / srcFrameSize
	outFrames := srcFrames * sampleRate / int64(rate)
	return &resampler{
		src:          src,
		br:           bufio.NewReaderSize(src, 16*1024),
		srcChannels:  channels,
		srcFrameSize: srcFrameSize,
		step:         float64(rate) / sampleRate,
		length:       outFrames * frameSize,
	}, nil
}

func (r *resampler) Length() int64     { return r.length }
func (r *resampler) SampleRate() int   { return sampleRate }
func (r *resampler) ChannelCount() int { return channelCount }

func (r *resampler) readFrame() ([2]int16, error) {
	var raw [4]byte
	if _, err := io.ReadFull(r.br, raw[:r.srcFrameSize]); err != nil {
		return [2]int16{}, err
	}
	left := int16(binary.LittleEndian.Uint16(raw[0:]))
	if r.srcChannels == 1 {
		return [2]int16{left, left}, nil
	}
	return [2]int16{left, int16(binary.LittleEndian.Uint16(raw[2:]))}, nil
}

func (r *resampler) prime() error {
	f, err := r.readFrame()
	if err != nil {
		return err
	}
	r.cur = f
	if r.next, err = r.readFrame(); err != nil {
		r.next = r.cur
	}
	r.primed = true
	return nil
}

func (r *resampler) Read(p []byte) (int, error) {
	if r.pos >= r.length {
		return 0, io.EOF
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := min(int64(len(p))/frameSize, (r.length-r.pos)/frameSize)
	if frames == 0 {
		return 0, io.ErrShortBuffer
	}
	for i := range frames {
		for r.phase >= 1 {
			r.cur = r.next
			if f, err := r.readFrame(); err == nil {
				r.next = f
			}
			r.phase--
		}
		off := i * frameSize
		for ch := range 2 {
			a, b := float64(r.cur[ch]), float64(r.next[ch])
			s := clampPCM16(int(a + (b-a)*r.phase))
			binary.LittleEndian.PutUint16(p[off+int64(ch)*2:], uint16(s))
		}
		r.phase += r.step
	}

	n := int(frames * frameSize)
	r.pos += int64(n)
	return n, nil
}

func (r *resampler) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = r.pos + offset
	case io.SeekEnd:
		newPos = r.length + offset
	default:
		return r.pos, fmt.Errorf("invalid seek whence: %d", whence)
	}
	newPos = min(max(newPos, 0), r.length)
	newPos -= newPos % frameSize

	srcPos := float64(newPos/frameSize) * r.step
	srcFrame := int64(srcPos)
	if _, err := r.src.Seek(srcFrame*r.srcFrameSize, io.SeekStart); err != nil {
		return r.pos, err
	}
	r.br.Reset(r.src)
	r.phase = srcPos - float64(srcFrame)
	r.primed = false
	r.pos = newPos
	return newPos, nil
}
