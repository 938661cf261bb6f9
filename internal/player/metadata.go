package player

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/bogem/id3v2/v2"
	"github.com/hajimehoshi/go-mp3"
)

// Metadata holds song information.
type Metadata struct {
	Title  string
	Artist string
	Album  string
	Year   string
}

// ReadMetadata reads ID3v2 tags from a file, falling back to the filename.
func ReadMetadata(path string) Metadata {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err == nil {
		defer tag.Close()
		m := Metadata{
			Title:  strings.TrimSpace(tag.Title()),
			Artist: strings.TrimSpace(tag.Artist()),
			Album:  strings.TrimSpace(tag.Album()),
			Year:   strings.TrimSpace(tag.Year()),
		}
		if m.Title != "" {
			return m
		}
	}

	// Fallback: use filename without extension
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	return Metadata{
		Title: name,
	}
}

// ProbeDuration reports the length of an audio file without playing it.
func ProbeDuration(path string) (time.Duration, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".m4a", ".m4b":
		return mp4Duration(path)
	case ".aac":
		return probeDuration(path)
	}
	if !canDecodeNatively(ext) {
		return 0, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if ext == ".mp3" {
		dec, err := mp3.NewDecoder(f)
		if err != nil {
			return 0, fmt.Errorf("decoding MP3: %w", err)
		}
		return pcmDuration(dec.Length(), dec.SampleRate(), channelCount), nil
	}

	dec, err := newNativeDecoder(f)
	if err != nil {
		return 0, err
	}
	return pcmDuration(dec.Length(), dec.SampleRate(), dec.ChannelCount()), nil
}

func pcmDuration(length int64, rate, channels int) time.Duration {
	perSec := int64(rate) * int64(channels) * bitDepth
	if perSec <= 0 {
		return 0
	}
	return time.Duration(float64(length) / float64(perSec) * float64(time.Second))
}

// mp4Duration reads the movie header of an MP4 container.
func mp4Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	parsed, err := mp4.DecodeFile(f, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return 0, fmt.Errorf("parsing MP4: %w", err)
	}
	if parsed.Moov == nil || parsed.Moov.Mvhd == nil {
		return 0, errors.New("MP4 has no movie header")
	}
	mvhd := parsed.Moov.Mvhd
	if mvhd.Timescale == 0 {
		return 0, errors.New("MP4 movie header has zero timescale")
	}
	return time.Duration(float64(mvhd.Duration) / float64(mvhd.Timescale) * float64(time.Second)), nil
}
