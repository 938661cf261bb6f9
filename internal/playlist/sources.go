package playlist

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spacebird/cosmicflight/internal/media"
	"github.com/spacebird/cosmicflight/internal/player"
	"github.com/spacebird/cosmicflight/internal/util"
)

const defaultCover = "assets/cosmic-flight-cover.jpg"

// Builtin returns the bundled album.
func Builtin() []Track {
	return []Track{
		{
			Title:    "Falla samman",
			Artist:   "Spacebird",
			Year:     "2025",
			File:     "music/Falla_samman.m4a",
			Duration: "1:53",
			Cover:    defaultCover,
		},
		{
			Title:    "Dancing ",
			Artist:   "Spacebird",
			Year:     "2025",
			File:     "music/Dancing.m4a",
			Duration: "2:44",
			Cover:    defaultCover,
		},
	}
}

// LoadTracks resolves source into a track list. An empty source is the bundled
// album; otherwise source names a playlist file, a directory of audio files or
// a single audio file. Failures are logged and yield an empty list.
func LoadTracks(source string) []Track {
	logger := slog.With("component", "playlist")
	if source == "" {
		return Builtin()
	}

	entries, err := resolveSource(source)
	if err != nil {
		logger.Error("Error loading tracks", "source", source, "error", err)
		return nil
	}

	playable, skipped := media.FilterPlayablePlaylistEntries(entries)
	if skipped > 0 {
		logger.Warn("Skipped unplayable entries", "source", source, "skipped", skipped)
	}

	tracks := make([]Track, 0, len(playable))
	for _, e := range playable {
		tracks = append(tracks, describe(e))
	}
	return tracks
}

func resolveSource(source string) ([]media.PlaylistEntry, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(source))
	switch {
	case info.IsDir():
		return media.ScanAudioFiles(source)
	case media.IsPlaylistExt(ext):
		return media.ParseLocalPlaylist(source)
	case media.IsSupportedExt(ext):
		return []media.PlaylistEntry{{Path: source}}, nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: %s)", player.ErrUnsupported, ext, media.SupportedExtsList())
	}
}

// describe fills the display fields of a track, preferring what the playlist
// said, then file tags, then the filename.
func describe(e media.PlaylistEntry) Track {
	meta := player.ReadMetadata(e.Path)
	t := Track{
		Title:  e.Title,
		Artist: e.Artist,
		Year:   meta.Year,
		File:   e.Path,
	}
	if t.Title == "" || t.Title == titleFromFilename(e.Path) {
		t.Title = meta.Title
	}
	if t.Artist == "" {
		t.Artist = meta.Artist
	}

	d := e.Duration
	if d <= 0 {
		probed, err := player.ProbeDuration(e.Path)
		if err != nil {
			slog.Debug("Could not probe duration", "file", e.Path, "error", err)
		}
		d = probed
	}
	if d > 0 {
		t.Duration = util.FormatDuration(d)
	}
	return t
}

func titleFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
