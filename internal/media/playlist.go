package media

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// PlaylistEntry is one local track listed by a playlist file. Title, Artist
// and Duration are filled from #EXTINF or TitleN/LengthN lines when present.
type PlaylistEntry struct {
	Path     string
	Title    string
	Artist   string
	Duration time.Duration
}

// ParseLocalPlaylist parses a local .m3u/.m3u8/.pls file. Relative entries are
// resolved against the playlist file directory; URL entries are skipped.
func ParseLocalPlaylist(path string) ([]PlaylistEntry, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsPlaylistExt(ext) {
		return nil, fmt.Errorf("unsupported playlist format %s", ext)
	}

	absPlaylistPath, err := filepath.Abs(path)
	if err != nil {
		absPlaylistPath = path
	}

	data, err := os.ReadFile(absPlaylistPath)
	if err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("playlist is not valid UTF-8")
	}

	baseDir := filepath.Dir(absPlaylistPath)
	text := strings.TrimPrefix(string(data), "\uFEFF")
	scanner := bufio.NewScanner(strings.NewReader(text))

	switch ext {
	case ".pls":
		return parsePLS(scanner, baseDir), nil
	default:
		return parseM3U(scanner, baseDir), nil
	}
}

// FilterPlayablePlaylistEntries keeps only entries that point at existing,
// non-directory, supported audio files. Entries without a title are named
// after their file. It also reports how many entries were dropped.
func FilterPlayablePlaylistEntries(entries []PlaylistEntry) ([]PlaylistEntry, int) {
	out := make([]PlaylistEntry, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		info, err := os.Stat(e.Path)
		if err != nil || info.IsDir() || !IsSupportedExt(filepath.Ext(e.Path)) {
			skipped++
			continue
		}
		if abs, err := filepath.Abs(e.Path); err == nil {
			e.Path = abs
		}
		if e.Title == "" {
			e.Title = titleFromPath(e.Path)
		}
		out = append(out, e)
	}
	return out, skipped
}

func parseM3U(scanner *bufio.Scanner, baseDir string) []PlaylistEntry {
	entries := make([]PlaylistEntry, 0)
	var pending PlaylistEntry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if info, ok := strings.CutPrefix(line, "#EXTINF:"); ok {
			pending = parseExtInf(info)
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		line = strings.Trim(line, `"`)
		if isURL(line) {
			pending = PlaylistEntry{}
			continue
		}
		pending.Path = resolvePlaylistEntryPath(line, baseDir)
		entries = append(entries, pending)
		pending = PlaylistEntry{}
	}
	return entries
}

// parseExtInf reads "<seconds>,<artist> - <title>" or "<seconds>,<title>".
func parseExtInf(info string) PlaylistEntry {
	var e PlaylistEntry
	secs, name, _ := strings.Cut(info, ",")
	if n, err := strconv.Atoi(strings.TrimSpace(secs)); err == nil && n > 0 {
		e.Duration = time.Duration(n) * time.Second
	}
	name = strings.TrimSpace(name)
	if artist, title, ok := strings.Cut(name, " - "); ok {
		e.Artist = strings.TrimSpace(artist)
		e.Title = strings.TrimSpace(title)
	} else {
		e.Title = name
	}
	return e
}

func parsePLS(scanner *bufio.Scanner, baseDir string) []PlaylistEntry {
	byIndex := make(map[int]*PlaylistEntry)
	var order []int
	entry := func(idx int) *PlaylistEntry {
		if e, ok := byIndex[idx]; ok {
			return e
		}
		e := &PlaylistEntry{}
		byIndex[idx] = e
		order = append(order, idx)
		return e
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:eq]))
		val := strings.TrimSpace(line[eq+1:])
		if val == "" {
			continue
		}

		if idx, ok := plsIndex(key, "file"); ok {
			if isURL(val) {
				entry(idx).Path = ""
				continue
			}
			entry(idx).Path = resolvePlaylistEntryPath(val, baseDir)
		} else if idx, ok := plsIndex(key, "title"); ok {
			entry(idx).Title = val
		} else if idx, ok := plsIndex(key, "length"); ok {
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				entry(idx).Duration = time.Duration(n) * time.Second
			}
		}
	}

	entries := make([]PlaylistEntry, 0, len(order))
	for _, idx := range order {
		if e := byIndex[idx]; e.Path != "" {
			entries = append(entries, *e)
		}
	}
	return entries
}

// plsIndex parses keys such as "file3" into 3.
func plsIndex(key, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(key, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func resolvePlaylistEntryPath(raw, baseDir string) string {
	p := filepath.Clean(raw)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(baseDir, p))
}
