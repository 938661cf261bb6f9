package media

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestParseLocalPlaylistM3U(t *testing.T) {
	dir := t.TempDir()
	playlist := filepath.Join(dir, "list.m3u")
	content := "\uFEFF#EXTM3U\n\n#EXTINF:113,Spacebird - Falla samman\nsong1.mp3\n#comment\n\"https://example.com/stream\"\n#EXTINF:-1,Untimed\nsub/song2.wav\nplain.ogg\n"
	if err := os.WriteFile(playlist, []byte(content), 0o644); err != nil {
		t.Fatalf("write playlist: %v", err)
	}

	got, err := ParseLocalPlaylist(playlist)
	if err != nil {
		t.Fatalf("ParseLocalPlaylist() error = %v", err)
	}

	want := []PlaylistEntry{
		{Path: filepath.Join(dir, "song1.mp3"), Title: "Falla samman", Artist: "Spacebird", Duration: 113 * time.Second},
		{Path: filepath.Join(dir, "sub", "song2.wav"), Title: "Untimed"},
		{Path: filepath.Join(dir, "plain.ogg")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseLocalPlaylist() = %#v, want %#v", got, want)
	}
}

func TestParseLocalPlaylistPLS(t *testing.T) {
	dir := t.TempDir()
	playlist := filepath.Join(dir, "list.pls")
	content := "[playlist]\n file1 = one.flac \nTitle1=One\nLength1=120\nFile2=https://example.com/live\nFileX=bad.mp3\nFile3=\nFile4=/abs/four.mp3\n"
	if err := os.WriteFile(playlist, []byte(content), 0o644); err != nil {
		t.Fatalf("write playlist: %v", err)
	}

	got, err := ParseLocalPlaylist(playlist)
	if err != nil {
		t.Fatalf("ParseLocalPlaylist() error = %v", err)
	}

	want := []PlaylistEntry{
		{Path: filepath.Join(dir, "one.flac"), Title: "One", Duration: 120 * time.Second},
		{Path: filepath.Clean("/abs/four.mp3")},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseLocalPlaylist() = %#v, want %#v", got, want)
	}
}

func TestParseLocalPlaylistRejects(t *testing.T) {
	dir := t.TempDir()
	if _, err := ParseLocalPlaylist(filepath.Join(dir, "list.txt")); err == nil {
		t.Fatal("ParseLocalPlaylist(.txt) error = nil")
	}
	if _, err := ParseLocalPlaylist(filepath.Join(dir, "missing.m3u")); err == nil {
		t.Fatal("ParseLocalPlaylist(missing) error = nil")
	}
	bad := filepath.Join(dir, "bad.m3u")
	if err := os.WriteFile(bad, []byte{0xff, 0xfe, 0xfd}, 0o644); err != nil {
		t.Fatalf("write playlist: %v", err)
	}
	if _, err := ParseLocalPlaylist(bad); err == nil {
		t.Fatal("ParseLocalPlaylist(invalid UTF-8) error = nil")
	}
}

func TestFilterPlayablePlaylistEntries(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "ok.mp3")
	if err := os.WriteFile(valid, []byte("x"), 0o644); err != nil {
		t.Fatalf("write valid file: %v", err)
	}
	validM4A := filepath.Join(dir, "chapter.m4a")
	if err := os.WriteFile(validM4A, []byte("x"), 0o644); err != nil {
		t.Fatalf("write valid m4a file: %v", err)
	}
	unsupported := filepath.Join(dir, "nope.txt")
	if err := os.WriteFile(unsupported, []byte("x"), 0o644); err != nil {
		t.Fatalf("write unsupported file: %v", err)
	}
	subdir := filepath.Join(dir, "folder.mp3")
	if err := os.Mkdir(subdir, 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}

	input := []PlaylistEntry{
		{Path: valid},
		{Path: validM4A, Title: "Chapter One"},
		{Path: filepath.Join(dir, "missing.mp3")},
		{Path: unsupported},
		{Path: subdir},
	}

	got, skipped := FilterPlayablePlaylistEntries(input)
	want := []PlaylistEntry{
		{Path: valid, Title: "ok"},
		{Path: validM4A, Title: "Chapter One"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FilterPlayablePlaylistEntries() = %#v, want %#v", got, want)
	}
	if skipped != 3 {
		t.Fatalf("FilterPlayablePlaylistEntries() skipped=%d, want %d", skipped, 3)
	}
}
