package render

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// ansiState tracks the foreground colour last written to a line so runs of
// equally coloured cells share one escape sequence.
type ansiState struct {
	profile termenv.Profile
	current string
}

func newANSIState(profile termenv.Profile) ansiState {
	return ansiState{profile: profile}
}

func (s *ansiState) set(sb *strings.Builder, c colorful.Color) {
	if s.profile == termenv.Ascii {
		return
	}
	seq := colorSequence(s.profile, c)
	if seq == s.current {
		return
	}
	sb.WriteString(seq)
	s.current = seq
}

func (s *ansiState) reset(sb *strings.Builder) {
	if s.current == "" {
		return
	}
	sb.WriteString(termenv.CSI + termenv.ResetSeq + "m")
	s.current = ""
}

type seqKey struct {
	profile termenv.Profile
	hex     string
}

var seqCache = map[seqKey]string{}

// colorSequence returns the SGR sequence selecting c as foreground colour,
// degraded to what the profile supports. Rendering happens on the UI loop
// only, so the cache is not locked.
func colorSequence(profile termenv.Profile, c colorful.Color) string {
	key := seqKey{profile, c.Hex()}
	if seq, ok := seqCache[key]; ok {
		return seq
	}
	var seq string
	if fg := profile.Color(key.hex).Sequence(false); fg != "" {
		seq = termenv.CSI + fg + "m"
	}
	seqCache[key] = seq
	return seq
}
