package playlist

import (
	"encoding/json"
	"fmt"
	"slices"
)

// LikedTracksKey is the storage key of the liked-track index list.
const LikedTracksKey = "likedTracks"

// KV is the persistent key-value store backing a LikeStore.
type KV interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// LikeStore is the persisted set of liked track indices, kept in the order
// they were liked.
type LikeStore struct {
	kv    KV
	liked []int
}

// LoadLikes reads the liked set from kv. A missing entry is an empty set; an
// entry that is not a JSON array of integers is an error.
func LoadLikes(kv KV) (*LikeStore, error) {
	s := &LikeStore{kv: kv}
	raw, ok := kv.Get(LikedTracksKey)
	if !ok {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.liked); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", LikedTracksKey, err)
	}
	return s, nil
}

// Liked reports whether track i is liked.
func (s *LikeStore) Liked(i int) bool {
	return slices.Contains(s.liked, i)
}

// Indices returns the liked indices in like order.
func (s *LikeStore) Indices() []int {
	return slices.Clone(s.liked)
}

// Toggle flips the liked state of track i and persists the set. It returns the
// new state.
func (s *LikeStore) Toggle(i int) (bool, error) {
	liked := !s.Liked(i)
	next := slices.DeleteFunc(slices.Clone(s.liked), func(v int) bool { return v == i })
	if liked {
		next = append(next, i)
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return !liked, fmt.Errorf("failed to encode %s: %w", LikedTracksKey, err)
	}
	if err := s.kv.Set(LikedTracksKey, raw); err != nil {
		return !liked, fmt.Errorf("failed to save %s: %w", LikedTracksKey, err)
	}
	s.liked = next
	return liked, nil
}
