// Package report ranks analysis results and renders them as text.
package report

import (
	"container/heap"
	"sort"

	"github.com/verte-zerg/raplyzer/internal/model"
)

// Default ranking sizes.
const (
	DefaultTopRhymes = 5
	DefaultTopSongs  = 10
)

// rhymeHeap is a min-heap with the weakest rhyme at the root.
type rhymeHeap []model.SongScore

func (h rhymeHeap) Len() int { return len(h) }

func (h rhymeHeap) Less(i, j int) bool { return weaker(h[i], h[j]) }

func (h rhymeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rhymeHeap) Push(x any) { *h = append(*h, x.(model.SongScore)) }

func (h *rhymeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// weaker orders rhymes by length; equal lengths fall back to the excerpt so
// results do not depend on traversal order.
func weaker(a, b model.SongScore) bool {
	if a.LongestLength != b.LongestLength {
		return a.LongestLength < b.LongestLength
	}
	return a.LongestExcerpt > b.LongestExcerpt
}

// TopRhymes returns the k songs with the longest single rhyme, longest first.
// Songs without any rhyme are ignored.
func TopRhymes(songs []model.SongScore, k int) []model.SongScore {
	if k <= 0 {
		return nil
	}
	h := make(rhymeHeap, 0, k+1)
	for _, s := range songs {
		if s.LongestLength == 0 {
			continue
		}
		heap.Push(&h, s)
		if h.Len() > k {
			heap.Pop(&h)
		}
	}
	out := make([]model.SongScore, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(model.SongScore)
	}
	return out
}

// BestSongs returns the n songs with the highest average rhyme length.
func BestSongs(songs []model.SongScore, n int) []model.SongScore {
	if n <= 0 || len(songs) == 0 {
		return nil
	}
	ranked := make([]model.SongScore, len(songs))
	copy(ranked, songs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AvgRhymeLength > ranked[j].AvgRhymeLength
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// RankArtists orders artists by their mean song score, best first.
func RankArtists(artists []model.ArtistScore) []model.ArtistScore {
	ranked := make([]model.ArtistScore, len(artists))
	copy(ranked, artists)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AvgRhymeLength > ranked[j].AvgRhymeLength
	})
	return ranked
}
