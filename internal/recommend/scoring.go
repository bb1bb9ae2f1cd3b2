// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package recommend

import (
	"github.com/danw628/cinelog/internal/models"
)

// scorer computes one similarity mode against a fixed reference. Building
// the reference sets once keeps scoring a full snapshot linear.
type scorer struct {
	mode   string
	ref    models.MovieFeatures
	genres map[string]struct{}
	cast   map[string]struct{}
}

func newScorer(mode string, ref models.MovieFeatures) *scorer {
	s := &scorer{
		mode:   mode,
		ref:    ref,
		genres: make(map[string]struct{}, len(ref.Genres)),
		cast:   make(map[string]struct{}, len(ref.Cast)),
	}
	for _, g := range ref.Genres {
		s.genres[g] = struct{}{}
	}
	for _, name := range ref.Cast {
		s.cast[name] = struct{}{}
	}
	return s
}

// score returns the candidate's similarity and whether it belongs in the
// result set at all. Zero-overlap candidates are excluded, not ranked
// last.
func (s *scorer) score(candidate models.MovieFeatures) (float64, bool) {
	switch s.mode {
	case ModeGenre:
		shared := sharedCount(s.genres, candidate.Genres)
		return float64(shared), shared > 0
	case ModeDirector:
		if s.sameDirector(candidate) {
			return 1, true
		}
		return 0, false
	case ModeCast:
		shared := sharedCount(s.cast, candidate.Cast)
		return float64(shared), shared > 0
	default: // ModeAll
		return s.combinedScore(candidate)
	}
}

// combinedScore sums the three sub-scores, each normalized to [0, 1]
// against the reference: genres by the reference's genre count, director
// as 0 or 1, cast by the smaller of the two distinct cast sizes. A
// candidate sharing nothing on any axis is excluded.
func (s *scorer) combinedScore(candidate models.MovieFeatures) (float64, bool) {
	var total float64

	if len(s.genres) > 0 {
		shared := sharedCount(s.genres, candidate.Genres)
		total += float64(shared) / float64(len(s.genres))
	}

	if s.sameDirector(candidate) {
		total++
	}

	candCast := distinctCount(candidate.Cast)
	if len(s.cast) > 0 && candCast > 0 {
		shared := sharedCount(s.cast, candidate.Cast)
		smaller := len(s.cast)
		if candCast < smaller {
			smaller = candCast
		}
		total += float64(shared) / float64(smaller)
	}

	return total, total > 0
}

func (s *scorer) sameDirector(candidate models.MovieFeatures) bool {
	return s.ref.Director != "" && candidate.Director != "" && s.ref.Director == candidate.Director
}

// sharedCount counts distinct items present in the reference set. The
// candidate slice can carry duplicates (a writer-director is credited
// twice), so each name counts once.
func sharedCount(set map[string]struct{}, items []string) int {
	seen := make(map[string]struct{}, len(items))
	count := 0
	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		if _, ok := set[item]; ok {
			count++
		}
	}
	return count
}

func distinctCount(items []string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[item] = struct{}{}
	}
	return len(seen)
}
