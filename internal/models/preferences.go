// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package models

// GenreStat is one genre's aggregate across the collection.
type GenreStat struct {
	Genre         string  `json:"genre"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// GenreAnalysis summarizes genre preferences: what the user watches most
// and what they rate highest and lowest. TopRated and LeastFavorite only
// include genres meeting the minimum group size.
type GenreAnalysis struct {
	TotalGenres   int         `json:"total_genres"`
	MostWatched   []GenreStat `json:"most_watched"`
	TopRated      []GenreStat `json:"top_rated"`
	LeastFavorite []GenreStat `json:"least_favorite"`
}

// DecadeStat is one decade's aggregate. Decade is the starting year
// (1990 covers 1990-1999).
type DecadeStat struct {
	Decade        int     `json:"decade"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// YearAnalysis summarizes era preferences by decade.
type YearAnalysis struct {
	Decades        []DecadeStat `json:"decades"`
	FavoriteDecade int          `json:"favorite_decade"`
	EarliestYear   int          `json:"earliest_year"`
	LatestYear     int          `json:"latest_year"`
}

// Runtime bucket labels. Buckets partition movies by length:
// Short <90, Standard 90-119, Long 120-149, Epic 150+.
const (
	RuntimeShort    = "Short"
	RuntimeStandard = "Standard"
	RuntimeLong     = "Long"
	RuntimeEpic     = "Epic"
)

// RuntimeBucketStat is one runtime bucket's aggregate.
type RuntimeBucketStat struct {
	Bucket        string  `json:"bucket"`
	Range         string  `json:"range"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// RuntimeAnalysis summarizes length preferences across the four runtime
// buckets. PreferredBucket is the highest-rated bucket meeting the minimum
// group size.
type RuntimeAnalysis struct {
	Buckets         []RuntimeBucketStat `json:"buckets"`
	PreferredBucket string              `json:"preferred_bucket"`
	AverageRuntime  float64             `json:"average_runtime"`
}

// PersonStat is one person's aggregate across their credited movies.
type PersonStat struct {
	Name          string  `json:"name"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// CastAnalysis summarizes people preferences: the actors and directors
// whose movies the user rates highest, restricted to people with at least
// the minimum number of credits.
type CastAnalysis struct {
	TopActors    []PersonStat `json:"top_actors"`
	TopDirectors []PersonStat `json:"top_directors"`
	TotalPeople  int          `json:"total_people"`
}

// ColorStat is one dominant poster color's aggregate.
type ColorStat struct {
	Color         string  `json:"color"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// StyleStat is one poster style tag's aggregate.
type StyleStat struct {
	Tag           string  `json:"tag"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

// PosterStyleAnalysis summarizes visual taste from analyzed posters.
// Brightness/ContrastPreference hold the bucket ("dark", "balanced",
// "bright" / "low", "medium", "high") with the highest average rating.
type PosterStyleAnalysis struct {
	AnalyzedPosters      int         `json:"analyzed_posters"`
	BrightnessPreference string      `json:"brightness_preference"`
	ContrastPreference   string      `json:"contrast_preference"`
	CommonColors         []ColorStat `json:"common_colors"`
	CommonStyles         []StyleStat `json:"common_styles"`
}

// InsightsReport bundles the headline takeaways from every analysis type
// into one response.
type InsightsReport struct {
	TotalMovies   int      `json:"total_movies"`
	AverageRating float64  `json:"average_rating"`
	Insights      []string `json:"insights"`
}

// TasteProfile is the aggregate preference profile that collection
// highlights are scored against. Genres order strongest-first; earlier
// entries carry more weight.
type TasteProfile struct {
	Genres    []string `json:"genres"`
	Directors []string `json:"directors"`
	Actors    []string `json:"actors"`
}

// Empty reports whether the profile carries no signal at all.
func (p TasteProfile) Empty() bool {
	return len(p.Genres) == 0 && len(p.Directors) == 0 && len(p.Actors) == 0
}

// Highlight is one profile-scored collection movie. Reasons name the
// profile attributes it matched.
type Highlight struct {
	SimilarMovie
	Reasons []string `json:"reasons"`
}

// HighlightsAnalysis lists collection highlights derived from the user's
// preference profile: the rated movies that best match what the profile
// says the user enjoys.
type HighlightsAnalysis struct {
	ProfileGenres []string    `json:"profile_genres"`
	Highlights    []Highlight `json:"highlights"`
}
