package models

import "strings"

type CastMember struct {
	Name       string `json:"name" bson:"name"`
	ProfileURL string `json:"profileUrl,omitempty" bson:"profileUrl,omitempty"`
}

type RatingStats struct {
	Average     float64 `json:"average" bson:"average"`
	Count       int     `json:"count" bson:"count"`
	LastRatedAt string  `json:"lastRatedAt,omitempty" bson:"lastRatedAt,omitempty"`
}

// MovieDoc es el catálogo de referencia. Lo refresca un proceso de ingesta
// externo; el core solo lo lee.
type MovieDoc struct {
	MovieID     int          `json:"movieId" bson:"movieId"`
	Title       string       `json:"title" bson:"title"`
	Year        *int         `json:"year,omitempty" bson:"year,omitempty"`
	Overview    string       `json:"overview,omitempty" bson:"overview,omitempty"`
	Tagline     string       `json:"tagline,omitempty" bson:"tagline,omitempty"`
	Genres      []string     `json:"genres" bson:"genres"`
	Keywords    []string     `json:"keywords,omitempty" bson:"keywords,omitempty"`
	Cast        []CastMember `json:"cast,omitempty" bson:"cast,omitempty"`
	Director    string       `json:"director,omitempty" bson:"director,omitempty"`
	Popularity  float64      `json:"popularity,omitempty" bson:"popularity,omitempty"`
	VoteAverage float64      `json:"voteAverage" bson:"voteAverage"` // calidad 0..10
	PosterURL   string       `json:"posterUrl,omitempty" bson:"posterUrl,omitempty"`
	RatingStats *RatingStats `json:"ratingStats,omitempty" bson:"ratingStats,omitempty"`
	CreatedAt   string       `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt   string       `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// HasGenre compara sin distinguir mayúsculas (los datos de origen mezclan ambas).
func (m *MovieDoc) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// SharedGenres cuenta géneros en común con otra película.
func (m *MovieDoc) SharedGenres(other *MovieDoc) int {
	n := 0
	for _, g := range m.Genres {
		if other.HasGenre(g) {
			n++
		}
	}
	return n
}
