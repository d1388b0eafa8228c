package models

import "time"

// Estrategias soportadas por el motor.
const (
	StrategyCollaborative = "collaborative"
	StrategyContent       = "content"
	StrategyPersonalized  = "personalized"
	StrategyHybrid        = "hybrid"
	StrategyPopular       = "popular"
)

// RecItem es un resultado rankeado con los campos de display de la película.
type RecItem struct {
	MovieID     int      `json:"movieId" bson:"movieId"`
	Title       string   `json:"title" bson:"title"`
	Score       float64  `json:"score" bson:"score"`
	Similarity  *float64 `json:"similarityScore,omitempty" bson:"similarityScore,omitempty"` // solo content-based
	Reason      string   `json:"reason" bson:"reason"`
	Sources     []string `json:"sources,omitempty" bson:"sources,omitempty"`
	PosterURL   string   `json:"posterUrl,omitempty" bson:"posterUrl,omitempty"`
	VoteAverage float64  `json:"voteAverage" bson:"voteAverage"`
	Year        *int     `json:"year,omitempty" bson:"year,omitempty"`
	Genres      []string `json:"genres" bson:"genres"`
}

// Recommendation es el historial que guardamos en Mongo por cada respuesta.
type Recommendation struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    int       `bson:"userId"        json:"userId"`
	Strategy  string    `bson:"strategy"      json:"strategy"`
	Params    any       `bson:"params"        json:"params"`
	Items     []RecItem `bson:"items"         json:"items"`
	CreatedAt time.Time `bson:"createdAt"     json:"createdAt"`
}
