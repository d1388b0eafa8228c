package models

import "strings"

// GenreWeight es un género favorito con su peso normalizado (frecuencia / total).
type GenreWeight struct {
	Genre  string  `json:"genre" bson:"genre"`
	Weight float64 `json:"weight" bson:"weight"`
}

// UserBehaviorProfile resume el comportamiento de un usuario:
// géneros favoritos, tendencia reciente (7 días), rating promedio,
// década preferida y el histograma de horas de visualización.
type UserBehaviorProfile struct {
	UserID           int           `json:"userId" bson:"userId"`
	FavoriteGenres   []GenreWeight `json:"favoriteGenres" bson:"favoriteGenres"`
	RecentGenres     []string      `json:"recentGenres" bson:"recentGenres"`
	AvgRating        float64       `json:"avgRating" bson:"avgRating"`
	TotalWatched     int           `json:"totalWatched" bson:"totalWatched"`
	PreferredDecade  int           `json:"preferredDecade,omitempty" bson:"preferredDecade,omitempty"` // 0 = sin datos
	WatchHours       map[int]int   `json:"watchHours,omitempty" bson:"watchHours,omitempty"`           // hora del día -> conteo
}

// TopGenre devuelve el género más frecuente ("" si no hay historial).
func (p *UserBehaviorProfile) TopGenre() string {
	if len(p.FavoriteGenres) == 0 {
		return ""
	}
	return p.FavoriteGenres[0].Genre
}

// GenreWeightFor busca el peso de un género en los favoritos (0 si no está).
func (p *UserBehaviorProfile) GenreWeightFor(genre string) float64 {
	for _, gw := range p.FavoriteGenres {
		if strings.EqualFold(gw.Genre, genre) {
			return gw.Weight
		}
	}
	return 0
}
