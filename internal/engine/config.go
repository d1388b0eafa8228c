package engine

import "time"

// FusionWeights son los pesos fijos del blend híbrido.
// Son constantes afinadas a mano, no suman 1 a propósito.
type FusionWeights struct {
	Content       float64
	Collaborative float64
	Personalized  float64
	Popularity    float64
}

// Config agrupa todas las constantes del motor en un solo lugar
// para que se puedan testear y ajustar sin buscar números sueltos.
type Config struct {
	// bonos del content scorer
	GenreBonusPerMatch float64 // por género compartido
	GenreBonusCap      float64 // tope del bono por géneros
	TitleTokenBonus    float64 // token significativo del título en común (franquicias)
	DirectorBonus      float64
	YearBonus          float64
	YearWindow         int // ± años para el bono de cercanía
	QualityBonus       float64
	QualityThreshold   float64 // voteAverage mínimo para el bono

	// collaborative
	GenreBoost   float64 // multiplicador si comparte género con los ≥4 estrellas del usuario
	LikedMinStar float64 // umbral de "le gustó"

	// personalized
	GenreMatchWeight  float64 // peso del match de géneros favoritos
	MultiGenreBonus   float64 // bono plano por matchear ≥2 géneros
	RecentGenreBonus  float64
	TimeOfDayBonus    float64
	QualityTierHigh   float64 // voteAverage ≥ 7.0
	QualityTierMid    float64 // voteAverage ≥ 6.0
	DecadeBonus       float64
	MinPersonalScore  float64 // descarta candidatos por debajo de esto
	MaxPerGenre       int     // tope de diversidad por género
	ProfileWindow     int     // últimos N eventos para el perfil
	RecentGenreWindow time.Duration

	// feature index
	MaxFeatures int // vocabulario acotado
	MinDocFreq  int

	// fusión
	Fusion FusionWeights

	// ciclo de vida de snapshots / caches internos
	MatrixTTL  time.Duration // rebuild del user×item y del índice de features
	ProfileTTL time.Duration
	PopularTTL time.Duration

	// popularidad
	PopularWindow time.Duration // ventana de eventos para el ranking popular
	PopularPool   int           // tamaño del snapshot precomputado
}

// DefaultConfig devuelve las constantes de producto. No "arreglar" los
// valores aunque parezcan inconsistentes: vienen afinados así.
func DefaultConfig() Config {
	return Config{
		GenreBonusPerMatch: 0.10,
		GenreBonusCap:      0.40,
		TitleTokenBonus:    0.30,
		DirectorBonus:      0.05,
		YearBonus:          0.05,
		YearWindow:         5,
		QualityBonus:       0.03,
		QualityThreshold:   6.0,

		GenreBoost:   1.15,
		LikedMinStar: 4.0,

		GenreMatchWeight:  0.4,
		MultiGenreBonus:   0.1,
		RecentGenreBonus:  0.2,
		TimeOfDayBonus:    0.2,
		QualityTierHigh:   0.2,
		QualityTierMid:    0.1,
		DecadeBonus:       0.1,
		MinPersonalScore:  0.2,
		MaxPerGenre:       3,
		ProfileWindow:     100,
		RecentGenreWindow: 7 * 24 * time.Hour,

		MaxFeatures: 5000,
		MinDocFreq:  2,

		Fusion: FusionWeights{
			Content:       0.3,
			Collaborative: 0.4,
			Personalized:  0.5,
			Popularity:    0.2,
		},

		MatrixTTL:  10 * time.Minute,
		ProfileTTL: 5 * time.Minute,
		PopularTTL: 10 * time.Minute,

		PopularWindow: 30 * 24 * time.Hour,
		PopularPool:   100,
	}
}
