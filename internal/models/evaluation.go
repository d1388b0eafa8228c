package models

import "time"

// MetricSet agrupa las métricas offline/online de una corrida de evaluación.
// Las llaves de los mapas son el K como string ("5", "10", ...): el encoder
// de bson no acepta llaves int.
type MetricSet struct {
	PrecisionAtK map[string]float64 `json:"precisionAtK" bson:"precisionAtK"`
	RecallAtK    map[string]float64 `json:"recallAtK" bson:"recallAtK"`
	NDCGAtK      map[string]float64 `json:"ndcgAtK" bson:"ndcgAtK"`
	MAP          float64         `json:"map" bson:"map"`
	MRR          float64         `json:"mrr" bson:"mrr"`
	Diversity    float64         `json:"diversity" bson:"diversity"`
	Coverage     float64         `json:"coverage" bson:"coverage"`
	CTR          float64         `json:"ctr" bson:"ctr"`
	WatchRate    float64         `json:"watchRate" bson:"watchRate"`
}

// EvalSnapshot es el registro persistido de una evaluación de modelo,
// usado luego para comparar estrategias lado a lado.
type EvalSnapshot struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	Strategy   string    `json:"strategy" bson:"strategy"`
	Version    string    `json:"version" bson:"version"`
	Metrics    MetricSet `json:"metrics" bson:"metrics"`
	SampleSize int       `json:"sampleSize" bson:"sampleSize"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// ModelComparison es la vista agregada que devuelve CompareModels.
type ModelComparison struct {
	Strategy         string  `json:"strategy"`
	PrecisionAt10    float64 `json:"precisionAt10"`
	RecallAt10       float64 `json:"recallAt10"`
	NDCGAt10         float64 `json:"ndcgAt10"`
	MAP              float64 `json:"map"`
	MRR              float64 `json:"mrr"`
	CTR              float64 `json:"ctr"`
	Diversity        float64 `json:"diversity"`
	EvaluationsCount int     `json:"evaluationsCount"`
}
