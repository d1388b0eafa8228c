package engine

import (
	"math"
	"sort"
	"strings"
	"time"

	"filmflow-core/internal/models"
)

// Pesos de cada campo textual al armar el documento de una película.
// Los géneros dominan; el tagline apenas aporta.
const (
	weightGenres   = 7
	weightOverview = 4
	weightKeywords = 3
	weightDirector = 1
	weightCast     = 1
	weightTagline  = 1
	topCast        = 3
)

// sparseVec es un vector disperso término→peso, normalizado L2.
type sparseVec map[int]float64

// dot asume ambos vectores normalizados, así que esto ES la similitud coseno.
func (v sparseVec) dot(other sparseVec) float64 {
	// iterar el más corto
	if len(other) < len(v) {
		v, other = other, v
	}
	var sum float64
	for term, w := range v {
		if ow, ok := other[term]; ok {
			sum += w * ow
		}
	}
	return sum
}

// FeatureIndex es el snapshot inmutable de vectores TF-IDF del catálogo.
// Nunca se muta: un rebuild construye uno nuevo y se swapea la referencia.
type FeatureIndex struct {
	rows    []sparseVec
	itemIdx map[int]int // movieId -> fila
	items   []int       // fila -> movieId
	vocab   map[string]int
	builtAt time.Time
}

// Len devuelve cuántas películas tiene indexadas.
func (ix *FeatureIndex) Len() int { return len(ix.rows) }

// Row devuelve el vector de una película (nil si no está indexada).
func (ix *FeatureIndex) Row(movieID int) sparseVec {
	i, ok := ix.itemIdx[movieID]
	if !ok {
		return nil
	}
	return ix.rows[i]
}

// Similarity es el coseno entre dos películas indexadas (0 si falta alguna).
func (ix *FeatureIndex) Similarity(a, b int) float64 {
	ra, rb := ix.Row(a), ix.Row(b)
	if ra == nil || rb == nil {
		return 0
	}
	return ra.dot(rb)
}

// movieDocument arma el texto ponderado de una película. Campos ausentes
// aportan cadena vacía, nunca error.
func movieDocument(m *models.MovieDoc) []string {
	var parts []string
	repeat := func(s string, times int) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		for i := 0; i < times; i++ {
			parts = append(parts, s)
		}
	}

	for _, g := range m.Genres {
		repeat(g, weightGenres)
	}
	repeat(m.Overview, weightOverview)
	for _, kw := range m.Keywords {
		repeat(kw, weightKeywords)
	}
	repeat(m.Director, weightDirector)
	for i, c := range m.Cast {
		if i >= topCast {
			break
		}
		repeat(c.Name, weightCast)
	}
	repeat(m.Tagline, weightTagline)

	raw := tokenize(strings.Join(parts, " "))
	return ngrams(raw)
}

// BuildFeatureIndex vectoriza el catálogo con TF-IDF sobre un vocabulario
// acotado (top maxFeatures términos, frecuencia documental mínima minDF).
// Catálogo vacío produce un índice vacío, no un error.
func BuildFeatureIndex(movies []models.MovieDoc, maxFeatures, minDF int) *FeatureIndex {
	ix := &FeatureIndex{
		itemIdx: make(map[int]int),
		vocab:   make(map[string]int),
		builtAt: time.Now(),
	}
	if len(movies) == 0 {
		return ix
	}

	// 1) conteos de términos por documento + frecuencia documental
	termCounts := make([]map[string]int, len(movies))
	docFreq := make(map[string]int)
	collFreq := make(map[string]int)

	for i := range movies {
		counts := make(map[string]int)
		for _, term := range movieDocument(&movies[i]) {
			counts[term]++
		}
		termCounts[i] = counts
		for term, c := range counts {
			docFreq[term]++
			collFreq[term] += c
		}
		ix.itemIdx[movies[i].MovieID] = i
		ix.items = append(ix.items, movies[i].MovieID)
	}

	// 2) vocabulario: descartar df < minDF, quedarse con los top maxFeatures
	// por frecuencia total (desempate alfabético para determinismo)
	type termStat struct {
		term string
		freq int
	}
	var candidates []termStat
	for term, df := range docFreq {
		if df >= minDF {
			candidates = append(candidates, termStat{term, collFreq[term]})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].freq != candidates[j].freq {
			return candidates[i].freq > candidates[j].freq
		}
		return candidates[i].term < candidates[j].term
	})
	if maxFeatures > 0 && len(candidates) > maxFeatures {
		candidates = candidates[:maxFeatures]
	}
	for i, c := range candidates {
		ix.vocab[c.term] = i
	}

	// 3) idf suavizado: log((1+N)/(1+df)) + 1
	n := float64(len(movies))
	idf := make([]float64, len(candidates))
	for term, col := range ix.vocab {
		idf[col] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	// 4) filas tf·idf normalizadas L2
	ix.rows = make([]sparseVec, len(movies))
	for i, counts := range termCounts {
		row := make(sparseVec)
		var norm float64
		for term, tf := range counts {
			col, ok := ix.vocab[term]
			if !ok {
				continue
			}
			w := float64(tf) * idf[col]
			row[col] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for col := range row {
				row[col] /= norm
			}
		}
		ix.rows[i] = row
	}

	return ix
}
