package engine

import "strings"

// stopwords en inglés (el catálogo viene de TMDB en inglés).
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "and", "are", "as", "at", "be", "but", "by", "for",
		"from", "had", "has", "have", "he", "her", "his", "i", "if", "in",
		"into", "is", "it", "its", "my", "no", "not", "of", "on", "or",
		"our", "she", "so", "that", "the", "their", "then", "there", "these",
		"they", "this", "to", "was", "we", "were", "what", "when", "which",
		"who", "will", "with", "you", "your", "how", "all", "about", "after",
		"before", "between", "both", "can", "do", "does", "him", "more",
		"most", "only", "other", "out", "over", "own", "same", "some", "than",
		"too", "up", "very", "while", "why", "would",
	} {
		stopwords[w] = struct{}{}
	}
}

// tokenize normaliza a minúsculas, separa por caracteres no alfanuméricos y
// descarta stopwords y tokens de un solo carácter.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() < 2 {
			cur.Reset()
			return
		}
		tok := cur.String()
		cur.Reset()
		if _, skip := stopwords[tok]; skip {
			return
		}
		tokens = append(tokens, tok)
	}
	for _, r := range text {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// ngrams devuelve unigramas + bigramas de una lista de tokens.
func ngrams(tokens []string) []string {
	out := make([]string, 0, len(tokens)*2)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// titleTokens extrae los tokens significativos de un título, para detectar
// franquicias/secuelas por solapamiento.
func titleTokens(title string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range tokenize(title) {
		out[tok] = struct{}{}
	}
	return out
}
