// Package scoring rates replies against their peers and composes scorers
// with weights. Two text similarity metrics live here: TF-IDF cosine for
// semantic scoring and Jaccard token overlap for consensus voting.
package scoring

import (
	"math"
	"strings"
	"unicode"
)

const delimiters = `,.;:!?()[]{}"'`

const magnitudeEpsilon = 1e-10

// Tokenize splits text on whitespace and punctuation, lowercases the
// tokens and drops those of length one or less.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(delimiters, r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		token := strings.ToLower(f)
		if len(token) > 1 {
			tokens = append(tokens, token)
		}
	}

	return tokens
}

// TokenSet returns the distinct tokens of text.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range Tokenize(text) {
		set[token] = struct{}{}
	}

	return set
}

// Jaccard returns |A ∩ B| / |A ∪ B| over the token sets of the two texts.
// Two empty sets count as identical.
func Jaccard(a, b string) float64 {
	setA := TokenSet(a)
	setB := TokenSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	intersection := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 1.0
	}

	return float64(intersection) / float64(union)
}

// TFIDFCosine returns the cosine similarity of the two texts vectorised
// over the union of their token sets with TF·IDF weights. When no corpus
// is supplied, the two texts form it. The result is clamped to 0 when
// either vector's magnitude is negligible.
func TFIDFCosine(a, b string, corpus []string) float64 {
	countsA := termCounts(a)
	countsB := termCounts(b)

	if len(countsA) == 0 || len(countsB) == 0 {
		return 0.0
	}

	if len(corpus) == 0 {
		corpus = []string{a, b}
	}

	df := documentFrequencies(corpus)
	n := float64(len(corpus))

	union := make(map[string]struct{}, len(countsA)+len(countsB))
	for term := range countsA {
		union[term] = struct{}{}
	}
	for term := range countsB {
		union[term] = struct{}{}
	}

	var dot, magA, magB float64
	for term := range union {
		idf := 0.0
		if d := df[term]; d > 0 {
			idf = math.Log(n/float64(d)) + 1
		}

		wa := tf(countsA[term]) * idf
		wb := tf(countsB[term]) * idf

		dot += wa * wb
		magA += wa * wa
		magB += wb * wb
	}

	magA = math.Sqrt(magA)
	magB = math.Sqrt(magB)

	if magA < magnitudeEpsilon || magB < magnitudeEpsilon {
		return 0.0
	}

	similarity := dot / (magA * magB)

	return math.Max(0, math.Min(1, similarity))
}

func tf(count int) float64 {
	if count < 1 {
		return 0.0
	}

	return 1 + math.Log(float64(count))
}

func termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, token := range Tokenize(text) {
		counts[token]++
	}

	return counts
}

func documentFrequencies(corpus []string) map[string]int {
	df := make(map[string]int)
	for _, doc := range corpus {
		for term := range TokenSet(doc) {
			df[term]++
		}
	}

	return df
}
