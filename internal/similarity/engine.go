package similarity

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Stop words for French content; filtered out before any weighting so
// that function words never contribute to a duplication score.
var stopWords = map[string]struct{}{
	"le": {}, "la": {}, "les": {}, "un": {}, "une": {}, "des": {}, "du": {},
	"de": {}, "et": {}, "en": {}, "est": {}, "que": {}, "qui": {}, "dans": {},
	"pour": {}, "sur": {}, "avec": {}, "par": {}, "au": {}, "aux": {}, "ce": {},
	"cette": {}, "ces": {}, "son": {}, "sa": {}, "ses": {}, "leur": {},
	"leurs": {}, "notre": {}, "votre": {}, "nous": {}, "vous": {}, "il": {},
	"elle": {}, "ils": {}, "elles": {}, "je": {}, "tu": {}, "on": {}, "se": {},
	"ne": {}, "pas": {}, "plus": {}, "mais": {}, "ou": {}, "donc": {},
	"car": {}, "ni": {}, "si": {}, "tout": {}, "tous": {}, "toutes": {},
	"comme": {}, "aussi": {}, "bien": {}, "peut": {}, "fait": {}, "faire": {},
	"avoir": {}, "etre": {}, "sont": {}, "ont": {}, "a": {}, "y": {},
	"dont": {}, "cela": {}, "ceci": {},
}

var (
	nonWordRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	digitsRe     = regexp.MustCompile(`\p{N}+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// normalize strips markup, punctuation and digits, lowercases, and
// collapses whitespace. Markup is removed with an HTML parse so entities
// and nested tags are handled the same way the site renders them.
func normalize(text string) string {
	if strings.Contains(text, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = doc.Text()
		}
	}
	text = nonWordRe.ReplaceAllString(text, " ")
	text = digitsRe.ReplaceAllString(text, " ")
	text = strings.ToLower(text)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// tokenize splits normalized text on whitespace, dropping stop words and
// tokens of length <= 2.
func tokenize(text string) []string {
	var tokens []string
	for _, w := range strings.Fields(text) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if utf8.RuneCountInString(w) <= 2 {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// termFrequency maps each token to count/total. A zero-token document
// yields an empty map.
func termFrequency(tokens []string) map[string]float64 {
	if len(tokens) == 0 {
		return map[string]float64{}
	}
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	total := float64(len(tokens))
	tf := make(map[string]float64, len(counts))
	for t, c := range counts {
		tf[t] = float64(c) / total
	}
	return tf
}

// inverseDocFrequency computes idf(t) = ln((N+1)/(df(t)+1)) + 1 over the
// given document set. The +1 smoothing guarantees no zero or undefined
// weights.
func inverseDocFrequency(docs [][]string, vocab []string) map[string]float64 {
	n := float64(len(docs))
	membership := make([]map[string]struct{}, len(docs))
	for i, doc := range docs {
		set := make(map[string]struct{}, len(doc))
		for _, t := range doc {
			set[t] = struct{}{}
		}
		membership[i] = set
	}

	idf := make(map[string]float64, len(vocab))
	for _, term := range vocab {
		df := 0.0
		for _, set := range membership {
			if _, ok := set[term]; ok {
				df++
			}
		}
		idf[term] = math.Log((n+1)/(df+1)) + 1
	}
	return idf
}

// vocabulary returns the sorted union of all document tokens. The fixed
// lexicographic ordering keeps TF-IDF vectors comparable.
func vocabulary(docs ...[]string) []string {
	set := map[string]struct{}{}
	for _, doc := range docs {
		for _, t := range doc {
			set[t] = struct{}{}
		}
	}
	vocab := make([]string, 0, len(set))
	for t := range set {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)
	return vocab
}

// tfidfVector builds the weighted term vector in vocabulary order.
func tfidfVector(tf, idf map[string]float64, vocab []string) []float64 {
	vec := make([]float64, len(vocab))
	for i, term := range vocab {
		vec[i] = tf[term] * idf[term]
	}
	return vec
}

// cosine returns the cosine similarity of two equal-length vectors, or
// 0.0 when either norm is zero.
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
