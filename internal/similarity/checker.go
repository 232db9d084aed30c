package similarity

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/domain"
)

// DefaultThreshold blocks a candidate whose best match scores above it.
const DefaultThreshold = 0.70

// CorpusProvider supplies the texts a candidate is compared against.
type CorpusProvider interface {
	ListCorpus(ctx context.Context) ([]domain.ContentItem, error)
}

// Match is one corpus member ranked against the candidate.
type Match struct {
	ID    int64
	Title string
	Score float64
}

// Report is the outcome of screening one candidate.
type Report struct {
	Score     float64
	Blocked   bool
	Threshold float64
	Matches   []Match
	Compared  int
	Message   string
}

// Checker screens candidate texts against the published+draft corpus.
//
// Vocabulary and IDF weights are derived jointly from the candidate plus
// the corpus on every call, so scores are deterministic for a fixed corpus
// snapshot but shift as the corpus grows.
type Checker struct {
	corpus    CorpusProvider
	threshold float64
	logger    *slog.Logger
}

// NewChecker wires the corpus provider. A non-positive threshold falls
// back to DefaultThreshold.
func NewChecker(corpus CorpusProvider, threshold float64, logger *slog.Logger) *Checker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{corpus: corpus, threshold: threshold, logger: logger}
}

// CheckOption tweaks a single screening call.
type CheckOption func(*checkOptions)

type checkOptions struct {
	excludeID int64
}

// WithExcludeID removes one corpus member from the comparison, used when
// re-screening an item against a corpus that already contains it.
func WithExcludeID(id int64) CheckOption {
	return func(o *checkOptions) { o.excludeID = id }
}

// Check computes the candidate's duplication score: the maximum cosine
// similarity against every corpus member. Blocking is a strict
// score > threshold comparison.
func (c *Checker) Check(ctx context.Context, candidate string, opts ...CheckOption) (Report, error) {
	if candidate == "" {
		return Report{}, domain.ErrEmptyCandidate
	}

	var options checkOptions
	for _, opt := range opts {
		opt(&options)
	}

	items, err := c.corpus.ListCorpus(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load corpus: %w", err)
	}
	if options.excludeID != 0 {
		filtered := make([]domain.ContentItem, 0, len(items))
		for _, item := range items {
			if item.ID != options.excludeID {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	if len(items) == 0 {
		c.logger.Info("no existing content to compare against")
		return Report{
			Score:     0.0,
			Blocked:   false,
			Threshold: c.threshold,
			Matches:   []Match{},
			Compared:  0,
			Message:   "first content, no comparison possible",
		}, nil
	}

	candidateTokens := tokenize(normalize(candidate))
	corpusTokens := make([][]string, len(items))
	for i, item := range items {
		corpusTokens[i] = tokenize(normalize(item.Body()))
	}

	allDocs := append([][]string{candidateTokens}, corpusTokens...)
	vocab := vocabulary(allDocs...)
	idf := inverseDocFrequency(allDocs, vocab)

	candidateVec := tfidfVector(termFrequency(candidateTokens), idf, vocab)

	matches := make([]Match, len(items))
	for i, item := range items {
		vec := tfidfVector(termFrequency(corpusTokens[i]), idf, vocab)
		matches[i] = Match{
			ID:    item.ID,
			Title: item.Title,
			Score: round4(cosine(candidateVec, vec)),
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	maxScore := matches[0].Score
	blocked := maxScore > c.threshold

	report := Report{
		Score:     maxScore,
		Blocked:   blocked,
		Threshold: c.threshold,
		Matches:   matches[:min(5, len(matches))],
		Compared:  len(items),
	}

	if blocked {
		report.Message = fmt.Sprintf("content too similar to %q (%.1f%%)", matches[0].Title, maxScore*100)
		c.logger.Warn("duplicate content blocked", "score", maxScore, "match", matches[0].Title)
	} else {
		report.Message = fmt.Sprintf("similarity acceptable: %.1f%%", maxScore*100)
		c.logger.Info("similarity check passed", "score", maxScore, "compared", len(items))
	}

	return report, nil
}

// CorpusAverage computes the mean pairwise similarity across the whole
// published+draft corpus, feeding the circuit breaker's duplication
// signal.
//
// Full pairwise comparison, O(n²) in corpus size. Fine for the corpus
// sizes a single site accumulates; a scaling ceiling beyond that.
func (c *Checker) CorpusAverage(ctx context.Context) (float64, error) {
	items, err := c.corpus.ListCorpus(ctx)
	if err != nil {
		return 0, fmt.Errorf("load corpus: %w", err)
	}
	if len(items) < 2 {
		return 0.0, nil
	}

	docs := make([][]string, len(items))
	for i, item := range items {
		docs[i] = tokenize(normalize(item.Body()))
	}

	vocab := vocabulary(docs...)
	idf := inverseDocFrequency(docs, vocab)

	vectors := make([][]float64, len(docs))
	for i, doc := range docs {
		vectors[i] = tfidfVector(termFrequency(doc), idf, vocab)
	}

	var total float64
	pairs := 0
	for i := 0; i < len(vectors); i++ {
		for j := i + 1; j < len(vectors); j++ {
			total += cosine(vectors[i], vectors[j])
			pairs++
		}
	}

	average := round4(total / float64(pairs))
	c.logger.Info("corpus average similarity", "average", average, "pairs", pairs)
	return average, nil
}
