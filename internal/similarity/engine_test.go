package similarity

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	got := normalize("<article><h1>Guide SEO 2024</h1><p>Le référencement, c'est essentiel!</p></article>")
	want := "guide seo le référencement c est essentiel"
	if got != want {
		t.Fatalf("normalize = %q, want %q", got, want)
	}
}

func TestNormalizePlainText(t *testing.T) {
	t.Parallel()

	got := normalize("  Des   espaces\tmultiples, et 42 chiffres. ")
	want := "des espaces multiples et chiffres"
	if got != want {
		t.Fatalf("normalize = %q, want %q", got, want)
	}
}

func TestTokenizeDropsStopWordsAndShortTokens(t *testing.T) {
	t.Parallel()

	tokens := tokenize("le chat noir et un tapis ok")
	want := []string{"chat", "noir", "tapis"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("tokens[%d] = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestTermFrequency(t *testing.T) {
	t.Parallel()

	tf := termFrequency([]string{"chat", "chat", "noir", "tapis"})
	if tf["chat"] != 0.5 {
		t.Fatalf("tf[chat] = %f, want 0.5", tf["chat"])
	}
	if tf["noir"] != 0.25 {
		t.Fatalf("tf[noir] = %f, want 0.25", tf["noir"])
	}

	empty := termFrequency(nil)
	if len(empty) != 0 {
		t.Fatalf("expected empty tf map, got %v", empty)
	}
}

func TestInverseDocFrequencySmoothing(t *testing.T) {
	t.Parallel()

	docs := [][]string{{"chat", "noir"}, {"chat", "tapis"}}
	idf := inverseDocFrequency(docs, []string{"chat", "noir", "tapis", "absent"})

	// Term in every document: ln(3/3)+1 = 1.
	if math.Abs(idf["chat"]-1.0) > 1e-9 {
		t.Fatalf("idf[chat] = %f, want 1.0", idf["chat"])
	}
	// Term in one document: ln(3/2)+1.
	want := math.Log(1.5) + 1
	if math.Abs(idf["noir"]-want) > 1e-9 {
		t.Fatalf("idf[noir] = %f, want %f", idf["noir"], want)
	}
	// Smoothing keeps unseen terms finite and positive.
	if idf["absent"] <= 0 {
		t.Fatalf("idf[absent] = %f, want > 0", idf["absent"])
	}
}

func TestCosine(t *testing.T) {
	t.Parallel()

	if got := cosine([]float64{1, 0}, []float64{1, 0}); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("identical vectors: cosine = %f, want 1.0", got)
	}
	if got := cosine([]float64{1, 0}, []float64{0, 1}); got != 0.0 {
		t.Fatalf("orthogonal vectors: cosine = %f, want 0.0", got)
	}
	if got := cosine([]float64{0, 0}, []float64{1, 1}); got != 0.0 {
		t.Fatalf("zero norm: cosine = %f, want 0.0", got)
	}
}

func TestVocabularyIsSortedUnion(t *testing.T) {
	t.Parallel()

	vocab := vocabulary([]string{"noir", "chat"}, []string{"tapis", "chat"})
	want := []string{"chat", "noir", "tapis"}
	if len(vocab) != len(want) {
		t.Fatalf("vocab = %v, want %v", vocab, want)
	}
	for i := range want {
		if vocab[i] != want[i] {
			t.Fatalf("vocab[%d] = %q, want %q", i, vocab[i], want[i])
		}
	}
}
