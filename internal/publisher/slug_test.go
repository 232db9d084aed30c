package publisher

import "testing"

func TestSlugify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		title  string
		maxLen int
		want   string
	}{
		{"plain", "Guide du jardinage", 80, "guide-du-jardinage"},
		{"accents folded", "Économie d'énergie à la maison", 80, "economie-d-energie-a-la-maison"},
		{"cedilla and enye", "Façon El Niño", 80, "facon-el-nino"},
		{"punctuation runs collapse", "Top 10 : les meilleurs outils !!!", 80, "top-10-les-meilleurs-outils"},
		{"leading and trailing noise", "  --Bonjour le monde--  ", 80, "bonjour-le-monde"},
		{"digits kept", "5 astuces SEO pour 2026", 80, "5-astuces-seo-pour-2026"},
		{"empty title", "", 80, ""},
		{"only punctuation", "!!! ???", 80, ""},
		{"path separators stripped", "../../escape", 80, "escape"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Slugify(tc.title, tc.maxLen); got != tc.want {
				t.Errorf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}

func TestSlugifyTruncatesAtHyphenBoundary(t *testing.T) {
	t.Parallel()

	got := Slugify("les meilleures pratiques", 18)
	if got != "les-meilleures" {
		t.Errorf("expected truncation to back up to a whole word, got %q", got)
	}

	// A cut landing exactly on a boundary keeps the full word.
	got = Slugify("les meilleures pratiques", 14)
	if got != "les-meilleures" {
		t.Errorf("expected exact-boundary cut to keep the word, got %q", got)
	}

	if got := Slugify("les meilleures pratiques", 80); got != "les-meilleures-pratiques" {
		t.Errorf("short slug must not be truncated, got %q", got)
	}
}

func TestSlugifySingleLongWord(t *testing.T) {
	t.Parallel()

	// No hyphen to back up to: a hard cut is the only option.
	got := Slugify("anticonstitutionnellement", 10)
	if got != "anticonsti" {
		t.Errorf("got %q", got)
	}
}
