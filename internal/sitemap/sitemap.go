package sitemap

import (
	"encoding/xml"
	"fmt"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Defaults applied to newly appended entries.
const (
	DefaultChangeFreq = "monthly"
	DefaultPriority   = "0.8"
)

// URL is one sitemap entry.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// URLSet is the sitemap document root.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// New returns an empty sitemap document.
func New() *URLSet {
	return &URLSet{Xmlns: xmlns}
}

// Parse decodes an existing sitemap document. Empty input yields a fresh
// document rather than an error, so a missing file bootstraps cleanly.
func Parse(data []byte) (*URLSet, error) {
	if len(data) == 0 {
		return New(), nil
	}
	var set URLSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}
	if set.Xmlns == "" {
		set.Xmlns = xmlns
	}
	return &set, nil
}

// Merge upserts the entry for loc. An existing entry keeps its changefreq
// and priority and only has its lastmod advanced (never regressed); a new
// entry is appended with the fixed defaults. Every other entry is left
// untouched. Reports whether the entry already existed.
func (s *URLSet) Merge(loc, lastMod string) bool {
	for i := range s.URLs {
		if s.URLs[i].Loc == loc {
			// Dates are YYYY-MM-DD, so lexicographic order is
			// chronological order.
			if lastMod > s.URLs[i].LastMod {
				s.URLs[i].LastMod = lastMod
			}
			return true
		}
	}
	s.URLs = append(s.URLs, URL{
		Loc:        loc,
		LastMod:    lastMod,
		ChangeFreq: DefaultChangeFreq,
		Priority:   DefaultPriority,
	})
	return false
}

// Contains reports whether loc already has an entry.
func (s *URLSet) Contains(loc string) bool {
	for _, u := range s.URLs {
		if u.Loc == loc {
			return true
		}
	}
	return false
}

// Encode serializes the document with an XML declaration.
func (s *URLSet) Encode() ([]byte, error) {
	body, err := xml.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}
