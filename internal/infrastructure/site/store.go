package site

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/ports"
)

const sitemapFile = "sitemap.xml"

// Store is the filesystem site root: rendered articles live under
// blog/<slug>/index.html next to sitemap.xml.
type Store struct {
	rootDir string
}

var _ ports.SiteStore = (*Store)(nil)

// NewStore binds the site root directory.
func NewStore(rootDir string) *Store {
	return &Store{rootDir: rootDir}
}

func (s *Store) articlePath(slug string) string {
	return filepath.Join(s.rootDir, "blog", slug, "index.html")
}

// ArtifactExists reports whether the slug already has a rendered page.
func (s *Store) ArtifactExists(slug string) (bool, error) {
	_, err := os.Stat(s.articlePath(slug))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat artifact: %w", err)
	}
	return true, nil
}

// WriteArtifact persists the rendered page and returns its path.
func (s *Store) WriteArtifact(slug string, html []byte) (string, error) {
	path := s.articlePath(slug)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create article dir: %w", err)
	}
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

// RemoveArtifact deletes the slug's directory. A missing artifact is not
// an error so unpublish stays idempotent.
func (s *Store) RemoveArtifact(slug string) error {
	dir := filepath.Dir(s.articlePath(slug))
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove artifact: %w", err)
	}
	return nil
}

// ReadSitemap returns the current URL index document, or nil when none
// exists yet.
func (s *Store) ReadSitemap() ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.rootDir, sitemapFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sitemap: %w", err)
	}
	return data, nil
}

// WriteSitemap replaces the URL index document.
func (s *Store) WriteSitemap(data []byte) error {
	if err := os.MkdirAll(s.rootDir, 0o755); err != nil {
		return fmt.Errorf("create site root: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.rootDir, sitemapFile), data, 0o644); err != nil {
		return fmt.Errorf("write sitemap: %w", err)
	}
	return nil
}
