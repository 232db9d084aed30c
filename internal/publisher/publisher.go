package publisher

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/config"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/domain"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/ports"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/sitemap"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} | {{.SiteName}}</title>
<meta name="description" content="{{.Summary}}">
{{if .Keywords}}<meta name="keywords" content="{{.Keywords}}">
{{end}}<link rel="canonical" href="{{.URL}}">
<meta property="og:type" content="article">
<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.Summary}}">
<meta property="og:url" content="{{.URL}}">
</head>
<body>
<article>
<h1>{{.Title}}</h1>
<p class="published">Publié le {{.Date}}</p>
{{.Body}}
</article>
</body>
</html>
`

type pageData struct {
	Title    string
	SiteName string
	Summary  string
	Keywords string
	URL      string
	Date     string
	Body     template.HTML
}

// Result describes the outcome of a publish or unpublish call.
type Result struct {
	ContentID        int64
	Title            string
	Slug             string
	URL              string
	Path             string
	AlreadyPublished bool
	SitemapUpdated   bool
	PublishedAt      time.Time
}

// Publisher renders approved content into the site root and keeps the
// sitemap and the content record in step with what is actually on disk.
type Publisher struct {
	contents ports.ContentRepository
	store    ports.SiteStore
	site     config.SiteConfig
	slugMax  int
	tmpl     *template.Template
	logger   *slog.Logger
	now      func() time.Time
}

// New builds a Publisher over the given content repository and site store.
func New(contents ports.ContentRepository, store ports.SiteStore, site config.SiteConfig, pub config.PublishingConfig, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		contents: contents,
		store:    store,
		site:     site,
		slugMax:  pub.SlugMaxLength,
		tmpl:     template.Must(template.New("page").Parse(pageTemplate)),
		logger:   logger.With("component", "publisher"),
		now:      time.Now,
	}
}

// Publish renders the item, writes the artifact, merges the sitemap entry
// and only then marks the record published, persisting the slug the
// artifact lives under. Publishing an item whose
// artifact already exists, or whose record is already published, is a
// benign no-op reported through AlreadyPublished. A render or write
// failure leaves the record status untouched.
func (p *Publisher) Publish(ctx context.Context, id int64) (Result, error) {
	item, err := p.contents.GetContent(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("load content %d: %w", id, err)
	}

	if item.Status == domain.StatusPublished {
		p.logger.Info("content already published", "id", id, "slug", item.Slug)
		return Result{ContentID: id, Title: item.Title, Slug: item.Slug, URL: item.URL, AlreadyPublished: true}, nil
	}

	if strings.TrimSpace(item.BodyHTML) == "" {
		return Result{}, fmt.Errorf("content %d: %w", id, domain.ErrMissingBody)
	}

	slug := p.slugFor(item)
	if slug == "" {
		return Result{}, fmt.Errorf("content %d: no usable slug from title %q", id, item.Title)
	}

	exists, err := p.store.ArtifactExists(slug)
	if err != nil {
		return Result{}, fmt.Errorf("probe artifact %s: %w", slug, err)
	}
	if exists {
		p.logger.Info("artifact already on disk, publish skipped", "id", id, "slug", slug)
		return Result{ContentID: id, Title: item.Title, Slug: slug, AlreadyPublished: true}, nil
	}

	now := p.now()
	url := p.articleURL(slug)

	page, err := p.renderPage(item, url, now)
	if err != nil {
		return Result{}, fmt.Errorf("render content %d: %w", id, err)
	}

	path, err := p.store.WriteArtifact(slug, page)
	if err != nil {
		return Result{}, fmt.Errorf("write artifact %s: %w", slug, err)
	}

	sitemapUpdated := p.mergeSitemap(url, now)

	if err := p.contents.MarkPublished(ctx, id, slug, url, now); err != nil {
		return Result{}, fmt.Errorf("mark content %d published: %w", id, err)
	}

	p.logger.Info("content published", "id", id, "slug", slug, "url", url, "sitemap", sitemapUpdated)

	return Result{
		ContentID:      id,
		Title:          item.Title,
		Slug:           slug,
		URL:            url,
		Path:           path,
		SitemapUpdated: sitemapUpdated,
		PublishedAt:    now,
	}, nil
}

// Unpublish removes the artifact (missing is fine) and flips the record to
// unpublished. The content row itself is preserved.
func (p *Publisher) Unpublish(ctx context.Context, id int64) (Result, error) {
	item, err := p.contents.GetContent(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("load content %d: %w", id, err)
	}

	slug := p.slugFor(item)

	if slug != "" {
		if err := p.store.RemoveArtifact(slug); err != nil {
			return Result{}, fmt.Errorf("remove artifact %s: %w", slug, err)
		}
	}

	if err := p.contents.MarkUnpublished(ctx, id); err != nil {
		return Result{}, fmt.Errorf("mark content %d unpublished: %w", id, err)
	}

	p.logger.Info("content unpublished", "id", id, "slug", slug)
	return Result{ContentID: id, Title: item.Title, Slug: slug}, nil
}

// Approve moves a pending item into the approved state, making it eligible
// for the next publish slot.
func (p *Publisher) Approve(ctx context.Context, id int64) error {
	if err := p.contents.UpdateStatus(ctx, id, domain.StatusApproved); err != nil {
		return fmt.Errorf("approve content %d: %w", id, err)
	}
	p.logger.Info("content approved", "id", id)
	return nil
}

// Reject marks a pending item rejected. The record stays in the store so
// the similarity corpus and the audit trail keep their history.
func (p *Publisher) Reject(ctx context.Context, id int64, reason string) error {
	if err := p.contents.UpdateStatus(ctx, id, domain.StatusRejected); err != nil {
		return fmt.Errorf("reject content %d: %w", id, err)
	}
	p.logger.Info("content rejected", "id", id, "reason", reason)
	return nil
}

// Archive retires an item from every active queue. The record and its
// history stay in the store.
func (p *Publisher) Archive(ctx context.Context, id int64) error {
	if err := p.contents.UpdateStatus(ctx, id, domain.StatusArchived); err != nil {
		return fmt.Errorf("archive content %d: %w", id, err)
	}
	p.logger.Info("content archived", "id", id)
	return nil
}

// slugFor re-derives the slug even when the record carries one: a stored
// slug may come from the external generator and is never trusted as a
// path component. Only [a-z0-9-] ever reaches the filesystem.
func (p *Publisher) slugFor(item domain.ContentItem) string {
	slug := Slugify(item.Slug, p.slugMax)
	if slug == "" {
		slug = Slugify(item.Title, p.slugMax)
	}
	return slug
}

func (p *Publisher) articleURL(slug string) string {
	return strings.TrimRight(p.site.BaseURL, "/") + "/blog/" + slug + "/"
}

func (p *Publisher) renderPage(item domain.ContentItem, url string, now time.Time) ([]byte, error) {
	data := pageData{
		Title:    item.Title,
		SiteName: p.site.Name,
		Summary:  item.Summary,
		Keywords: strings.Join(item.Keywords, ", "),
		URL:      url,
		Date:     now.Format("02/01/2006"),
		Body:     template.HTML(item.BodyHTML),
	}
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// mergeSitemap upserts the URL into the sitemap. Failures here are logged
// and tolerated: the artifact is already live and the next publish run
// will repair the index.
func (p *Publisher) mergeSitemap(url string, now time.Time) bool {
	raw, err := p.store.ReadSitemap()
	if err != nil {
		p.logger.Warn("sitemap read failed", "error", err)
		return false
	}
	doc, err := sitemap.Parse(raw)
	if err != nil {
		p.logger.Warn("sitemap parse failed", "error", err)
		return false
	}
	doc.Merge(url, now.Format("2006-01-02"))
	out, err := doc.Encode()
	if err != nil {
		p.logger.Warn("sitemap encode failed", "error", err)
		return false
	}
	if err := p.store.WriteSitemap(out); err != nil {
		p.logger.Warn("sitemap write failed", "error", err)
		return false
	}
	return true
}
