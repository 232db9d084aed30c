package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/config"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/domain"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/ports"
)

// Generator produces candidate articles through an OpenAI-compatible chat
// completions API.
type Generator struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
	converter    *md.Converter
}

var _ ports.Generator = (*Generator)(nil)

// NewGenerator builds a client from configuration.
func NewGenerator(cfg config.GeneratorConfig) *Generator {
	return &Generator{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		converter: md.NewConverter("", true, nil),
	}
}

// article is the JSON shape the model is instructed to return.
type article struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	MetaDescription string   `json:"meta_description"`
	Keywords        []string `json:"keywords"`
	ContentHTML     string   `json:"content_html"`
	ContentMD       string   `json:"content_md"`
}

// Generate requests one article for the brief and returns it as a
// structured candidate. The markdown rendering is derived from the HTML
// when the model omits it.
func (g *Generator) Generate(ctx context.Context, brief string, keywords []string) (domain.GeneratedContent, error) {
	if g == nil || g.httpClient == nil {
		return domain.GeneratedContent{}, fmt.Errorf("generator is nil")
	}
	if g.apiKey == "" || g.endpoint == "" || g.model == "" {
		return domain.GeneratedContent{}, fmt.Errorf("generator misconfigured")
	}
	if brief == "" {
		return domain.GeneratedContent{}, fmt.Errorf("brief is required")
	}

	userPrompt := brief
	if len(keywords) > 0 {
		userPrompt = fmt.Sprintf("%s\n\nMots-clés à inclure: %s", brief, strings.Join(keywords, ", "))
	}

	body, err := json.Marshal(map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt(g.systemPrompt)},
			{"role": "user", "content": userPrompt},
		},
		"response_format": map[string]string{"type": "json_object"},
	})
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("generate content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.GeneratedContent{}, fmt.Errorf("generator error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return domain.GeneratedContent{}, fmt.Errorf("generator returned no choices")
	}

	var art article
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &art); err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("parse article JSON: %w", err)
	}
	if art.Title == "" || art.ContentHTML == "" {
		return domain.GeneratedContent{}, fmt.Errorf("generator returned incomplete article")
	}

	markdown := art.ContentMD
	if markdown == "" {
		markdown, err = g.converter.ConvertString(art.ContentHTML)
		if err != nil {
			return domain.GeneratedContent{}, fmt.Errorf("convert html to markdown: %w", err)
		}
	}

	return domain.GeneratedContent{
		Title:    art.Title,
		Slug:     art.Slug,
		HTML:     art.ContentHTML,
		Markdown: markdown,
		Summary:  art.MetaDescription,
		Keywords: art.Keywords,
	}, nil
}

func systemPrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = "Tu es un expert en rédaction SEO."
	}
	return prompt + `

Réponds uniquement en JSON:
{
  "title": "Titre H1 optimisé SEO",
  "slug": "titre-url-friendly",
  "meta_description": "Description meta de 150-160 caractères",
  "keywords": ["mot-clé1", "mot-clé2"],
  "content_html": "<article>Contenu HTML complet</article>",
  "content_md": "# Contenu en Markdown"
}`
}
