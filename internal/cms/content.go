// Package cms loads editorial content (markdown pages and testimonial videos) from the
// content directory and caches it in memory.
package cms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

const (
	defaultContentDir = "content"
	defaultCacheTTL   = 5 * time.Minute
	pagesDir          = "pages"
)

// ErrNotFound is returned when the requested content does not exist.
var ErrNotFound = errors.New("cms: not found")

// Page is a rendered markdown page.
type Page struct {
	Slug      string
	Title     string
	Summary   string
	HTML      template.HTML
	UpdatedAt time.Time
	SEO       PageSEO
}

// PageSEO holds optional metadata overrides from front matter.
type PageSEO struct {
	Title       string
	Description string
	OGImage     string
}

type frontMatter struct {
	Title     string `yaml:"title"`
	Summary   string `yaml:"summary"`
	UpdatedAt string `yaml:"updated_at"`
	SEO       struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		OGImage     string `yaml:"og_image"`
	} `yaml:"seo"`
}

type cacheEntry[T any] struct {
	value   T
	expires time.Time
}

// Client reads content from disk. Parsed results are cached for the configured TTL.
type Client struct {
	dir    string
	ttl    time.Duration
	now    func() time.Time
	md     goldmark.Markdown
	policy *bluemonday.Policy

	mu           sync.RWMutex
	pages        map[string]cacheEntry[Page]
	testimonials *cacheEntry[Testimonials]
}

// Option customises a Client.
type Option func(*Client)

// WithCacheTTL overrides how long parsed content is reused. Zero or negative disables caching.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) { c.ttl = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient returns a Client reading from dir.
func NewClient(dir string, opts ...Option) *Client {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultContentDir
	}
	c := &Client{
		dir: dir,
		ttl: defaultCacheTTL,
		now: time.Now,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Typographer),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
		policy: newContentPolicy(),
		pages:  map[string]cacheEntry[Page]{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Page loads content/pages/<slug>.md.
func (c *Client) Page(ctx context.Context, slug string) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Page{}, ErrNotFound
	}

	if page, ok := c.cachedPage(slug); ok {
		return page, nil
	}

	page, err := c.readPage(slug)
	if err != nil {
		return Page{}, err
	}
	c.storePage(slug, page)
	return page, nil
}

func (c *Client) readPage(slug string) (Page, error) {
	file := filepath.Join(c.dir, pagesDir, slug+".md")
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return Page{}, ErrNotFound
	}
	if err != nil {
		return Page{}, fmt.Errorf("cms: read %s: %w", file, err)
	}

	fm, body := splitFrontMatter(string(data))
	var front frontMatter
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
	}

	html, err := c.renderMarkdown(body)
	if err != nil {
		return Page{}, fmt.Errorf("cms: render %s: %w", file, err)
	}

	page := Page{
		Slug:      slug,
		Title:     strings.TrimSpace(front.Title),
		Summary:   strings.TrimSpace(front.Summary),
		HTML:      html,
		UpdatedAt: parseContentDate(front.UpdatedAt),
		SEO: PageSEO{
			Title:       strings.TrimSpace(front.SEO.Title),
			Description: strings.TrimSpace(front.SEO.Description),
			OGImage:     strings.TrimSpace(front.SEO.OGImage),
		},
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	if page.UpdatedAt.IsZero() {
		if info, err := os.Stat(file); err == nil {
			page.UpdatedAt = info.ModTime()
		}
	}
	return page, nil
}

// renderMarkdown converts markdown to sanitized HTML.
func (c *Client) renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	//nolint:gosec // output is sanitized by the bluemonday policy
	return template.HTML(c.policy.SanitizeBytes(buf.Bytes())), nil
}

func newContentPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4")
	policy.AllowAttrs("class").OnElements("p", "span", "table")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

func (c *Client) cachedPage(slug string) (Page, bool) {
	if c.ttl <= 0 {
		return Page{}, false
	}
	c.mu.RLock()
	entry, ok := c.pages[slug]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expires) {
		return Page{}, false
	}
	return entry.value, true
}

func (c *Client) storePage(slug string, page Page) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.pages[slug] = cacheEntry[Page]{value: page, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimPrefix(input, "\uFEFF")
	input = strings.ReplaceAll(input, "\r\n", "\n")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.Trim(strings.TrimSpace(strings.ToLower(slug)), "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}
