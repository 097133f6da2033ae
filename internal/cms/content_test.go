package cms

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestPageRendersFrontMatterAndMarkdown(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pages", "nosotros.md"), `---
title: Quiénes Somos
summary: Desde Colombia
updated_at: 2024-05-01
seo:
  title: Misión y Visión
  description: Conoce a Nouvie
---

## Misión

Productos **biodegradables**.

| a | b |
|---|---|
| 1 | 2 |
`)

	client := NewClient(dir)
	page, err := client.Page(context.Background(), "nosotros")
	require.NoError(t, err)

	assert.Equal(t, "nosotros", page.Slug)
	assert.Equal(t, "Quiénes Somos", page.Title)
	assert.Equal(t, "Desde Colombia", page.Summary)
	assert.Equal(t, "Misión y Visión", page.SEO.Title)
	assert.Equal(t, "Conoce a Nouvie", page.SEO.Description)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), page.UpdatedAt)

	html := string(page.HTML)
	assert.Contains(t, html, "<strong>biodegradables</strong>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "Misión</h2>")
}

func TestPageStripsUnsafeMarkup(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pages", "x.md"), "hola <script>alert(1)</script>\n\n[link](https://example.com)\n")

	page, err := NewClient(dir).Page(context.Background(), "x")
	require.NoError(t, err)

	html := string(page.HTML)
	assert.NotContains(t, html, "<script")
	assert.Contains(t, html, `rel="nofollow`)
	assert.Equal(t, "X", page.Title)
}

func TestPageNotFound(t *testing.T) {
	client := NewClient(t.TempDir())
	for _, slug := range []string{"missing", "", "../etc/passwd", "a/b"} {
		_, err := client.Page(context.Background(), slug)
		assert.ErrorIs(t, err, ErrNotFound, slug)
	}
}

func TestPageCacheHonoursTTL(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "pages", "p.md")
	writeFile(t, file, "---\ntitle: One\n---\nbody\n")

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	client := NewClient(dir, WithCacheTTL(time.Minute), WithClock(func() time.Time { return now }))

	page, err := client.Page(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, "One", page.Title)

	writeFile(t, file, "---\ntitle: Two\n---\nbody\n")
	page, err = client.Page(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "One", page.Title, "served from cache")

	now = now.Add(2 * time.Minute)
	page, err = client.Page(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "Two", page.Title)
}

func TestPageRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(t.TempDir()).Page(ctx, "nosotros")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSplitFrontMatter(t *testing.T) {
	fm, body := splitFrontMatter("---\r\ntitle: x\r\n---\r\n\r\nhello")
	assert.Equal(t, "title: x", fm)
	assert.Equal(t, "hello", body)

	fm, body = splitFrontMatter("\uFEFF---\ntitle: bom\n---\nbody")
	assert.Equal(t, "title: bom", fm)
	assert.Equal(t, "body", body)

	fm, body = splitFrontMatter("no front matter")
	assert.Empty(t, fm)
	assert.Equal(t, "no front matter", body)

	fm, body = splitFrontMatter("---\nunterminated")
	assert.Empty(t, fm)
	assert.Equal(t, "---\nunterminated", body)
}

func TestTestimonials(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, testimonialsFile), `
featured:
  video_id: jZcuEyWNfpg
  title: Testimonio
  quote: Funciona
  author: Maria
  role: Cliente
sections:
  - id: educacion
    title: Aprende
    videos:
      - video_id: I6XQDj_Nf9w
        title: Uno
      - video_id: iCMlcF9ukAE
        title: Dos
`)

	got, err := NewClient(dir).Testimonials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Featured.Author)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, 2, got.VideoCount())
}

func TestTestimonialsValidation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, testimonialsFile), `
sections:
  - id: a
    videos:
      - video_id: "not a video"
  - id: a
`)

	_, err := NewClient(dir).Testimonials(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id")
	assert.Contains(t, err.Error(), "duplicated")
}

func TestTestimonialsMissingFile(t *testing.T) {
	_, err := NewClient(t.TempDir()).Testimonials(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoryContentLoads(t *testing.T) {
	client := NewClient(filepath.Join("..", "..", "content"))

	for _, slug := range []string{"nosotros", "filosofia"} {
		page, err := client.Page(context.Background(), slug)
		require.NoError(t, err, slug)
		assert.NotEmpty(t, page.Title)
		assert.NotEmpty(t, strings.TrimSpace(string(page.HTML)))
	}

	got, err := client.Testimonials(context.Background())
	require.NoError(t, err)
	assert.True(t, ValidYouTubeID(got.Featured.VideoID))
	assert.NotZero(t, got.VideoCount())
}
