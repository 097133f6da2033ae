package cms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const testimonialsFile = "testimonials.yaml"

var youTubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Testimonials is the content of the testimonials page.
type Testimonials struct {
	Featured FeaturedTestimonial `yaml:"featured"`
	Sections []VideoSection      `yaml:"sections"`
}

// FeaturedTestimonial is the highlighted customer story.
type FeaturedTestimonial struct {
	VideoID string `yaml:"video_id"`
	Title   string `yaml:"title"`
	Quote   string `yaml:"quote"`
	Author  string `yaml:"author"`
	Role    string `yaml:"role"`
}

// VideoSection groups related videos under a heading.
type VideoSection struct {
	ID       string  `yaml:"id"`
	Title    string  `yaml:"title"`
	Subtitle string  `yaml:"subtitle"`
	Videos   []Video `yaml:"videos"`
}

// Video is a YouTube video reference.
type Video struct {
	VideoID     string `yaml:"video_id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// VideoCount returns the number of videos across all sections.
func (t Testimonials) VideoCount() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Videos)
	}
	return n
}

// ValidYouTubeID reports whether id looks like a YouTube video id.
func ValidYouTubeID(id string) bool {
	return youTubeID.MatchString(id)
}

// Testimonials loads content/testimonials.yaml.
func (c *Client) Testimonials(ctx context.Context) (Testimonials, error) {
	if err := ctx.Err(); err != nil {
		return Testimonials{}, err
	}

	if c.ttl > 0 {
		c.mu.RLock()
		entry := c.testimonials
		c.mu.RUnlock()
		if entry != nil && !c.now().After(entry.expires) {
			return entry.value, nil
		}
	}

	t, err := c.readTestimonials()
	if err != nil {
		return Testimonials{}, err
	}

	if c.ttl > 0 {
		c.mu.Lock()
		c.testimonials = &cacheEntry[Testimonials]{value: t, expires: c.now().Add(c.ttl)}
		c.mu.Unlock()
	}
	return t, nil
}

func (c *Client) readTestimonials() (Testimonials, error) {
	file := filepath.Join(c.dir, testimonialsFile)
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return Testimonials{}, ErrNotFound
	}
	if err != nil {
		return Testimonials{}, fmt.Errorf("cms: read %s: %w", file, err)
	}

	var t Testimonials
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return Testimonials{}, fmt.Errorf("cms: parse %s: %w", file, err)
	}
	if err := t.validate(); err != nil {
		return Testimonials{}, fmt.Errorf("cms: %s: %w", file, err)
	}
	return t, nil
}

func (t Testimonials) validate() error {
	var problems []error
	if id := strings.TrimSpace(t.Featured.VideoID); id != "" && !ValidYouTubeID(id) {
		problems = append(problems, fmt.Errorf("featured video id %q is invalid", id))
	}
	seen := map[string]bool{}
	for i, s := range t.Sections {
		if strings.TrimSpace(s.ID) == "" {
			problems = append(problems, fmt.Errorf("section %d has no id", i+1))
		} else if seen[s.ID] {
			problems = append(problems, fmt.Errorf("section id %q is duplicated", s.ID))
		}
		seen[s.ID] = true
		for j, v := range s.Videos {
			if !ValidYouTubeID(v.VideoID) {
				problems = append(problems, fmt.Errorf("section %q video %d has invalid id %q", s.ID, j+1, v.VideoID))
			}
		}
	}
	return errors.Join(problems...)
}
