package pricing

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type staticRecord struct {
	Name   string `yaml:"name"`
	Price  int64  `yaml:"price"`
	Unit   string `yaml:"unit"`
	Stock  int    `yaml:"stock"`
	Active *bool  `yaml:"active"`
}

type staticFile struct {
	Products []staticRecord `yaml:"products"`
}

// StaticStore serves pricing records from a YAML document. It stands in for a database
// during local development and seeds demo deployments.
type StaticStore struct {
	records []Record
}

// NewStaticStore reads and parses the YAML file at path.
func NewStaticStore(path string) (*StaticStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pricing: read %s: %w", path, err)
	}
	return ParseStatic(data)
}

// ParseStatic parses a pricing document. Records default to active when the flag is omitted.
func ParseStatic(data []byte) (*StaticStore, error) {
	var file staticFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("pricing: decode static file: %w", err)
	}

	records := make([]Record, 0, len(file.Products))
	for i, r := range file.Products {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("pricing: static record %d has no name", i+1)
		}
		if r.Price < 0 {
			return nil, fmt.Errorf("pricing: static record %q has a negative price", r.Name)
		}
		active := true
		if r.Active != nil {
			active = *r.Active
		}
		records = append(records, Record{
			Name:   strings.TrimSpace(r.Name),
			Price:  r.Price,
			Unit:   strings.TrimSpace(r.Unit),
			Stock:  r.Stock,
			Active: active,
		})
	}
	return &StaticStore{records: records}, nil
}

// ListActive returns the active records in file order.
func (s *StaticStore) ListActive(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("static.list", err)
	}
	return activeOnly(s.records), nil
}
