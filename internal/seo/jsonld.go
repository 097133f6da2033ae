package seo

import (
	"encoding/json"
	"strings"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// OrganizationInfo describes the business for the Organization schema.
type OrganizationInfo struct {
	Name          string
	AlternateName string
	URL           string
	Logo          string
	Description   string
	Telephone     string
	SameAs        []string
}

// Organization returns an Organization schema.
func Organization(info OrganizationInfo) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     info.Name,
		"address": map[string]any{
			"@type":           "PostalAddress",
			"addressCountry":  "CO",
			"addressLocality": "Colombia",
		},
	}
	if info.AlternateName != "" {
		m["alternateName"] = info.AlternateName
	}
	if info.URL != "" {
		m["url"] = info.URL
	}
	if info.Logo != "" {
		m["logo"] = info.Logo
	}
	if info.Description != "" {
		m["description"] = info.Description
	}
	if info.Telephone != "" {
		m["contactPoint"] = map[string]any{
			"@type":             "ContactPoint",
			"telephone":         info.Telephone,
			"contactType":       "customer service",
			"availableLanguage": "Spanish",
		}
	}
	sameAs := make([]string, 0, len(info.SameAs))
	for _, s := range info.SameAs {
		if strings.TrimSpace(s) != "" {
			sameAs = append(sameAs, s)
		}
	}
	if len(sameAs) > 0 {
		m["sameAs"] = sameAs
	}
	return m
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url string) map[string]any {
	m := map[string]any{
		"@context":   "https://schema.org",
		"@type":      "WebSite",
		"name":       name,
		"inLanguage": "es-CO",
	}
	if url != "" {
		m["url"] = url
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// ProductInfo feeds the Product schema. Price is nil when the product has no pricing.
type ProductInfo struct {
	Name        string
	Description string
	URL         string
	Image       string
	SKU         string
	Category    string
	Brand       string
	Price       *int64
	Stock       *int
}

// Product returns a Product schema, with an Offer when a price is known.
func Product(info ProductInfo) map[string]any {
	m := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        info.Name,
		"description": info.Description,
	}
	if info.URL != "" {
		m["url"] = info.URL
	}
	if info.Image != "" {
		m["image"] = info.Image
	}
	if info.SKU != "" {
		m["sku"] = info.SKU
	}
	if info.Category != "" {
		m["category"] = info.Category
	}
	if info.Brand != "" {
		m["brand"] = map[string]any{"@type": "Brand", "name": info.Brand}
	}
	if info.Price != nil {
		availability := "https://schema.org/InStock"
		if info.Stock != nil && *info.Stock <= 0 {
			availability = "https://schema.org/OutOfStock"
		}
		offer := map[string]any{
			"@type":         "Offer",
			"price":         *info.Price,
			"priceCurrency": "COP",
			"availability":  availability,
		}
		if info.URL != "" {
			offer["url"] = info.URL
		}
		m["offers"] = offer
	}
	return m
}
