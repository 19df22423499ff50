// Package normalize converts heterogeneous feed records into canonical
// Products. It is tolerant of field-name variation and missing optional
// fields; numeric values that fail to parse are dropped, never fatal.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mkarpova/enrichment-service/internal/domain"
)

// Accepted aliases per canonical field, checked in order.
var fieldAliases = map[string][]string{
	"id":          {"id", "product_id", "productid", "item_id", "uid"},
	"title":       {"title", "name", "product_name", "product_title"},
	"description": {"description", "desc", "long_description", "product_description"},
	"price":       {"price", "unit_price", "cost", "sale_price"},
	"category":    {"category", "product_category", "category_name", "product_type"},
	"brand":       {"brand", "manufacturer", "vendor", "brand_name"},
	"sku":         {"sku", "sku_id", "article", "mpn"},
	"images":      {"images", "image", "image_url", "image_urls", "picture"},
	"attributes":  {"attributes", "attrs", "specifications", "specs"},
}

// FromRecord maps one raw record onto a Product. The only hard requirement
// is a non-empty id; it returns a ValidationError naming the field when the
// record has none. Unrecognized scalar fields are folded into attributes.
func FromRecord(record map[string]any) (domain.Product, error) {
	normalized := make(map[string]any, len(record))
	for k, v := range record {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}

	var p domain.Product
	claimed := map[string]bool{}

	lookup := func(field string) (any, string, bool) {
		for _, alias := range fieldAliases[field] {
			if v, ok := normalized[alias]; ok {
				return v, alias, true
			}
		}
		return nil, "", false
	}

	if v, alias, ok := lookup("id"); ok {
		p.ID = strings.TrimSpace(asString(v))
		claimed[alias] = true
	}
	if p.ID == "" {
		return domain.Product{}, &domain.ValidationError{Field: "id", Msg: "record has no product id"}
	}

	for field, dst := range map[string]*string{
		"title":       &p.Title,
		"description": &p.Description,
		"category":    &p.Category,
		"brand":       &p.Brand,
		"sku":         &p.SKU,
	} {
		if v, alias, ok := lookup(field); ok {
			*dst = strings.TrimSpace(asString(v))
			claimed[alias] = true
		}
	}

	if v, alias, ok := lookup("price"); ok {
		claimed[alias] = true
		if price, ok := parsePrice(v); ok {
			p.Price = &price
		}
	}

	if v, alias, ok := lookup("images"); ok {
		claimed[alias] = true
		p.Images = asImageList(v)
	}

	if v, alias, ok := lookup("attributes"); ok {
		claimed[alias] = true
		if m, ok := v.(map[string]any); ok {
			p.Attributes = stringifyMap(m)
		}
	}

	// leftover scalars become attributes
	for k, v := range normalized {
		if claimed[k] {
			continue
		}
		s := strings.TrimSpace(asString(v))
		if s == "" {
			continue
		}
		if p.Attributes == nil {
			p.Attributes = map[string]string{}
		}
		p.Attributes[k] = s
	}

	return p, nil
}

// FromRecords normalizes a whole batch, collecting per-record failures.
func FromRecords(records []map[string]any) ([]domain.Product, []error) {
	var products []domain.Product
	var errs []error
	for i, record := range records {
		p, err := FromRecord(record)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		products = append(products, p)
	}
	return products, errs
}

func parsePrice(v any) (float64, bool) {
	var price float64
	switch t := v.(type) {
	case float64:
		price = t
	case int:
		price = float64(t)
	case string:
		cleaned := strings.TrimSpace(strings.TrimPrefix(t, "$"))
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		price = parsed
	default:
		return 0, false
	}
	if price < 0 {
		return 0, false
	}
	return price, true
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func asImageList(v any) []string {
	switch t := v.(type) {
	case []string:
		return trimAll(t)
	case []any:
		var out []string
		for _, item := range t {
			if s := strings.TrimSpace(asString(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return trimAll(strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == '|' }))
	default:
		return nil
	}
}

func trimAll(items []string) []string {
	var out []string
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringifyMap(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s := strings.TrimSpace(asString(v)); s != "" {
			out[strings.ToLower(strings.TrimSpace(k))] = s
		}
	}
	return out
}
