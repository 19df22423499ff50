package normalize

import (
	"encoding/xml"
	"fmt"
	"io"
)

type xmlFeed struct {
	XMLName  xml.Name     `xml:"products"`
	Products []xmlProduct `xml:"product"`
}

type xmlProduct struct {
	IDAttr      string   `xml:"id,attr"`
	ID          string   `xml:"id"`
	Title       string   `xml:"title"`
	Name        string   `xml:"name"`
	Description string   `xml:"description"`
	Price       string   `xml:"price"`
	Category    string   `xml:"category"`
	Brand       string   `xml:"brand"`
	SKU         string   `xml:"sku"`
	Images      []string `xml:"images>image"`
	Attributes  []struct {
		Name  string `xml:"name,attr"`
		Value string `xml:",chardata"`
	} `xml:"attributes>attribute"`
}

// ParseXML decodes a `<products>` feed document and normalizes each entry.
// Entries without an id are skipped and reported alongside the parsed rows.
func ParseXML(r io.Reader) ([]map[string]any, error) {
	var feed xmlFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode xml feed: %w", err)
	}

	records := make([]map[string]any, 0, len(feed.Products))
	for _, entry := range feed.Products {
		record := map[string]any{}

		id := entry.ID
		if id == "" {
			id = entry.IDAttr
		}
		record["id"] = id

		title := entry.Title
		if title == "" {
			title = entry.Name
		}
		setIfPresent(record, "title", title)
		setIfPresent(record, "description", entry.Description)
		setIfPresent(record, "price", entry.Price)
		setIfPresent(record, "category", entry.Category)
		setIfPresent(record, "brand", entry.Brand)
		setIfPresent(record, "sku", entry.SKU)

		if len(entry.Images) > 0 {
			record["images"] = entry.Images
		}
		if len(entry.Attributes) > 0 {
			attrs := map[string]any{}
			for _, attr := range entry.Attributes {
				if attr.Name != "" {
					attrs[attr.Name] = attr.Value
				}
			}
			record["attributes"] = attrs
		}

		records = append(records, record)
	}
	return records, nil
}

func setIfPresent(record map[string]any, key, value string) {
	if value != "" {
		record[key] = value
	}
}
