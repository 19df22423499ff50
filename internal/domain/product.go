package domain

// Product is the canonical normalized catalog record. The ID is immutable
// once assigned; every other field may be replaced by enrichment.
type Product struct {
	ID          string            `json:"id"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Price       *float64          `json:"price,omitempty"`
	Category    string            `json:"category,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	SKU         string            `json:"sku,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Images      []string          `json:"images,omitempty"`
}

// Clone returns a deep copy so enrichment never mutates the original.
func (p Product) Clone() Product {
	out := p
	if p.Price != nil {
		v := *p.Price
		out.Price = &v
	}
	if p.Attributes != nil {
		out.Attributes = make(map[string]string, len(p.Attributes))
		for k, v := range p.Attributes {
			out.Attributes[k] = v
		}
	}
	if p.Images != nil {
		out.Images = make([]string, len(p.Images))
		copy(out.Images, p.Images)
	}
	return out
}
