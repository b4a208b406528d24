package catalog

import (
	"encoding/json"
)

// Product is a catalog entry. The backend is inconsistent about field
// names across endpoints, so unmarshalling accepts the known variants.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Category    string   `json:"category,omitempty"`
	Stock       int      `json:"stock,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// UnmarshalJSON accepts "_id" for "id", "title" for "name", and a single
// "image" string for "images".
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string   `json:"id"`
		AltID       string   `json:"_id"`
		Name        string   `json:"name"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		Category    string   `json:"category"`
		Stock       int      `json:"stock"`
		Images      []string `json:"images"`
		Image       string   `json:"image"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.ID = raw.ID
	if p.ID == "" {
		p.ID = raw.AltID
	}
	p.Name = raw.Name
	if p.Name == "" {
		p.Name = raw.Title
	}
	p.Description = raw.Description
	p.Price = raw.Price
	p.Category = raw.Category
	p.Stock = raw.Stock
	p.Images = raw.Images
	if len(p.Images) == 0 && raw.Image != "" {
		p.Images = []string{raw.Image}
	}
	return nil
}

// category appears on the wire either as a bare string or as an object
// with a "name" field.
type category struct {
	Name string
}

func (c *category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	c.Name = obj.Name
	return nil
}

// envelope is the response wrapper shared by every catalog endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	HasMore bool            `json:"hasMore"`
	Error   string          `json:"error,omitempty"`
}

// ListParams are the filter and pagination knobs of the list endpoint.
// Zero values are omitted from the request.
type ListParams struct {
	Category string
	Search   string
	Page     int
	Limit    int
}
