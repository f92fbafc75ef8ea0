package model

// Product is a catalog entry. Variants cover size/color options for
// made-to-measure curtains; SalePrice is zero when the product is not
// discounted.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	CategoryID  string           `json:"categoryId,omitempty"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	Price       int64            `json:"price"`
	SalePrice   int64            `json:"salePrice,omitempty"`
	Currency    string           `json:"currency,omitempty"`
	InStock     bool             `json:"inStock"`
	Variants    []ProductVariant `json:"variants,omitempty"`
}

// EffectivePrice returns the sale price when one is set.
func (p *Product) EffectivePrice() int64 {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.Price
}

// ProductVariant is a purchasable variation of a product.
type ProductVariant struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Price int64  `json:"price,omitempty"` // overrides product price when set
}

// Category is a catalog grouping.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	ParentID string `json:"parentId,omitempty"`
}

// ProductPage is one page of GET /products results.
type ProductPage struct {
	Products   []Product `json:"products"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	Total      int       `json:"total"`
}

// ProductQuery holds the supported GET /products filters.
// Zero values are omitted from the query string.
type ProductQuery struct {
	Search     string
	CategoryID string
	Page       int
}
