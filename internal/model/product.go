package model

// Product is one catalog entry as the backend maps it for the console.
type Product struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Price            string   `json:"price"`
	Permalink        string   `json:"permalink"`
	FeaturedImage    string   `json:"featured_image"`
	RealImage        string   `json:"real_image"`
	StockStatus      string   `json:"stock_status"`
	ShortDescription string   `json:"short_description,omitempty"`
	Description      string   `json:"description,omitempty"`
	Categories       []string `json:"categories,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

// ProductsResponse is the catalog search envelope.
type ProductsResponse struct {
	Products []Product `json:"products"`
}

// SendProductRequest sends a catalog product into a conversation.
type SendProductRequest struct {
	Phone     string `json:"phone"`
	ProductID int64  `json:"product_id"`
	Caption   string `json:"caption"`
}

// HealthResponse is the backend reachability probe result.
type HealthResponse struct {
	OK    bool   `json:"ok"`
	Build string `json:"build,omitempty"`
}
