package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/chatlead/agent-console/internal/model"
)

const maxProductsPerPage = 50

// SearchProducts searches the WooCommerce catalog through the backend.
func (c *Client) SearchProducts(ctx context.Context, q string, page, perPage int) ([]model.Product, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxProductsPerPage {
		perPage = 12
	}

	query := url.Values{}
	query.Set("q", q)
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	var resp model.ProductsResponse
	if err := c.doJSON(ctx, "search_products", http.MethodGet, "/api/wc/products", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// SendProduct sends a catalog product into a conversation as a product
// message.
func (c *Client) SendProduct(ctx context.Context, phone string, productID int64, caption string) error {
	req := model.SendProductRequest{Phone: phone, ProductID: productID, Caption: caption}
	return c.doJSON(ctx, "send_product", http.MethodPost, "/api/wc/send-product", nil, req, nil)
}
