package api

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Product is a catalog entry.
type Product struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
	InStock     bool    `json:"in_stock"`
}

// CartItem is a product with a quantity in the shopper's cart.
type CartItem struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is a placed order summary.
type Order struct {
	ID        uint      `json:"id"`
	Total     float64   `json:"total"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Products lists the catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.call(ctx, http.MethodGet, PathProducts, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches a single catalog entry.
func (c *Client) Product(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("%s/%d", PathProducts, id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CartItems lists the shopper's cart.
func (c *Client) CartItems(ctx context.Context) ([]CartItem, error) {
	var items []CartItem
	if err := c.call(ctx, http.MethodGet, PathCart, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart puts a product into the cart.
func (c *Client) AddToCart(ctx context.Context, productID uint, quantity int) error {
	return c.call(ctx, http.MethodPost, PathCart, map[string]any{
		"product_id": productID,
		"quantity":   quantity,
	}, nil)
}

// UpdateCartItem changes the quantity of a cart line.
func (c *Client) UpdateCartItem(ctx context.Context, itemID uint, quantity int) error {
	return c.call(ctx, http.MethodPut, fmt.Sprintf("%s/%d", PathCart, itemID), map[string]any{
		"quantity": quantity,
	}, nil)
}

// RemoveFromCart drops a line from the cart.
func (c *Client) RemoveFromCart(ctx context.Context, itemID uint) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", PathCart, itemID), nil, nil)
}

// Wishlist lists saved products.
func (c *Client) Wishlist(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.call(ctx, http.MethodGet, PathWishlist, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// AddToWishlist saves a product for later.
func (c *Client) AddToWishlist(ctx context.Context, productID uint) error {
	return c.call(ctx, http.MethodPost, PathWishlist, map[string]any{
		"product_id": productID,
	}, nil)
}

// RemoveFromWishlist drops a saved product.
func (c *Client) RemoveFromWishlist(ctx context.Context, productID uint) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", PathWishlist, productID), nil, nil)
}

// PlaceOrder checks out the current cart.
func (c *Client) PlaceOrder(ctx context.Context) (*Order, error) {
	var order Order
	if err := c.call(ctx, http.MethodPost, PathOrders, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Orders lists the shopper's order history.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.call(ctx, http.MethodGet, PathOrders, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
