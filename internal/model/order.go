package model

import "time"

// Address is a saved delivery address used during checkout.
type Address struct {
	ID         string `json:"id,omitempty"`
	Label      string `json:"label,omitempty"`
	FullName   string `json:"fullName"`
	Phone      string `json:"phone,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country"`
}

// Coupon describes a validated discount code.
type Coupon struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	// Exactly one of Percent or Amount is non-zero.
	Percent int   `json:"percent,omitempty"`
	Amount  int64 `json:"amount,omitempty"`
}

// ValidateCouponRequest is the body of POST /coupons/validate.
type ValidateCouponRequest struct {
	Code string `json:"code"`
}

// CreateOrderRequest is the body of POST /orders. The cart on the server is
// the order's line-item source; the client only names the address, the
// optional coupon, and the payment method.
type CreateOrderRequest struct {
	AddressID     string `json:"addressId"`
	CouponCode    string `json:"couponCode,omitempty"`
	PaymentMethod string `json:"paymentMethod"`
}

// OrderItem is a purchased line on a placed order.
type OrderItem struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	LineTotal int64  `json:"lineTotal"`
}

// Order is a placed order summary.
type Order struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	Items         []OrderItem `json:"items"`
	Subtotal      int64       `json:"subtotal"`
	Discount      int64       `json:"discount,omitempty"`
	Total         int64       `json:"total"`
	Currency      string      `json:"currency,omitempty"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}
