package model

// Request and response shapes for the HTTP layer. The validate tags are
// enforced by internal/validation before a request reaches a service.
// Form tags let the same struct accept application/x-www-form-urlencoded
// bodies, which the login endpoint uses.

// CreateProductRequest is the input for POST /products.
type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	InStock     bool   `json:"in_stock"`
}

// UpdateProductRequest is the input for PUT /products/:id.
// Pointer fields distinguish "not sent" from zero values, so a partial
// update never clobbers fields the client did not mention.
type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	PriceCents  *int64  `json:"price_cents" validate:"omitempty,gte=0"`
	InStock     *bool   `json:"in_stock"`
}

// Credentials is the input for both POST /auth/register and POST /auth/login.
// Login additionally accepts form-encoded bodies (see form tags).
type Credentials struct {
	Username string `json:"username" form:"username" validate:"required,alphanum,min=3,max=64"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=128"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// PreferencesRequest is the input for PUT /session/preferences.
// Currency is an ISO 4217 code kept client-side in a cookie.
type PreferencesRequest struct {
	Currency string `json:"currency" validate:"required,len=3,alpha"`
}

// ClientInfo echoes request metadata extracted from headers and cookies.
type ClientInfo struct {
	RequestID string `json:"request_id"`
	UserAgent string `json:"user_agent"`
	ClientIP  string `json:"client_ip"`
	Currency  string `json:"currency"`
}
