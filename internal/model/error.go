package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON            = "INVALID_JSON"
	ErrCodeInvalidID              = "INVALID_ID"
	ErrCodeInvalidParameter       = "INVALID_PARAMETER"
	ErrCodeCartNotFound           = "CART_NOT_FOUND"
	ErrCodeProductNotFound        = "PRODUCT_NOT_FOUND"
	ErrCodeLineItemNotFound       = "LINE_ITEM_NOT_FOUND"
	ErrCodeInvalidQuantity        = "INVALID_QUANTITY"
	ErrCodeInvalidAddress         = "INVALID_ADDRESS"
	ErrCodeShippingOptionNotFound = "SHIPPING_OPTION_NOT_FOUND"
	ErrCodePaymentMethodNotFound  = "PAYMENT_METHOD_NOT_FOUND"
	ErrCodeContactNotFound        = "CONTACT_NOT_FOUND"
	ErrCodeUpstreamUnavailable    = "UPSTREAM_UNAVAILABLE"
	ErrCodeUnauthorised           = "UNAUTHORIZED"
	ErrCodeInternalError          = "INTERNAL_ERROR"
)

// DomainError is a business error that is reported to API clients as is.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrCartNotFound           = NewDomainError(ErrCodeCartNotFound, "Cart not found")
	ErrProductNotFound        = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrLineItemNotFound       = NewDomainError(ErrCodeLineItemNotFound, "Line item not found in cart")
	ErrInvalidQuantity        = NewDomainError(ErrCodeInvalidQuantity, "Units must be greater than zero")
	ErrShippingOptionNotFound = NewDomainError(ErrCodeShippingOptionNotFound, "Shipping option not found")
	ErrPaymentMethodNotFound  = NewDomainError(ErrCodePaymentMethodNotFound, "Payment method not found")
	ErrContactNotFound        = NewDomainError(ErrCodeContactNotFound, "Contact not found")
)
