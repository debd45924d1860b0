package driven

import "github.com/custodia-labs/storefront-search/internal/core/domain"

// TokenVerifier validates admin bearer tokens.
// Tokens are issued by the commerce platform; this service only verifies them.
type TokenVerifier interface {
	ParseToken(token string) (*domain.AdminClaims, error)
}
