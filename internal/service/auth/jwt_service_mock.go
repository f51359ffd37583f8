package auth

import "context"

// MockJWTService is a function-field implementation of JWTService for tests.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, ownerID string) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*Claims, error)
}

var _ JWTService = (*MockJWTService)(nil)

// GenerateToken implements JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, ownerID string) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, ownerID)
	}
	return "mock-token-" + ownerID, nil
}

// ValidateToken implements JWTService. By default the token string itself is
// treated as the subject.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	return &Claims{Subject: tokenString}, nil
}
