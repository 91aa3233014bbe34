package paseto

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/o1egl/paseto"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
)

// Maker issues and validates v2.local access tokens.
type Maker struct {
	paseto       *paseto.V2
	symmetricKey []byte
	ttl          time.Duration
}

func NewPasetoMaker(symmetricKey []byte, ttl time.Duration) (*Maker, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("PASETO_SECRET must be exactly 32 bytes, got %d bytes", len(symmetricKey))
	}
	if ttl <= 0 {
		return nil, errors.New("token TTL must be positive")
	}
	return &Maker{paseto: paseto.NewV2(), symmetricKey: symmetricKey, ttl: ttl}, nil
}

func (m *Maker) GenerateToken(user *models.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.ttl)

	token := paseto.JSONToken{
		Subject:    user.ID.Hex(),
		IssuedAt:   now,
		Expiration: exp,
		NotBefore:  now,
	}

	// custom claims are stored as strings
	token.Set("user_id", user.ID.Hex())
	token.Set("email", user.Email)
	token.Set("role", user.Role)
	token.Set("is_first_login", strconv.FormatBool(user.IsFirstLogin))

	signed, err := m.paseto.Encrypt(m.symmetricKey, token, "")
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to encrypt paseto token: %w", err)
	}
	return signed, exp, nil
}

func (m *Maker) ValidateToken(tokenString string) (*models.Claims, error) {
	var token paseto.JSONToken
	var footer string

	if err := m.paseto.Decrypt(tokenString, m.symmetricKey, &token, &footer); err != nil {
		return nil, fmt.Errorf("failed to decrypt paseto token: %w", err)
	}

	if err := token.Validate(); err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	objectID, err := primitive.ObjectIDFromHex(token.Get("user_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid user_id format: %w", err)
	}

	return &models.Claims{
		UserID:       objectID,
		Email:        token.Get("email"),
		Role:         token.Get("role"),
		IsFirstLogin: token.Get("is_first_login") == "true",
	}, nil
}
