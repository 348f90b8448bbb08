package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken возвращается для любого невалидного токена.
// Причина (подпись, срок, формат) наружу не раскрывается.
var ErrInvalidToken = errors.New("invalid token")

const signingAlg = "HS256"

// header сериализуется строго в порядке {"typ":"JWT","alg":"HS256"}
type header struct {
	Typ string `json:"typ"`
	Alg string `json:"alg"`
}

// Claims represents JWT payload
type Claims struct {
	IssuedAt  int64 `json:"iat"`
	ExpiresAt int64 `json:"exp"`
	UserID    int64 `json:"userId"`
}

// GetExpirationTime implements gojwt.Claims
func (c Claims) GetExpirationTime() (*gojwt.NumericDate, error) {
	if c.ExpiresAt == 0 {
		return nil, nil
	}
	return gojwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

// GetIssuedAt implements gojwt.Claims
func (c Claims) GetIssuedAt() (*gojwt.NumericDate, error) {
	if c.IssuedAt == 0 {
		return nil, nil
	}
	return gojwt.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

// GetNotBefore implements gojwt.Claims
func (c Claims) GetNotBefore() (*gojwt.NumericDate, error) { return nil, nil }

// GetIssuer implements gojwt.Claims
func (c Claims) GetIssuer() (string, error) { return "", nil }

// GetSubject implements gojwt.Claims
func (c Claims) GetSubject() (string, error) { return "", nil }

// GetAudience implements gojwt.Claims
func (c Claims) GetAudience() (gojwt.ClaimStrings, error) { return nil, nil }

// Service provides JWT token generation and validation
type Service struct {
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

// Option настраивает Service
type Option func(*Service)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new JWT service.
// secret should be a cryptographically secure random string
func NewService(secret string, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL возвращает время жизни выпускаемых токенов
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for the user
func (s *Service) Issue(userID int64) (string, error) {
	if userID <= 0 {
		return "", fmt.Errorf("invalid user id: %d", userID)
	}

	now := s.now()
	claims := Claims{
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
		UserID:    userID,
	}

	token, err := s.createToken(claims)
	if err != nil {
		return "", fmt.Errorf("failed to create token: %w", err)
	}

	return token, nil
}

// Verify validates signature and expiry and returns the payload.
// Токен валиден, пока now < exp.
func (s *Service) Verify(token string) (*Claims, error) {
	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{signingAlg}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)

	var claims Claims
	parsed, err := parser.ParseWithClaims(token, &claims, func(*gojwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}

	return &claims, nil
}

// createToken собирает header.payload.signature
func (s *Service) createToken(claims Claims) (string, error) {
	headerJSON, err := json.Marshal(header{Typ: "JWT", Alg: signingAlg})
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}

	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	// Кодируем в base64
	headerB64 := base64.RawURLEncoding.EncodeToString(headerJSON)
	claimsB64 := base64.RawURLEncoding.EncodeToString(claimsJSON)

	signatureInput := headerB64 + "." + claimsB64
	return signatureInput + "." + s.sign(signatureInput), nil
}

// sign создает HMAC-SHA256 подпись
func (s *Service) sign(data string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(data))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
