package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultTokenTTL = 15 * time.Minute
	clockSkew       = 30 * time.Second
)

// ErrNoSigningKey is returned when a validation-only service is asked to issue a token.
var ErrNoSigningKey = errors.New("no signing key configured")

// JWTConfig selects the key material. PrivateKeyPEM wins over PublicKeyPEM,
// which wins over Secret. RSA keys sign with RS256; the secret with HS256.
type JWTConfig struct {
	Secret        string
	PrivateKeyPEM string
	PublicKeyPEM  string // validation only
	Issuer        string
	// Expiration is the lifetime of issued tokens; zero means 15 minutes.
	Expiration time.Duration
}

// Enabled reports whether any key source is configured.
func (c JWTConfig) Enabled() bool {
	return c.Secret != "" || c.PrivateKeyPEM != "" || c.PublicKeyPEM != ""
}

// JWTService validates bearer tokens and, when it holds a signing key,
// issues them.
type JWTService struct {
	method    jwt.SigningMethod
	signKey   any // nil on validation-only services
	verifyKey any
	parser    *jwt.Parser
	issuer    string
	ttl       time.Duration
}

// NewJWTService builds a service from cfg.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	svc := &JWTService{issuer: cfg.Issuer, ttl: cfg.Expiration}
	if svc.ttl == 0 {
		svc.ttl = defaultTokenTTL
	}

	switch {
	case cfg.PrivateKeyPEM != "":
		key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
		}
		svc.method, svc.signKey, svc.verifyKey = jwt.SigningMethodRS256, key, &key.PublicKey
	case cfg.PublicKeyPEM != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
		svc.method, svc.verifyKey = jwt.SigningMethodRS256, key
	case cfg.Secret != "":
		secret := []byte(cfg.Secret)
		svc.method, svc.signKey, svc.verifyKey = jwt.SigningMethodHS256, secret, secret
	default:
		return nil, errors.New("jwt configuration requires PrivateKeyPEM, PublicKeyPEM, or Secret")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{svc.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	svc.parser = jwt.NewParser(opts...)
	return svc, nil
}

// IssueToken signs a token for subject carrying roles.
func (s *JWTService) IssueToken(subject string, roles []string) (string, error) {
	if s.signKey == nil {
		return "", ErrNoSigningKey
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Roles: roles,
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token with %s: %w", s.method.Alg(), err)
	}
	return signed, nil
}

// ValidateToken checks signature, algorithm, expiry and issuer and returns
// the token's claims.
func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.verifyKey, nil
	}); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}
