package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/backend-paygate/internal/common"
)

const defaultTokenTTL = time.Hour

// Service signs and validates the merchant API tokens. Tokens are symmetric
// HS256 with the merchant id as subject.
type Service struct {
	Secret    []byte
	Issuer    string
	Audience  string
	TTL       time.Duration
	ClockSkew time.Duration

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

// IssueMerchantToken mints a signed token for the given merchant.
func (s *Service) IssueMerchantToken(merchantID string) (string, error) {
	if merchantID == "" {
		return "", errors.New("auth: merchant id required")
	}
	now := s.now()
	ttl := s.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	builder := jwt.NewBuilder().
		Subject(merchantID).
		IssuedAt(now).
		Expiration(now.Add(ttl))
	if s.Issuer != "" {
		builder = builder.Issuer(s.Issuer)
	}
	if s.Audience != "" {
		builder = builder.Audience([]string{s.Audience})
	}
	token, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, s.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return string(signed), nil
}

// ParseMerchantToken validates a token and returns the merchant id.
func (s *Service) ParseMerchantToken(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", common.NewAppError("UNAUTHORIZED", "missing token", http.StatusUnauthorized, nil)
	}
	algorithm, err := extractTokenAlgorithm(trimmed)
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	if algorithm != jwa.HS256 {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized,
			fmt.Errorf("unexpected token algorithm %s", algorithm))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(jwa.HS256, s.Secret))
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}

	now := s.now()
	options := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(func() time.Time { return now })),
	}
	if s.ClockSkew > 0 {
		options = append(options, jwt.WithAcceptableSkew(s.ClockSkew))
	}
	if s.Issuer != "" {
		options = append(options, jwt.WithIssuer(s.Issuer))
	}
	if s.Audience != "" {
		options = append(options, jwt.WithAudience(s.Audience))
	}
	if err := jwt.Validate(parsed, options...); err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
	}
	if parsed.Subject() == "" {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized,
			errors.New("auth: token missing subject"))
	}
	return parsed.Subject(), nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// extractTokenAlgorithm reads the signature algorithm from the protected
// headers so the key type is pinned before parsing.
func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	headers := signatures[0].ProtectedHeaders()
	if headers == nil {
		return "", errors.New("auth: token missing protected headers")
	}
	alg := headers.Algorithm()
	if alg == "" {
		return "", errors.New("auth: token missing algorithm")
	}
	return alg, nil
}
