package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/argon2id"

	"github.com/noah-isme/backend-paygate/internal/common"
)

// Middleware guards merchant facing routes with bearer token auth.
type Middleware struct {
	Service *Service
}

// RequireMerchant rejects requests without a valid merchant token and stores
// the merchant id on the context for downstream handlers.
func (m Middleware) RequireMerchant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Service == nil {
			common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "auth not configured", nil)
			return
		}
		token := bearerToken(r)
		if token == "" {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
			return
		}
		merchantID, err := m.Service.ParseMerchantToken(token)
		if err != nil {
			var appErr *common.AppError
			if errors.As(err, &appErr) {
				common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
				return
			}
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithMerchantID(r.Context(), merchantID)))
	})
}

// AdminKey guards operational routes with a static API key verified against
// an argon2id hash, so the plaintext key never lives in configuration.
type AdminKey struct {
	Hash string
}

// Require rejects requests whose X-Admin-Api-Key header does not match.
func (a AdminKey) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Hash == "" {
			common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "admin access disabled", nil)
			return
		}
		key := strings.TrimSpace(r.Header.Get("X-Admin-Api-Key"))
		if key == "" {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "admin key required", nil)
			return
		}
		match, err := argon2id.ComparePasswordAndHash(key, a.Hash)
		if err != nil || !match {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "admin key rejected", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
