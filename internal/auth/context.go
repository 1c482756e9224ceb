package auth

import "context"

type ctxKey string

const merchantIDKey ctxKey = "auth/merchant-id"

// WithMerchantID stores the authenticated merchant identifier on the context.
func WithMerchantID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, merchantIDKey, id)
}

// MerchantID extracts the authenticated merchant identifier from the context.
func MerchantID(ctx context.Context) (string, bool) {
	v := ctx.Value(merchantIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
