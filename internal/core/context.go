package core

import (
	"context"
	"net/http"
)

type contextKey string

const (
	ctxKeyIPAddress contextKey = "client_ip"
	ctxKeyCookies   contextKey = "upstream_cookies"
)

// ContextWithIPAddress records the client IP that triggered an operation.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// GetIPAddressFromContext extracts IP address from context.
func GetIPAddressFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		return v
	}
	return ""
}

// ContextWithCookies attaches browser cookies to forward to the upstream
// backend on calls made with ctx.
func ContextWithCookies(ctx context.Context, cookies []*http.Cookie) context.Context {
	return context.WithValue(ctx, ctxKeyCookies, cookies)
}

// CookiesFromContext returns the cookies attached by ContextWithCookies.
func CookiesFromContext(ctx context.Context) []*http.Cookie {
	if v, ok := ctx.Value(ctxKeyCookies).([]*http.Cookie); ok {
		return v
	}
	return nil
}
