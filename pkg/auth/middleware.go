package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type claimsKey struct{}

// ContextWithClaims attaches claims to ctx.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims of the authenticated caller.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok
}

var (
	errNoCredentials = errors.New("missing or malformed authorization header")
	errBadToken      = errors.New("invalid token")
	errForbidden     = errors.New("insufficient permissions")
)

// authorize turns an Authorization header value into claims holding one of
// roles. The returned error is one of the sentinels above.
func authorize(svc *JWTService, header string, roles []string) (*Claims, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return nil, errNoCredentials
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		return nil, errBadToken
	}
	if !claims.HasAnyRole(roles...) {
		return nil, errForbidden
	}
	return claims, nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

// UnaryAuthInterceptor authenticates gRPC calls. methodRoles restricts a full
// method name to callers holding one of the listed roles; methods without an
// entry admit any valid token.
func UnaryAuthInterceptor(svc *JWTService, skipMethods []string, methodRoles map[string][]string) grpc.UnaryServerInterceptor {
	skip := toSet(skipMethods)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if skip[info.FullMethod] {
			return handler(ctx, req)
		}

		var header string
		if values := metadata.ValueFromIncomingContext(ctx, "authorization"); len(values) > 0 {
			header = values[0]
		}

		roles := methodRoles[info.FullMethod]
		claims, err := authorize(svc, header, roles)
		switch {
		case errors.Is(err, errForbidden):
			return nil, status.Errorf(codes.PermissionDenied, "required role(s): %s", strings.Join(roles, ", "))
		case err != nil:
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(ContextWithClaims(ctx, claims), req)
	}
}

// HTTPMiddleware authenticates HTTP requests. GET and HEAD need one of
// readRoles, every other method one of writeRoles. skipPaths are served
// without a token.
func HTTPMiddleware(svc *JWTService, skipPaths []string, readRoles, writeRoles []string) func(http.Handler) http.Handler {
	skip := toSet(skipPaths)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			roles := writeRoles
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				roles = readRoles
			}

			claims, err := authorize(svc, r.Header.Get("Authorization"), roles)
			switch {
			case errors.Is(err, errForbidden):
				denyHTTP(w, http.StatusForbidden, err)
				return
			case err != nil:
				w.Header().Set("WWW-Authenticate", `Bearer realm="heartrisk"`)
				denyHTTP(w, http.StatusUnauthorized, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

func denyHTTP(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"message": err.Error()})
}
