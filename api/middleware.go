package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/linesmerrill/party-cms-api/policy"
)

// tokenCacheTTL bounds how long a verified token is trusted without re-parsing it
const tokenCacheTTL = 5 * time.Minute

// expiresAtKey carries the token's exp claim on the cached user info
const expiresAtKey = "exp"

// Claims are the JWT claims issued by the identity service
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Authenticator turns bearer tokens into actors
type Authenticator struct {
	authenticator auth.Authenticator
	secret        []byte
	now           func() time.Time
}

// NewAuthenticator sets up go-guardian with a cached bearer strategy verifying HS256 tokens
// signed with secret
func NewAuthenticator(secret string) *Authenticator {
	a := &Authenticator{secret: []byte(secret), now: time.Now}
	cache := store.NewFIFO(context.Background(), tokenCacheTTL)
	tokenStrategy := bearer.New(a.ValidateToken, cache)

	a.authenticator = auth.New()
	a.authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
	return a
}

// ValidateToken parses an HS256 token and returns its subject with the role claims as groups
func (a *Authenticator) ValidateToken(_ context.Context, _ *http.Request, token string) (auth.Info, error) {
	if len(a.secret) == 0 {
		return nil, errors.New("token verification is not configured")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	var extensions map[string][]string
	if claims.ExpiresAt != nil {
		extensions = map[string][]string{expiresAtKey: {strconv.FormatInt(claims.ExpiresAt.Unix(), 10)}}
	}
	return auth.NewDefaultUser(claims.Subject, claims.Subject, claims.Roles, extensions), nil
}

// expired reports whether the exp recorded on info has passed. Cached infos skip
// ValidateToken, so the cache alone would accept a token until its entry is evicted.
func (a *Authenticator) expired(info auth.Info) bool {
	exp := info.Extensions()[expiresAtKey]
	if len(exp) == 0 {
		return false
	}
	unix, err := strconv.ParseInt(exp[0], 10, 64)
	if err != nil {
		return true
	}
	return !a.now().Before(time.Unix(unix, 0))
}

// Middleware resolves the request actor. Requests without an Authorization header run as
// the anonymous actor, requests with a bad token are rejected.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), policy.AnonymousActor)))
			return
		}

		info, err := a.authenticator.Authenticate(r)
		if err == nil && a.expired(info) {
			err = errors.New("token has expired")
		}
		if err != nil {
			zap.S().Warnw("unauthorized",
				"url", r.URL,
				"error", err)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}

		actor := policy.Actor{ID: info.ID(), Role: policy.HighestRole(info.Groups())}
		zap.S().Debugw("actor authenticated", "actor", actor.ID, "role", actor.Role.String())
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}
