package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/protomem/attendance-tracker/internal/ctxstore"
	"github.com/protomem/attendance-tracker/internal/model"
)

const _identityKey = ctxstore.Key("identity")

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
)

// accessClaims is the payload of an access token issued by the identity
// provider: sub is the user id, perms the granted permission names.
type accessClaims struct {
	Perms []string `json:"perms"`
	jwt.RegisteredClaims
}

// parseIdentity never accepts tokens when secret is empty, since anyone can
// sign with an empty HMAC key.
func parseIdentity(secret []byte, header string) (model.Identity, error) {
	scheme, tokenStr, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return model.Identity{}, errMissingToken
	}

	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return model.Identity{}, errMissingToken
	}

	if len(secret) == 0 {
		return model.Identity{}, errInvalidToken
	}

	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return model.Identity{}, errInvalidToken
	}

	if claims.Subject == "" {
		return model.Identity{}, errInvalidToken
	}

	return model.Identity{
		UserID:      claims.Subject,
		Permissions: model.ParsePermissions(claims.Perms),
	}, nil
}

func (app *application) authenticate(next http.Handler) http.Handler {
	secret := []byte(app.config.auth.secret)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		who, err := parseIdentity(secret, r.Header.Get("Authorization"))
		if err != nil {
			app.unauthorized(w, r, err.Error())
			return
		}

		ctx := ctxstore.With(r.Context(), _identityKey, who)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFromRequest(r *http.Request) model.Identity {
	return ctxstore.MustFrom[model.Identity](r.Context(), _identityKey)
}
