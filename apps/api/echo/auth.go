package echoapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/user"
	sessionsvc "github.com/guicardoso0404/sigeas/services/session"
)

const contextClaimsKey = "claims"

var (
	errMissingToken  = echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed token")
	errInvalidToken  = echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden = core.NewForbiddenError("permission denied")
)

// Claims represents the authorization claims transmitted via a JWT.
// The password hash is never part of them.
type Claims struct {
	jwt.RegisteredClaims
	UserID int    `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// User returns the identity carried by the claims (no password, no timestamps).
func (c Claims) User() user.User {
	return user.User{ID: c.UserID, Name: c.Name, Email: c.Email, Role: c.Role}
}

type authenticator struct {
	issuer   string
	secret   []byte
	lifetime time.Duration
	sessions sessionsvc.Store
	now      func() time.Time
}

func newAuthenticator(conf *core.Config, sessions sessionsvc.Store) *authenticator {
	return &authenticator{
		issuer:   conf.AppName,
		secret:   []byte(conf.SecretKey),
		lifetime: conf.Server.JWTExpirationDelta,
		sessions: sessions,
		now:      time.Now,
	}
}

func (a *authenticator) userClaims(usr user.User) *Claims {
	now := a.now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    a.issuer,
			Subject:   strconv.Itoa(usr.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.lifetime)),
		},
		UserID: usr.ID,
		Email:  usr.Email,
		Name:   usr.Name,
		Role:   usr.Role,
	}
}

// generateToken returns a signed HS256 JWT for usr.
func (a *authenticator) generateToken(usr user.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, a.userClaims(usr))
	ss, err := token.SignedString(a.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func (a *authenticator) parse(raw string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(
		raw,
		claims,
		func(*jwt.Token) (interface{}, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// middleware verifies the bearer token and stores its Claims in the echo.Context.
func (a *authenticator) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			scheme, raw, found := strings.Cut(header, " ")
			raw = strings.TrimSpace(raw)
			if !found || !strings.EqualFold(scheme, "Bearer") || raw == "" {
				return errMissingToken
			}

			claims, err := a.parse(raw)
			if err != nil {
				return errInvalidToken
			}
			revoked, err := a.sessions.IsRevoked(ctx.Request().Context(), claims.ID)
			if err != nil {
				return errors.Wrap(err, "checking session")
			}
			if revoked {
				return errInvalidToken
			}

			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

func (a *authenticator) revoke(ctx echo.Context, claims *Claims) error {
	exp := a.now().Add(a.lifetime)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return a.sessions.Revoke(ctx.Request().Context(), claims.ID, exp)
}

func getContextClaims(ctx echo.Context) (*Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(*Claims); ok && claims != nil {
		return claims, nil
	}
	return nil, errUnauthorized
}
