package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/bookbnb/rental-ledger-go/ledger/core"
)

const tokenContextKey = "token"

// ErrMissingSubject is returned for tokens without a "sub" claim.
var ErrMissingSubject = errors.New("token has no subject")

// IssueToken signs an HS256 token for principal that expires after ttl.
func IssueToken(secret []byte, issuer string, principal core.PrincipalString, ttl time.Duration, now time.Time) (string, error) {
	if principal == "" {
		return "", ErrMissingSubject
	}

	claims := jwt.RegisteredClaims{
		Subject:   principal,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *Server) jwtMiddleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    s.jwtSecret,
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		ContextKey:    tokenContextKey,
		TokenLookup:   "header:Authorization:Bearer ",
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return &jwt.RegisteredClaims{}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			s.logger.WarnContext(c.Request().Context(), "rejected token",
				"path", c.Path(), "ip", c.RealIP(), "error", err.Error())

			return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated").SetInternal(err)
		},
	})
}

// principalFrom returns the "sub" claim of the verified token.
func (s *Server) principalFrom(c echo.Context) (core.PrincipalString, error) {
	token, ok := c.Get(tokenContextKey).(*jwt.Token)
	if !ok || token == nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated").SetInternal(ErrMissingSubject)
	}

	if s.issuer != "" {
		if issuer, _ := token.Claims.GetIssuer(); issuer != s.issuer {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
		}
	}

	return subject, nil
}
