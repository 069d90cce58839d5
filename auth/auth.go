package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const issuer = "therapyhub"

// Request attribute names set by AuthFilter.
const (
	AttrClaims     = "claims"
	AttrUserID     = "user_id"
	AttrCompanyID  = "company_id"
	AttrUserTypeID = "user_type_id"
)

// signingKey must be replaced through SetSigningKey before serving traffic.
var signingKey = []byte("therapyhub-dev-signing-key")

// SetSigningKey allows setting the key from outside the package.
func SetSigningKey(key []byte) {
	if len(key) > 0 {
		signingKey = key
	}
}

// CustomClaims carries the caller identity the menu endpoints rely on.
type CustomClaims struct {
	UserID     uint `json:"user_id"`
	CompanyID  uint `json:"company_id"`
	UserTypeID uint `json:"user_type_id"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for the given identity.
func GenerateToken(userID, companyID, userTypeID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		UserID:     userID,
		CompanyID:  companyID,
		UserTypeID: userTypeID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   fmt.Sprint(userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ParseAndValidateToken : used for gRPC and HTTP filters
func ParseAndValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return signingKey, nil
	})

	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok {
			if ve.Errors&jwt.ValidationErrorMalformed != 0 {
				return nil, errors.New("malformed token")
			} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
				return nil, errors.New("token is either expired or not active yet")
			} else if ve.Errors&jwt.ValidationErrorSignatureInvalid != 0 {
				return nil, errors.New("invalid token signature")
			}
		}
		return nil, fmt.Errorf("couldn't handle this token: %w", err)
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("authorization header required")
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

// AuthFilter creates a go-restful FilterFunction for JWT authentication.
func AuthFilter() restful.FilterFunction {
	return func(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
		tokenString, err := BearerToken(req.HeaderParameter("Authorization"))
		if err != nil {
			writeUnauthorized(resp, err.Error())
			return
		}

		claims, err := ParseAndValidateToken(tokenString)
		if err != nil {
			writeUnauthorized(resp, err.Error())
			return
		}

		req.SetAttribute(AttrClaims, claims)
		req.SetAttribute(AttrUserID, claims.UserID)
		req.SetAttribute(AttrCompanyID, claims.CompanyID)
		req.SetAttribute(AttrUserTypeID, claims.UserTypeID)

		chain.ProcessFilter(req, resp)
	}
}

// ClaimsFromRequest returns the claims stored by AuthFilter.
func ClaimsFromRequest(req *restful.Request) (*CustomClaims, bool) {
	claims, ok := req.Attribute(AttrClaims).(*CustomClaims)
	return claims, ok && claims != nil
}

// writeUnauthorized writes the same envelope the controllers use.
func writeUnauthorized(resp *restful.Response, message string) {
	_ = resp.WriteHeaderAndJson(http.StatusUnauthorized, map[string]any{
		"success":    false,
		"message":    "Unauthorized",
		"data":       nil,
		"errors":     []string{message},
		"timestamp":  time.Now().UTC(),
		"statusCode": http.StatusUnauthorized,
	}, restful.MIME_JSON)
}
