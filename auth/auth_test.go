package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(7, 3, 2, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseAndValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, uint(3), claims.CompanyID)
	assert.Equal(t, uint(2), claims.UserTypeID)
	assert.Equal(t, "therapyhub", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestParseAndValidateTokenErrors(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		_, err := ParseAndValidateToken("not-a-token")
		require.Error(t, err)
		assert.Equal(t, "malformed token", err.Error())
	})

	t.Run("expired", func(t *testing.T) {
		token, err := GenerateToken(1, 1, 1, -time.Minute)
		require.NoError(t, err)
		_, err = ParseAndValidateToken(token)
		require.Error(t, err)
		assert.Equal(t, "token is either expired or not active yet", err.Error())
	})

	t.Run("wrong key", func(t *testing.T) {
		claims := &CustomClaims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("someone-else"))
		require.NoError(t, err)
		_, err = ParseAndValidateToken(token)
		require.Error(t, err)
		assert.Equal(t, "invalid token signature", err.Error())
	})
}

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	tok, err = BearerToken("bearer xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", tok)

	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		_, err := BearerToken(h)
		assert.Error(t, err, h)
	}
}

func newFilteredContainer() *restful.Container {
	ws := new(restful.WebService)
	ws.Path("/whoami").Produces(restful.MIME_JSON)
	ws.Route(ws.GET("").Filter(AuthFilter()).To(func(req *restful.Request, resp *restful.Response) {
		claims, ok := ClaimsFromRequest(req)
		if !ok {
			resp.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = resp.WriteHeaderAndJson(http.StatusOK, map[string]uint{
			"userTypeId": claims.UserTypeID,
			"userId":     req.Attribute(AttrUserID).(uint),
		}, restful.MIME_JSON)
	}))

	c := restful.NewContainer()
	c.Add(ws)
	return c
}

func TestAuthFilter(t *testing.T) {
	c := newFilteredContainer()

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		c.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.EqualValues(t, http.StatusUnauthorized, body["statusCode"])
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		c.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := GenerateToken(11, 4, 9, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		c.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]uint
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, uint(9), body["userTypeId"])
		assert.Equal(t, uint(11), body["userId"])
	})
}
