package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"galeria-pdf/internal/auth"

	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestRegisterHandler(t *testing.T) {
	body := `{"username":"auth_new_user","email":"auth_new_user@example.com","password":"secret123"}`
	rr := postJSON(t, testServer.RegisterHandler, "/api/v1/auth/register", body)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	require.Len(t, tokens.RefreshToken, 40)

	claims, err := auth.VerifyJWT(tokens.AccessToken, testServer.config.JWT.Secret)
	require.NoError(t, err)
	require.Equal(t, "auth_new_user", claims.Username)
}

func TestRegisterHandler_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing username", `{"email":"a@example.com","password":"secret123"}`},
		{"bad email", `{"username":"auth_bad_email","email":"not-an-email","password":"secret123"}`},
		{"short password", `{"username":"auth_short_pw","email":"b@example.com","password":"abc"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := postJSON(t, testServer.RegisterHandler, "/api/v1/auth/register", tc.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestRegisterHandler_DuplicateUsername(t *testing.T) {
	body := `{"username":"auth_dup_user","email":"auth_dup_user@example.com","password":"secret123"}`
	rr := postJSON(t, testServer.RegisterHandler, "/api/v1/auth/register", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(t, testServer.RegisterHandler, "/api/v1/auth/register",
		`{"username":"auth_dup_user","email":"other@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestLoginHandler(t *testing.T) {
	rr := postJSON(t, testServer.LoginHandler, "/api/v1/auth/login",
		`{"username":"api_user_a","password":"password"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tokens))

	claims, err := auth.VerifyJWT(tokens.AccessToken, testServer.config.JWT.Secret)
	require.NoError(t, err)
	require.Equal(t, userA.claims.UserID, claims.UserID)
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	rr := postJSON(t, testServer.LoginHandler, "/api/v1/auth/login",
		`{"username":"api_user_a","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = postJSON(t, testServer.LoginHandler, "/api/v1/auth/login",
		`{"username":"no_such_account","password":"password"}`)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshTokenHandler_Rotation(t *testing.T) {
	rr := postJSON(t, testServer.LoginHandler, "/api/v1/auth/login",
		`{"username":"api_user_b","password":"password"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var first TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &first))

	refreshBody := fmt.Sprintf(`{"refresh_token":"%s"}`, first.RefreshToken)
	rr = postJSON(t, testServer.RefreshTokenHandler, "/api/v1/auth/refresh", refreshBody)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var second TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &second))
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	claims, err := auth.VerifyJWT(second.AccessToken, testServer.config.JWT.Secret)
	require.NoError(t, err)
	require.Equal(t, userB.claims.UserID, claims.UserID)

	// The consumed token is gone. Replaying it must fail.
	rr = postJSON(t, testServer.RefreshTokenHandler, "/api/v1/auth/refresh", refreshBody)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshTokenHandler_UnknownToken(t *testing.T) {
	rr := postJSON(t, testServer.RefreshTokenHandler, "/api/v1/auth/refresh",
		`{"refresh_token":"definitely-not-a-real-refresh-token-value-xx"}`)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = postJSON(t, testServer.RefreshTokenHandler, "/api/v1/auth/refresh", `{"refresh_token":""}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
