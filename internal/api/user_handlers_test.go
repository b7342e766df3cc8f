package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"galeria-pdf/internal/auth"

	"github.com/stretchr/testify/require"
)

func authedRequest(u *testUser, method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.Header.Set("Authorization", "Bearer "+u.token)
	return req
}

func TestGetCurrentUserHandler(t *testing.T) {
	req := authedRequest(userA, "GET", "/api/v1/me", "")
	rr := httptest.NewRecorder()
	testServer.AuthMiddleware(http.HandlerFunc(testServer.GetCurrentUserHandler)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var claims auth.AppClaims
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &claims))
	require.Equal(t, userA.claims.UserID, claims.UserID)
	require.Equal(t, "api_user_a", claims.Username)
}

func TestGetProfileHandler(t *testing.T) {
	// A dedicated user so aggregate counts stay independent of the
	// documents other tests create.
	statsUser := mustCreateUser(context.Background(), "api_stats_user")

	uploadTestPdf(t, statsUser, "Stats Public One", map[string]string{"isPublic": "true"})
	uploadTestPdf(t, statsUser, "Stats Public Two", map[string]string{"isPublic": "true"})
	uploadTestPdf(t, statsUser, "Stats Private", map[string]string{"isPublic": "false"})

	req := authedRequest(statsUser, "GET", "/api/v1/users/profile", "")
	rr := httptest.NewRecorder()
	testServer.AuthMiddleware(http.HandlerFunc(testServer.GetProfileHandler)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp ProfileResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "api_stats_user", resp.User.Username)
	require.Empty(t, resp.User.PasswordHash, "hash must never leave the server")
	require.Equal(t, int64(3), resp.Stats.TotalPdfs)
	require.Equal(t, int64(2), resp.Stats.PublicPdfs)
	require.Equal(t, int64(1), resp.Stats.PrivatePdfs)
	// Three tiny blobs round to 0.00 MB.
	require.Equal(t, 0.0, resp.Stats.TotalStorage)
}

func TestChangePasswordHandler_WrongCurrent(t *testing.T) {
	u := mustCreateUser(context.Background(), "api_pw_wrong")

	body := `{"currentPassword":"not-the-password","newPassword":"brand-new-pass"}`
	req := authedRequest(u, "POST", "/api/v1/users/change-password", body)
	rr := httptest.NewRecorder()
	testServer.AuthMiddleware(http.HandlerFunc(testServer.ChangePasswordHandler)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "Current password is incorrect")
}

func TestChangePasswordHandler_TooShort(t *testing.T) {
	u := mustCreateUser(context.Background(), "api_pw_short")

	body := `{"currentPassword":"password","newPassword":"abc"}`
	req := authedRequest(u, "POST", "/api/v1/users/change-password", body)
	rr := httptest.NewRecorder()
	testServer.AuthMiddleware(http.HandlerFunc(testServer.ChangePasswordHandler)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestChangePasswordHandler_Success(t *testing.T) {
	u := mustCreateUser(context.Background(), "api_pw_success")

	body := `{"currentPassword":"password","newPassword":"brand-new-pass"}`
	req := authedRequest(u, "POST", "/api/v1/users/change-password", body)
	rr := httptest.NewRecorder()
	testServer.AuthMiddleware(http.HandlerFunc(testServer.ChangePasswordHandler)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Contains(t, rr.Body.String(), "Password updated successfully")

	stored, err := testServer.store.GetUserByID(context.Background(), u.claims.UserID)
	require.NoError(t, err)
	require.True(t, auth.CheckPasswordHash("brand-new-pass", stored.PasswordHash))
	require.False(t, auth.CheckPasswordHash("password", stored.PasswordHash))
}
