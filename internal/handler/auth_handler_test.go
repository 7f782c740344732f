package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/padidoc-go-api/internal/models"
)

func TestAuthHandlerLogin(t *testing.T) {
	srv := newTestServer(t)
	srv.createUser(t, "operator", models.RoleOperator, true)
	srv.createUser(t, "retired", models.RoleOperator, false)

	token := srv.login(t, "operator@padidoc.com")
	require.NotEmpty(t, token)

	resp, body := srv.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "operator@padidoc.com", "password": "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.False(t, body.Success)
	require.Equal(t, "invalid email or password", body.Message)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "retired@padidoc.com", "password": testPassword})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = srv.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body.Details, "Email")
}

func TestAuthHandlerMeAndLogout(t *testing.T) {
	srv := newTestServer(t)
	user := srv.createUser(t, "operator", models.RoleOperator, true)
	token := srv.login(t, user.Email)

	resp, _ := srv.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := srv.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &me))
	require.Equal(t, user.ID, me.ID)
	require.Equal(t, "operator", me.Role)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var actions []string
	require.NoError(t, srv.db.Model(&models.ActivityLog{}).Order("id").Pluck("action", &actions).Error)
	require.Equal(t, []string{"login", "logout"}, actions)
}

func TestAuthHandlerRegisterRequiresAdmin(t *testing.T) {
	srv := newTestServer(t)
	srv.createUser(t, "admin", models.RoleAdmin, true)
	srv.createUser(t, "operator", models.RoleOperator, true)
	adminToken := srv.login(t, "admin@padidoc.com")
	operatorToken := srv.login(t, "operator@padidoc.com")

	payload := map[string]string{"username": "clerk", "email": "clerk@padidoc.com", "password": "secret1", "role": "operator"}

	resp, _ := srv.do(t, http.MethodPost, "/api/v1/auth/register", operatorToken, payload)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := srv.do(t, http.MethodPost, "/api/v1/auth/register", adminToken, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/auth/register", adminToken, payload)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	payload["email"] = "short@padidoc.com"
	payload["username"] = "short"
	payload["password"] = "123"
	resp, _ = srv.do(t, http.MethodPost, "/api/v1/auth/register", adminToken, payload)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthHandlerEditProfile(t *testing.T) {
	srv := newTestServer(t)
	srv.createUser(t, "operator", models.RoleOperator, true)
	srv.createUser(t, "other", models.RoleOperator, true)
	token := srv.login(t, "operator@padidoc.com")

	resp, _ := srv.do(t, http.MethodPost, "/api/v1/auth/edit-profile", token, map[string]string{"email": "other@padidoc.com"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/auth/edit-profile", token, map[string]string{"new_password": "changed1", "current_password": "nope"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/auth/edit-profile", token, map[string]string{"new_password": "changed1", "current_password": testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "operator@padidoc.com", "password": "changed1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthHandlerPasswordReset(t *testing.T) {
	srv := newTestServer(t)
	srv.createUser(t, "operator", models.RoleOperator, true)

	resp, unknown := srv.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]string{"email": "ghost@padidoc.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, known := srv.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]string{"email": "operator@padidoc.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, unknown.Message, known.Message)

	var issued struct {
		ResetToken string `json:"reset_token"`
	}
	require.NoError(t, json.Unmarshal(known.Data, &issued))
	require.NotEmpty(t, issued.ResetToken)

	reset := map[string]string{"token": issued.ResetToken, "new_password": "brand-new"}
	resp, _ = srv.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", reset)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", reset)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "operator@padidoc.com", "password": "brand-new"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
