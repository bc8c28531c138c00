package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"auditgate-backend/shared/database/models"
)

func TestLogin(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	user, _ := createUser(t, db, "user@acme.com", models.RoleAuditor, &org.ID)

	w := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "",
		LoginRequest{Email: "user@acme.com", Password: "password123"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("missing access token")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("unexpected token type %q", resp.TokenType)
	}
	if resp.User.ID != user.ID {
		t.Error("response carries wrong user")
	}

	// The token works against a protected route
	w = doRequest(t, router, http.MethodGet, "/api/v1/auth/me", resp.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("token rejected: %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginRejectsBadCredentialsAndInactive(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	user, token := createUser(t, db, "user@acme.com", models.RoleAuditor, &org.ID)

	w := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "",
		LoginRequest{Email: "user@acme.com", Password: "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", w.Code)
	}

	// Unknown email reads the same as a wrong password
	w = doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "",
		LoginRequest{Email: "nobody@acme.com", Password: "password123"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email: expected 401, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "Invalid credentials" {
		t.Errorf("unexpected message %q", msg)
	}

	// Deactivated accounts cannot log in, and live tokens stop working
	db.Model(&user).Update("is_active", false)
	w = doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "",
		LoginRequest{Email: "user@acme.com", Password: "password123"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("inactive login: expected 401, got %d", w.Code)
	}
	w = doRequest(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("inactive bearer: expected 401, got %d", w.Code)
	}
}

func TestChangePassword(t *testing.T) {
	db, _ := setupTest(t)
	router := newTestRouter(db)

	org := createOrganization(t, db, "Acme")
	createUser(t, db, "user@acme.com", models.RoleAuditor, &org.ID)

	login := func(password string) int {
		w := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "",
			LoginRequest{Email: "user@acme.com", Password: password})
		return w.Code
	}
	_, token := func() (models.User, string) {
		var u models.User
		db.First(&u, "email = ?", "user@acme.com")
		w := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", "",
			LoginRequest{Email: "user@acme.com", Password: "password123"})
		var resp LoginResponse
		json.Unmarshal(w.Body.Bytes(), &resp)
		return u, resp.AccessToken
	}()

	// Wrong current password
	w := doRequest(t, router, http.MethodPost, "/api/v1/auth/change-password", token,
		ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "newpassword"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if msg := decodeError(t, w); msg != "Current password is incorrect" {
		t.Errorf("unexpected message %q", msg)
	}

	// Too short
	w = doRequest(t, router, http.MethodPost, "/api/v1/auth/change-password", token,
		ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "short"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	// Same as current
	w = doRequest(t, router, http.MethodPost, "/api/v1/auth/change-password", token,
		ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "password123"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	// Success, old password stops working
	w = doRequest(t, router, http.MethodPost, "/api/v1/auth/change-password", token,
		ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if code := login("password123"); code != http.StatusUnauthorized {
		t.Errorf("old password still accepted: %d", code)
	}
	if code := login("newpassword"); code != http.StatusOK {
		t.Errorf("new password rejected: %d", code)
	}
}
