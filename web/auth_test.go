package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/iatek/deptadmin/db"
	"github.com/iatek/deptadmin/util"
	"golang.org/x/crypto/bcrypt"
)

func testConf() *util.AppConfig {
	conf := &util.AppConfig{}
	conf.Conf.Host = "localhost"
	conf.Conf.HttpPort = 8080
	conf.Conf.AdminEmail = "admin@iatek.com"
	return conf
}

func setupTestRouter(t *testing.T) (*gin.Engine, *db.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	router := gin.New()
	RegisterRoutes(router, testConf(), database)
	return router, database
}

func createTestAdmin(t *testing.T, database *db.DB, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if err, _ := database.CreateAdmin("admin", email, string(hash)); err != nil {
		t.Fatalf("CreateAdmin failed: %v", err)
	}
}

func TestHandleLoginSuccess(t *testing.T) {
	router, database := setupTestRouter(t)
	createTestAdmin(t, database, "admin@iatek.com", "secret")

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"email":"admin@iatek.com","password":"secret"}`)
	req, _ := http.NewRequest("POST", "/api/auth/login", body)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
		Data  struct {
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if len(resp.Token) != tokenLength {
		t.Errorf("Expected token of length %d, got %d", tokenLength, len(resp.Token))
	}

	if resp.Data.Username != "admin" {
		t.Errorf("Expected username 'admin', got '%s'", resp.Data.Username)
	}

	// The token should now pass bearer auth
	err, admin := database.ReadSessionAdmin(resp.Token)
	if err != nil {
		t.Fatalf("Issued token not found in sessions: %v", err)
	}
	if admin.Email != "admin@iatek.com" {
		t.Errorf("Session resolved to wrong admin: %s", admin.Email)
	}
}

func TestHandleLoginBadPassword(t *testing.T) {
	router, database := setupTestRouter(t)
	createTestAdmin(t, database, "admin@iatek.com", "secret")

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"email":"admin@iatek.com","password":"wrong"}`)
	req, _ := http.NewRequest("POST", "/api/auth/login", body)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}

	if !strings.Contains(w.Body.String(), "Invalid credentials") {
		t.Errorf("Expected generic credentials message, got: %s", w.Body.String())
	}
}

func TestHandleLoginUnknownEmail(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"email":"nobody@iatek.com","password":"secret"}`)
	req, _ := http.NewRequest("POST", "/api/auth/login", body)
	router.ServeHTTP(w, req)

	// Unknown email and wrong password should be indistinguishable
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}

	if !strings.Contains(w.Body.String(), "Invalid credentials") {
		t.Errorf("Expected generic credentials message, got: %s", w.Body.String())
	}
}

func TestHandleLoginMissingFields(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"email":"","password":""}`)
	req, _ := http.NewRequest("POST", "/api/auth/login", body)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestHandleRegister(t *testing.T) {
	router, database := setupTestRouter(t)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"username":"newadmin","email":"new@iatek.com","password":"secret"}`)
	req, _ := http.NewRequest("POST", "/api/auth/register", body)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	err, admin := database.ReadAdminByEmail("new@iatek.com")
	if err != nil {
		t.Fatalf("Registered admin not found: %v", err)
	}

	// The password must be stored hashed
	if admin.PasswordHash == "secret" {
		t.Error("Password stored in plaintext")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("secret")) != nil {
		t.Error("Stored hash does not match the password")
	}
}

func TestHandleRegisterDuplicateEmail(t *testing.T) {
	router, database := setupTestRouter(t)
	createTestAdmin(t, database, "admin@iatek.com", "secret")

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"username":"other","email":"admin@iatek.com","password":"secret"}`)
	req, _ := http.NewRequest("POST", "/api/auth/register", body)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
}

func TestHandleMe(t *testing.T) {
	router, database := setupTestRouter(t)
	createTestAdmin(t, database, "admin@iatek.com", "secret")

	err, admin := database.ReadAdminByEmail("admin@iatek.com")
	if err != nil {
		t.Fatalf("ReadAdminByEmail failed: %v", err)
	}
	if err := database.CreateSession("me-token", admin.Id); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer me-token")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if resp.Data.Username != "admin" || resp.Data.Email != "admin@iatek.com" {
		t.Errorf("Unexpected identity payload: %+v", resp.Data)
	}
}

func TestNewSessionToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := newSessionToken()
		if err != nil {
			t.Fatalf("newSessionToken failed: %v", err)
		}
		if len(token) != tokenLength {
			t.Fatalf("Expected token of length %d, got %d", tokenLength, len(token))
		}
		if seen[token] {
			t.Fatalf("newSessionToken produced duplicate: %s", token)
		}
		seen[token] = true
	}
}

func TestHandleMeWithoutToken(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/auth/me", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}
