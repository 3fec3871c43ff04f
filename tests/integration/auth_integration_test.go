// Package integration tests for the auth API over HTTP: registration,
// login, session resolution, token refresh and logout, plus the rule that
// the tenant always comes from the authenticated session.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	identityapp "github.com/docvault/backend/internal/application/identity"
	"github.com/docvault/backend/internal/application/onboarding"
	portalapp "github.com/docvault/backend/internal/application/portal"
	"github.com/docvault/backend/internal/infrastructure/auth"
	"github.com/docvault/backend/internal/infrastructure/config"
	"github.com/docvault/backend/internal/infrastructure/persistence"
	"github.com/docvault/backend/internal/interfaces/http/handler"
	"github.com/docvault/backend/internal/interfaces/http/middleware"
	"github.com/docvault/backend/internal/interfaces/http/router"
)

// authTestServer wires the real HTTP stack against a test database
type authTestServer struct {
	World      *sagaWorld
	Engine     *gin.Engine
	JWTService *auth.JWTService
	Blacklist  *auth.InMemoryTokenBlacklist
}

func newAuthTestServer(t *testing.T) *authTestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	w := newSagaWorld(t)
	log := zaptest.NewLogger(t)

	saga := w.newSaga(t, onboarding.SagaConfig{})

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-auth-testing-1234567890",
		RefreshSecret:          "test-refresh-secret-key-for-auth-testing",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "docvault-test",
		MaxRefreshCount:        10,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()

	sessions := identityapp.NewSessionService(
		w.Provider, w.ProfileRepo, w.TenantRepo, w.ClientRecordRepo,
		jwtService, blacklist, log)

	projects := persistence.NewGormProjectRepository(w.DB.DB)
	documents := persistence.NewGormDocumentRepository(w.DB.DB)
	dataService := portalapp.NewClientDataService(
		w.CompanyRepo, projects, documents, w.ClientRecordRepo, log)
	guard := portalapp.NewAccessGuard(projects, w.AuditLog, log)

	authHandler := handler.NewAuthHandler(saga, sessions, config.CookieConfig{Path: "/", SameSite: "lax"})
	portalHandler := handler.NewPortalHandler(dataService, guard)

	publicPaths := []string{
		"/api/v1/auth/register",
		"/api/v1/auth/login",
		"/api/v1/auth/refresh",
	}

	engine := gin.New()
	r := router.NewRouter(engine)
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths:      publicPaths,
		Logger:         log,
	}))
	r.Use(middleware.TenantMiddlewareWithConfig(middleware.TenantConfig{
		SkipPaths: publicPaths,
		Logger:    log,
	}))
	r.Register(router.AuthRoutes(authHandler, nil)).
		Register(router.PortalRoutes(portalHandler))
	r.Setup()

	return &authTestServer{
		World:      w,
		Engine:     engine,
		JWTService: jwtService,
		Blacklist:  blacklist,
	}
}

// request performs an HTTP request against the in-process engine. Extra
// headers come in pairs: key, value.
func (ts *authTestServer) request(method, path string, body any, token string, headers ...string) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	ts.Engine.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return resp
}

func registerBody(email, companyName, taxID string) map[string]any {
	return map[string]any{
		"email":        email,
		"password":     "str0ng-passw0rd",
		"contact_name": "Jamie Fowler",
		"company_name": companyName,
		"tax_id":       taxID,
		"address":      "12 Harbour St",
		"city":         "Barcelona",
		"postal_code":  "08001",
	}
}

// register provisions a tenant through the API and returns its tenant id
func (ts *authTestServer) register(t *testing.T, email, companyName, taxID string) uuid.UUID {
	t.Helper()

	rec := ts.request(http.MethodPost, "/api/v1/auth/register", registerBody(email, companyName, taxID), "")
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]any)
	tenantID, err := uuid.Parse(data["tenant_id"].(string))
	require.NoError(t, err)
	return tenantID
}

// login authenticates through the API and returns the token pair
func (ts *authTestServer) login(t *testing.T, email string) (access, refresh string) {
	t.Helper()

	rec := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": "str0ng-passw0rd",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	resp := decodeResponse(t, rec)
	token := resp["data"].(map[string]any)["token"].(map[string]any)
	return token["access_token"].(string), token["refresh_token"].(string)
}

func TestAuthAPI_RegisterAndLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := newAuthTestServer(t)

	rec := ts.request(http.MethodPost, "/api/v1/auth/register",
		registerBody("owner@acme.test", "Acme Storage", "ES-B1234567"), "")
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	resp := decodeResponse(t, rec)
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]any)
	assert.Equal(t, "owner@acme.test", data["email"])
	assert.Equal(t, "Acme Storage", data["company_name"])
	assert.NotEmpty(t, data["identity_id"])
	quota := data["quota"].(map[string]any)
	assert.EqualValues(t, 1024, quota["storage_mb"])

	rec = ts.request(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "owner@acme.test",
		"password": "str0ng-passw0rd",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	resp = decodeResponse(t, rec)
	loginData := resp["data"].(map[string]any)
	token := loginData["token"].(map[string]any)
	assert.NotEmpty(t, token["access_token"])
	assert.NotEmpty(t, token["refresh_token"])
	assert.Equal(t, "Bearer", token["token_type"])

	session := loginData["session"].(map[string]any)
	assert.Equal(t, data["tenant_id"], session["tenant_id"])
	assert.Equal(t, "Acme Storage", session["company_name"])
}

func TestAuthAPI_RegisterDuplicateCompanyRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := newAuthTestServer(t)
	ts.register(t, "first@acme.test", "Acme Storage", "ES-B1234567")

	// Same company name, different casing
	rec := ts.request(http.MethodPost, "/api/v1/auth/register",
		registerBody("second@acme.test", "ACME STORAGE", "ES-B7654321"), "")
	require.Equal(t, http.StatusConflict, rec.Code, "body: %s", rec.Body.String())

	resp := decodeResponse(t, rec)
	assert.False(t, resp["success"].(bool))
	errInfo := resp["error"].(map[string]any)
	assert.Equal(t, "ERR_VALIDATION_CONFLICT", errInfo["code"])
	details := errInfo["details"].([]any)
	require.NotEmpty(t, details)
	assert.Equal(t, "company_name", details[0].(map[string]any)["field"])
}

func TestAuthAPI_LoginWrongPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := newAuthTestServer(t)
	ts.register(t, "owner@acme.test", "Acme Storage", "ES-B1234567")

	rec := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":    "owner@acme.test",
		"password": "wrong-password-1",
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	resp := decodeResponse(t, rec)
	errInfo := resp["error"].(map[string]any)
	assert.Equal(t, "ERR_UNAUTHORIZED", errInfo["code"])
}

func TestAuthAPI_SessionLogoutRevokesToken(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := newAuthTestServer(t)
	tenantID := ts.register(t, "owner@acme.test", "Acme Storage", "ES-B1234567")
	access, _ := ts.login(t, "owner@acme.test")

	rec := ts.request(http.MethodGet, "/api/v1/auth/session", nil, access)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	session := decodeResponse(t, rec)["data"].(map[string]any)
	assert.Equal(t, tenantID.String(), session["tenant_id"])

	rec = ts.request(http.MethodPost, "/api/v1/auth/logout", nil, access)
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	// The revoked token no longer opens the session
	rec = ts.request(http.MethodGet, "/api/v1/auth/session", nil, access)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAPI_RefreshIssuesWorkingPair(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := newAuthTestServer(t)
	ts.register(t, "owner@acme.test", "Acme Storage", "ES-B1234567")
	_, refresh := ts.login(t, "owner@acme.test")

	rec := ts.request(http.MethodPost, "/api/v1/auth/refresh", map[string]any{
		"refresh_token": refresh,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	token := decodeResponse(t, rec)["data"].(map[string]any)["token"].(map[string]any)
	newAccess := token["access_token"].(string)
	require.NotEmpty(t, newAccess)

	rec = ts.request(http.MethodGet, "/api/v1/auth/session", nil, newAccess)
	assert.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
}

func TestAuthAPI_RefreshRejectsGarbage(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := newAuthTestServer(t)

	rec := ts.request(http.MethodPost, "/api/v1/auth/refresh", map[string]any{
		"refresh_token": "not-a-jwt",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAPI_ProtectedEndpointsRequireToken(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := newAuthTestServer(t)

	cases := []struct {
		name  string
		token string
	}{
		{"missing_token", ""},
		{"garbage_token", "garbage.token.value"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.request(http.MethodGet, "/api/v1/portal/projects", nil, tc.token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			rec = ts.request(http.MethodGet, "/api/v1/auth/session", nil, tc.token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthAPI_TenantComesFromSessionNotHeaders(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := newAuthTestServer(t)
	tenantA := ts.register(t, "owner-a@acme.test", "Acme Storage", "ES-B1234567")
	tenantB := ts.register(t, "owner-b@globex.test", "Globex Files", "ES-B7654321")
	access, _ := ts.login(t, "owner-a@acme.test")

	projectID := uuid.New()
	ts.World.DB.CreateTestProject(tenantA, projectID, "A: Annual Filings")
	ts.World.DB.CreateTestProject(tenantB, uuid.New(), "B: Contracts")

	// A spoofed tenant header must be ignored; the session decides
	rec := ts.request(http.MethodGet, "/api/v1/portal/projects", nil, access,
		"X-Tenant-ID", tenantB.String())
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	projects := decodeResponse(t, rec)["data"].([]any)
	require.Len(t, projects, 1)
	assert.Equal(t, "A: Annual Filings", projects[0].(map[string]any)["name"])

	// Renaming another tenant's project is denied even with a valid session
	otherProject := uuid.New()
	ts.World.DB.CreateTestProject(tenantB, otherProject, "B: Payroll")
	rec = ts.request(http.MethodPut,
		fmt.Sprintf("/api/v1/portal/projects/%s/name", otherProject),
		map[string]any{"name": "Hijacked"}, access)
	assert.Equal(t, http.StatusForbidden, rec.Code, "body: %s", rec.Body.String())
}
