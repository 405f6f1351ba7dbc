package user

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"cloudaccounts/config"
	"cloudaccounts/middleware"
	"cloudaccounts/model"
	"cloudaccounts/services"
)

func setupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	UserController(router, cfg, nil, nil)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)
	return w
}

func TestCreateUserRequiresEmailOrPhone(t *testing.T) {
	router := setupRouter(&config.Config{AdminUID: "admin-uid", AllowSignUp: true})

	w := postJSON(router, "/", `{"password": "secret123"}`)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "Either email and phone number must be provided.")
}

func TestCreateUserRejectsInvalidContact(t *testing.T) {
	router := setupRouter(&config.Config{AdminUID: "admin-uid", AllowSignUp: true})

	w := postJSON(router, "/", `{"email": "not-an-email", "phoneNumber": "12345", "password": "secret123"}`)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "A valid email or phone number must be provided.")
}

func TestCreateUserSignupDisabled(t *testing.T) {
	router := setupRouter(&config.Config{AdminUID: "admin-uid", AllowSignUp: false})

	// anonymous caller, signup mode off: create_user is required
	w := postJSON(router, "/", `{"email": "a@b.com", "password": "secret123"}`)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "You are not allowed to create users. Signup mode is disabled.")
}

// setupAuthedRouter wires the handlers behind a pre-resolved session so the
// authorization branches can be exercised without a live token.
func setupAuthedRouter(cc *services.CloudCore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	session := middleware.WithSession(cc)

	router.GET("/:uid", session, func(c *gin.Context) {
		GetUser(c, nil, nil)
	})
	router.PATCH("/:uid", session, func(c *gin.Context) {
		UpdateUser(c, nil)
	})
	router.PATCH("/:uid/custom", session, func(c *gin.Context) {
		UpdateCustomData(c, nil)
	})
	router.DELETE("/:uid", session, func(c *gin.Context) {
		DeleteUser(c, nil)
	})

	return router
}

func unprivilegedSession(uid string) *services.CloudCore {
	return services.NewCloudCoreForUser(uid, &model.Profile{
		Permissions: model.Permissions{},
	}, &config.Config{AdminUID: "admin-uid"})
}

func TestGetUserDeniesNonSelfWithoutPermission(t *testing.T) {
	router := setupAuthedRouter(unprivilegedSession("caller-uid"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/other-uid", nil))

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "You are not allowed to access this route.")
}

func TestUpdateUserDeniesNonSelfWithoutPermission(t *testing.T) {
	router := setupAuthedRouter(unprivilegedSession("caller-uid"))

	w := httptest.NewRecorder()
	r := httptest.NewRequest("PATCH", "/other-uid", strings.NewReader(`{"displayName": "X"}`))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "You are not allowed to edit this user.")
}

func TestUpdateCustomDataDeniesNonSelfWithoutPermission(t *testing.T) {
	router := setupAuthedRouter(unprivilegedSession("caller-uid"))

	w := httptest.NewRecorder()
	body := `{"data": [{"key": "nickname", "value": "x", "type": "string"}]}`
	r := httptest.NewRequest("PATCH", "/other-uid/custom", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "You are not allowed to edit this user.")
}

func TestDeleteUserHasNoSelfException(t *testing.T) {
	router := setupAuthedRouter(unprivilegedSession("caller-uid"))

	// delete_user is required even for the caller's own account
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/caller-uid", nil))

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "You are not allowed to delete users.")
}

func TestAuthenticatedRoutesRejectMissingToken(t *testing.T) {
	router := setupRouter(&config.Config{AdminUID: "admin-uid", AllowSignUp: true})

	for _, route := range []struct {
		method string
		path   string
	}{
		{"GET", "/some-uid"},
		{"PATCH", "/some-uid"},
		{"PATCH", "/some-uid/custom"},
		{"DELETE", "/some-uid"},
	} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(route.method, route.path, strings.NewReader(`{}`))
		r.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, r)

		assert.Equal(t, 400, w.Code, "%s %s", route.method, route.path)
		assert.Contains(t, w.Body.String(), "Invalid authorization token.", "%s %s", route.method, route.path)
	}
}
