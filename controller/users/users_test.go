package users

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"cloudaccounts/config"
	"cloudaccounts/middleware"
	"cloudaccounts/model"
	"cloudaccounts/services"
)

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 50, ParseLimit("50"))
	assert.Equal(t, 100, ParseLimit(""), "missing limit defaults to 100")
	assert.Equal(t, 100, ParseLimit("abc"), "non-numeric limit defaults to 100")
	assert.Equal(t, 5000, ParseLimit("5000"), "the cap is enforced by the handler, not the parser")
}

func setupAuthedRouter(cc *services.CloudCore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", middleware.WithSession(cc), func(c *gin.Context) {
		ListUsers(c, nil)
	})
	return router
}

func TestListUsersDeniesCallerWithoutPermission(t *testing.T) {
	cc := services.NewCloudCoreForUser("caller-uid", &model.Profile{
		Permissions: model.Permissions{},
	}, &config.Config{AdminUID: "admin-uid"})
	router := setupAuthedRouter(cc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/?limit=10", nil))

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "You are not allowed to access this route.")
}

func TestListUsersRejectsOversizedLimit(t *testing.T) {
	cc := services.NewCloudCoreForUser("caller-uid", &model.Profile{
		Permissions: model.Permissions{model.PermGetUser: true},
	}, &config.Config{AdminUID: "admin-uid"})
	router := setupAuthedRouter(cc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/?limit=5000", nil))

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "You cannot fetch more than 1000 users at one query.")
}

func TestListUsersRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	UsersController(router, &config.Config{AdminUID: "admin-uid"}, nil, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/?limit=10", nil))

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid authorization token.")
}
