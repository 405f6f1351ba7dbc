package users

import (
	"strconv"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/iterator"

	"cloudaccounts/config"
	"cloudaccounts/middleware"
	"cloudaccounts/model"
)

func UsersController(router *gin.Engine, cfg *config.Config, authClient *auth.Client, db *firestore.Client) {
	router.GET("/", middleware.CloudCoreMiddleware(cfg, authClient, db, true), func(c *gin.Context) {
		ListUsers(c, authClient)
	})
}

// ParseLimit falls back to 100 when the supplied value is not numeric.
func ParseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 100
	}
	return limit
}

func ListUsers(c *gin.Context, authClient *auth.Client) {
	cc := middleware.SessionFrom(c)

	limit := ParseLimit(c.Query("limit"))
	if limit > 999 {
		c.JSON(400, gin.H{"error": "You cannot fetch more than 1000 users at one query."})
		return
	}

	if !cc.Can(model.PermGetUser) {
		c.JSON(400, gin.H{"error": "You are not allowed to access this route."})
		return
	}

	pager := iterator.NewPager(authClient.Users(c.Request.Context(), ""), limit, c.Query("next"))

	var page []*auth.ExportedUserRecord
	nextPageToken, err := pager.NextPage(&page)
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	if page == nil {
		page = []*auth.ExportedUserRecord{}
	}

	c.JSON(200, gin.H{"nextPageToken": nextPageToken, "data": page})
}
