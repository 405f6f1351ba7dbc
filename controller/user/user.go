package user

import (
	"fmt"
	"net/http"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cloudaccounts/config"
	"cloudaccounts/dto"
	"cloudaccounts/middleware"
	"cloudaccounts/model"
	"cloudaccounts/services"
)

func UserController(router *gin.Engine, cfg *config.Config, authClient *auth.Client, db *firestore.Client) {
	optional := middleware.CloudCoreMiddleware(cfg, authClient, db, false)
	required := middleware.CloudCoreMiddleware(cfg, authClient, db, true)

	router.POST("/", optional, func(c *gin.Context) {
		CreateUser(c, cfg, authClient, db)
	})
	router.GET("/:uid", required, func(c *gin.Context) {
		GetUser(c, authClient, db)
	})
	router.PATCH("/:uid", required, func(c *gin.Context) {
		UpdateUser(c, db)
	})
	router.PATCH("/:uid/custom", required, func(c *gin.Context) {
		UpdateCustomData(c, db)
	})
	router.DELETE("/:uid", required, func(c *gin.Context) {
		DeleteUser(c, authClient)
	})
}

// Standard fields go into the auth account record; everything else is
// custom data merged into the profile document.
func isStandardField(name string) bool {
	switch name {
	case "displayName", "email", "phoneNumber", "password", "emailVerified", "disabled", "photoURL":
		return true
	}
	return false
}

func asString(value interface{}) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}

// coerceDOB applies the update-path dob policy: a parseable date becomes a
// timestamp, anything falsy becomes null, anything truthy but unparseable
// is a validation error.
func coerceDOB(raw interface{}) (model.DOB, bool) {
	if !services.Truthy(raw) {
		return model.DOB{State: model.DOBNull}, true
	}

	if s, ok := raw.(string); ok {
		if t, parsed := services.ParseDate(s); parsed {
			return model.DOB{State: model.DOBSet, Date: t}, true
		}
	}

	return model.DOB{}, false
}

func CreateUser(c *gin.Context, cfg *config.Config, authClient *auth.Client, db *firestore.Client) {
	cc := middleware.SessionFrom(c)

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	email := asString(body["email"])
	phoneNumber := asString(body["phoneNumber"])
	password := asString(body["password"])
	displayName := asString(body["displayName"])
	photoURL := asString(body["photoURL"])

	if email == "" && phoneNumber == "" {
		c.JSON(400, gin.H{"error": "Either email and phone number must be provided."})
		return
	}

	if !services.IsEmail(email) && services.FormatPhone(phoneNumber) == "" {
		c.JSON(400, gin.H{"error": "A valid email or phone number must be provided."})
		return
	}

	// Anonymous signups are allowed only while signup mode is on
	if !cfg.AllowSignUp && !cc.Can(model.PermCreateUser) {
		c.JSON(400, gin.H{"error": "You are not allowed to create users. Signup mode is disabled."})
		return
	}

	params := (&auth.UserToCreate{}).
		EmailVerified(false).
		Disabled(false).
		Password(password).
		DisplayName(displayName)

	if services.IsWebURL(photoURL) {
		params = params.PhotoURL(photoURL)
	}
	if phone := services.FormatPhone(phoneNumber); phone != "" {
		params = params.PhoneNumber(phone)
	}
	if services.IsEmail(email) {
		params = params.Email(email)
	}

	ctx := c.Request.Context()

	userRecord, err := authClient.CreateUser(ctx, params)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	// Unrecognized body fields become custom data on the profile document.
	// Permissions can never be client-set.
	extraData := make(map[string]interface{})
	for key, value := range body {
		if !isStandardField(key) && key != "permissions" {
			extraData[key] = value
		}
	}

	if len(extraData) > 0 {
		dob, ok := coerceDOB(extraData["dob"])
		if !ok {
			c.JSON(400, gin.H{"error": "DOB must be a valid Date."})
			return
		}
		extraData["dob"] = dob.Value()

		// Merge write so the reactive profile seed cannot be clobbered
		if _, err := services.ProfileDoc(db, userRecord.UID).Set(ctx, extraData, firestore.MergeAll); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
	}

	c.JSON(200, gin.H{"data": userRecord})
}

func GetUser(c *gin.Context, authClient *auth.Client, db *firestore.Client) {
	cc := middleware.SessionFrom(c)
	uid := c.Param("uid")

	// A user can always fetch their own record
	if !cc.Can(model.PermGetUser) && uid != cc.UID() {
		c.JSON(400, gin.H{"error": "You are not allowed to access this route."})
		return
	}

	ctx := c.Request.Context()

	snap, err := services.ProfileDoc(db, uid).Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	if err != nil || !snap.Exists() {
		c.JSON(404, gin.H{"error": fmt.Sprintf("Unable to retrieve user %s.", uid)})
		return
	}

	authData, err := authClient.GetUser(ctx, uid)
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"data": snap.Data(), "authData": authData})
}

func UpdateUser(c *gin.Context, db *firestore.Client) {
	cc := middleware.SessionFrom(c)
	uid := c.Param("uid")

	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	// A user can update their own info
	if !cc.Can(model.PermEditUser) && uid != cc.UID() {
		c.JSON(400, gin.H{"error": "You are not allowed to edit this user."})
		return
	}

	// Permissions cannot be updated through a regular update
	delete(body, "permissions")

	dob, ok := coerceDOB(body["dob"])
	if !ok {
		c.JSON(400, gin.H{"error": "DOB must be a valid Date."})
		return
	}
	body["dob"] = dob.Value()

	if _, err := services.ProfileDoc(db, uid).Set(c.Request.Context(), body, firestore.MergeAll); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"data": fmt.Sprintf("User %s has been updated successfully.", uid)})
}

func UpdateCustomData(c *gin.Context, db *firestore.Client) {
	cc := middleware.SessionFrom(c)
	uid := c.Param("uid")

	var request dto.UpdateCustomRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	if len(request.Data) == 0 {
		c.JSON(400, gin.H{"error": "Data is required to update user."})
		return
	}

	if !cc.Can(model.PermEditUser) && uid != cc.UID() {
		c.JSON(400, gin.H{"error": "You are not allowed to edit this user."})
		return
	}

	data := services.ProcessCustomData(request.Data)
	delete(data, "permissions")

	if _, err := services.ProfileDoc(db, uid).Set(c.Request.Context(), data, firestore.MergeAll); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"data": fmt.Sprintf("User %s has been updated successfully.", uid)})
}

func DeleteUser(c *gin.Context, authClient *auth.Client) {
	cc := middleware.SessionFrom(c)
	uid := c.Param("uid")

	// No self-delete exception here
	if !cc.Can(model.PermDeleteUser) {
		c.JSON(400, gin.H{"error": "You are not allowed to delete users."})
		return
	}

	// Only the auth account is deleted here; the profile document is
	// removed by the user-deleted sync handler reacting to this.
	if err := authClient.DeleteUser(c.Request.Context(), uid); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": fmt.Sprintf("User %s has been deleted successfully.", uid)})
}
