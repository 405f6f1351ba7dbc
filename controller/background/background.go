package background

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"reflect"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"cloudaccounts/config"
	"cloudaccounts/dto"
	"cloudaccounts/model"
	"cloudaccounts/services"
)

// BackgroundController registers the event-push routes the platform's
// triggers deliver to. Delivery is at-least-once; every handler is written
// to tolerate redelivery through merge writes and tolerant deletes.
func BackgroundController(router *gin.Engine, cfg *config.Config, authClient *auth.Client, db *firestore.Client, bucket *storage.BucketHandle, log *zap.Logger) {
	events := router.Group("/events")
	{
		events.POST("/user-created", func(c *gin.Context) {
			OnUserCreate(c, db, log)
		})
		events.POST("/user-deleted", func(c *gin.Context) {
			OnUserDelete(c, db, log)
		})
		events.POST("/profile-updated", func(c *gin.Context) {
			OnProfileUpdate(c, authClient)
		})
		events.POST("/object-finalized", func(c *gin.Context) {
			OnObjectFinalize(c, cfg, db, bucket, log)
		})
		events.POST("/object-deleted", func(c *gin.Context) {
			OnObjectDelete(c, db)
		})
		events.POST("/record-deleted", func(c *gin.Context) {
			OnRecordDelete(c, bucket)
		})
	}
}

// bumpCounter adjusts the @info account counter. The counter is best-effort
// denormalization: a failed write is logged and never fails the event.
func bumpCounter(c *gin.Context, db *firestore.Client, log *zap.Logger, delta int) {
	_, err := db.Collection(model.UsersCollection).Doc(model.InfoDoc).Update(c.Request.Context(), []firestore.Update{
		{Path: model.TotalAccountsField, Value: firestore.Increment(delta)},
	})
	if err != nil {
		log.Warn("account counter update failed", zap.Int("delta", delta), zap.Error(err))
	}
}

// OnUserCreate seeds the profile document for a freshly created auth
// account and bumps the account counter. The profile write is a merge so a
// document created through the signup route survives redelivery untouched.
func OnUserCreate(c *gin.Context, db *firestore.Client, log *zap.Logger) {
	var event dto.UserEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	firstName, lastName := services.SplitDisplayName(event.DisplayName)

	profile := map[string]interface{}{
		"email":       event.Email,
		"displayName": event.DisplayName,
		"firstName":   firstName,
		"lastName":    lastName,
		"dob":         model.DOB{State: model.DOBUnset}.Value(),
		"photoURL":    event.PhotoURL,
		"phoneNumber": event.PhoneNumber,
		"permissions": model.DefaultPermissions(),
	}

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		_, err := services.ProfileDoc(db, event.UID).Set(ctx, profile, firestore.MergeAll)
		return err
	})
	g.Go(func() error {
		bumpCounter(c, db, log, 1)
		return nil
	})

	if err := g.Wait(); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"data": fmt.Sprintf("Profile for %s has been created.", event.UID)})
}

// OnUserDelete removes the profile document of a deleted auth account and
// decrements the counter.
func OnUserDelete(c *gin.Context, db *firestore.Client, log *zap.Logger) {
	var event dto.UserEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		_, err := services.ProfileDoc(db, event.UID).Delete(ctx)
		return err
	})
	g.Go(func() error {
		bumpCounter(c, db, log, -1)
		return nil
	})

	if err := g.Wait(); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"data": fmt.Sprintf("Profile for %s has been deleted.", event.UID)})
}

// OnProfileUpdate pushes profile edits back into the auth account record so
// the identity provider and the document store agree on the basics.
func OnProfileUpdate(c *gin.Context, authClient *auth.Client) {
	var event dto.ProfileUpdateEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	if reflect.DeepEqual(event.Before, event.After) {
		c.JSON(200, gin.H{"data": "No changes."})
		return
	}

	if _, err := authClient.UpdateUser(c.Request.Context(), event.UID, profileUpdateParams(event.After)); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"data": fmt.Sprintf("Account %s has been synced.", event.UID)})
}

// profileUpdateParams maps the updated profile fields onto the auth record.
// Fields absent from the document are left untouched; only photoURL is
// always written, because a non-web URL must clear the stored one.
func profileUpdateParams(after map[string]interface{}) *auth.UserToUpdate {
	params := &auth.UserToUpdate{}

	if displayName := stringField(after, "displayName"); displayName != "" {
		params = params.DisplayName(displayName)
	}
	if phone := services.FormatPhone(stringField(after, "phoneNumber")); phone != "" {
		params = params.PhoneNumber(phone)
	}
	if email := stringField(after, "email"); email != "" {
		params = params.Email(email)
	}

	if photoURL := stringField(after, "photoURL"); services.IsWebURL(photoURL) {
		params = params.PhotoURL(photoURL)
	} else {
		params = params.PhotoURL("")
	}

	return params
}

func stringField(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	if value, ok := data[key].(string); ok {
		return value
	}
	return ""
}

// OnObjectFinalize denormalizes an uploaded object into a storage-reference
// record with a long-lived signed download URL. The record is keyed by the
// fileId metadata tag when the uploader set one, making re-uploads an
// upsert; otherwise each upload gets a fresh record. The write is
// best-effort denormalization: failures are logged, not redelivered.
func OnObjectFinalize(c *gin.Context, cfg *config.Config, db *firestore.Client, bucket *storage.BucketHandle, log *zap.Logger) {
	var event dto.ObjectEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	downloadURL, err := bucket.SignedURL(event.Name, &storage.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(cfg.SignedURLExpiry),
	})
	if err != nil {
		log.Error("signed URL generation failed", zap.String("object", event.Name), zap.Error(err))
		c.JSON(200, gin.H{"data": "Storage reference write skipped."})
		return
	}

	privacy := event.Metadata["privacy"]
	if privacy == "" {
		privacy = model.PrivacyPrivate
	}

	reference := model.StorageReference{
		Metadata:    event.Metadata,
		Path:        event.Name,
		Extension:   strings.TrimPrefix(path.Ext(event.Name), "."),
		DownloadURL: downloadURL,
		ContentType: event.ContentType,
		Size:        event.Size,
		CreatedAt:   event.TimeCreated,
		Privacy:     privacy,
	}

	recordID := event.Metadata[model.FileIDMetadataKey]
	if recordID == "" {
		recordID = uuid.New().String()
	}

	if _, err := db.Collection(model.StorageCollection).Doc(recordID).Set(c.Request.Context(), reference); err != nil {
		log.Error("storage reference write failed", zap.String("record", recordID), zap.Error(err))
		c.JSON(200, gin.H{"data": "Storage reference write skipped."})
		return
	}

	c.JSON(200, gin.H{"data": fmt.Sprintf("Storage reference %s has been written.", recordID)})
}

// OnObjectDelete removes the storage-reference record of a deleted object.
// Objects uploaded without a fileId tag leave their record orphaned.
func OnObjectDelete(c *gin.Context, db *firestore.Client) {
	var event dto.ObjectEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	recordID := event.Metadata[model.FileIDMetadataKey]
	if recordID == "" {
		c.JSON(200, gin.H{"data": "No fileId tag, nothing to delete."})
		return
	}

	// Deleting an absent record is a no-op, which stops the cascade with
	// the record-deleted handler after a single bounce.
	if _, err := db.Collection(model.StorageCollection).Doc(recordID).Delete(c.Request.Context()); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"data": fmt.Sprintf("Storage reference %s has been deleted.", recordID)})
}

// OnRecordDelete removes the underlying stored object when its
// storage-reference record is deleted. Record deletion is the authoritative
// direction of the sync; an already-deleted object is a no-op.
func OnRecordDelete(c *gin.Context, bucket *storage.BucketHandle) {
	var event dto.RecordDeleteEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	err := bucket.Object(event.Path).Delete(c.Request.Context())
	if errors.Is(err, storage.ErrObjectNotExist) {
		c.JSON(200, gin.H{"data": "Object already absent."})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"data": fmt.Sprintf("Object %s has been deleted.", event.Path)})
}
