// Command install is the one-time bootstrap: it verifies the environment,
// grants the configured admin a full-permission profile document and seeds
// the account counter.
package main

import (
	"context"
	"fmt"
	"log"

	"cloudaccounts/config"
	"cloudaccounts/connection"
	"cloudaccounts/model"
	"cloudaccounts/services"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration is incomplete: %v", err)
	}

	fmt.Println("Initializing Firebase Admin")
	fb, err := connection.FBConnection(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to connect to Firebase: %v", err)
	}
	fmt.Println("Done")

	fmt.Println("Checking Cloud Storage bucket")
	if _, err := fb.Bucket.Attrs(ctx); err != nil {
		log.Fatalf("Unable to reach the storage bucket; make sure Cloud Storage is enabled: %v", err)
	}
	fmt.Println("Done")

	fmt.Println("Checking if admin user exists in Firebase Authentication")
	adminUser, err := fb.Auth.GetUser(ctx, cfg.AdminUID)
	if err != nil {
		log.Fatalf("Admin user id %s does not exist in Firebase Authentication: %v", cfg.AdminUID, err)
	}
	fmt.Println("Done")

	firstName, lastName := services.SplitDisplayName(adminUser.DisplayName)

	adminProfile := map[string]interface{}{
		"email":       adminUser.Email,
		"displayName": adminUser.DisplayName,
		"firstName":   firstName,
		"lastName":    lastName,
		"dob":         model.DOB{State: model.DOBUnset}.Value(),
		"photoURL":    adminUser.PhotoURL,
		"phoneNumber": adminUser.PhoneNumber,
		"permissions": model.FullPermissions(),
	}

	fmt.Println("Syncing admin profile to Firestore")
	if _, err := services.ProfileDoc(fb.Firestore, cfg.AdminUID).Set(ctx, adminProfile); err != nil {
		log.Fatalf("Unable to sync admin data to Firestore: %v", err)
	}
	fmt.Println("Done")

	fmt.Println("Seeding account counter")
	info := map[string]interface{}{model.TotalAccountsField: 1}
	if _, err := fb.Firestore.Collection(model.UsersCollection).Doc(model.InfoDoc).Set(ctx, info); err != nil {
		log.Fatalf("Unable to seed the account counter: %v", err)
	}
	fmt.Println("Done")

	fmt.Println("Installation completed successfully")
}
