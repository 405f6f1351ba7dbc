package services

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cloudaccounts/model"
)

// ProfileDoc returns the document reference for a user's profile. Profile
// documents are always keyed by the auth UID.
func ProfileDoc(db *firestore.Client, uid string) *firestore.DocumentRef {
	return db.Collection(model.UsersCollection).Doc(uid)
}

// GetProfile loads a profile document by UID. A missing document is
// reported as ErrProfileNotFound.
func GetProfile(ctx context.Context, db *firestore.Client, uid string) (*model.Profile, error) {
	snap, err := ProfileDoc(db, uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if !snap.Exists() {
		return nil, ErrProfileNotFound
	}

	var profile model.Profile
	if err := snap.DataTo(&profile); err != nil {
		return nil, err
	}

	return &profile, nil
}
