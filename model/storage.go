package model

import "time"

const (
	StorageCollection = "StorageReferences"

	// FileIDMetadataKey is the custom metadata tag uploaders may set to pin
	// the record ID of an object; uploads without it get an auto ID.
	FileIDMetadataKey = "fileId"

	PrivacyPrivate = "private"
)

// StorageReference denormalizes an uploaded object's metadata into
// Firestore so clients can list and download files without touching the
// bucket directly.
type StorageReference struct {
	Metadata    map[string]string `firestore:"metadata"`
	Path        string            `firestore:"path"`
	Extension   string            `firestore:"extension"`
	DownloadURL string            `firestore:"downloadURL"`
	ContentType string            `firestore:"contentType"`
	Size        int64             `firestore:"size"`
	CreatedAt   time.Time         `firestore:"createdAt"`
	Privacy     string            `firestore:"privacy"`
}
