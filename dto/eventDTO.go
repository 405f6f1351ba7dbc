package dto

import "time"

// Event payloads pushed by the platform's triggers to the /events routes.

type UserEvent struct {
	UID         string `json:"uid" binding:"required"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	PhoneNumber string `json:"phoneNumber"`
}

type ProfileUpdateEvent struct {
	UID    string                 `json:"uid" binding:"required"`
	Before map[string]interface{} `json:"before"`
	After  map[string]interface{} `json:"after"`
}

// ObjectEvent mirrors the GCS object resource; Size arrives as a string in
// storage notifications.
type ObjectEvent struct {
	Name        string            `json:"name" binding:"required"`
	Bucket      string            `json:"bucket"`
	ContentType string            `json:"contentType"`
	Size        int64             `json:"size,string"`
	TimeCreated time.Time         `json:"timeCreated"`
	Metadata    map[string]string `json:"metadata"`
}

// RecordDeleteEvent describes a deleted storage-reference document.
type RecordDeleteEvent struct {
	ID   string `json:"id"`
	Path string `json:"path" binding:"required"`
}
