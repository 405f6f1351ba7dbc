package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/auth"

	"cloudaccounts/config"
	"cloudaccounts/model"
)

var (
	// ErrUnauthorized means authentication was required and no token came in.
	ErrUnauthorized = errors.New("invalid authorization token")
	// ErrProfileNotFound means the token verified but no profile document
	// exists for the UID.
	ErrProfileNotFound = errors.New("document does not exist")
)

// CloudCore bootstraps a request's session: it extracts the bearer token,
// verifies it against Firebase Auth, loads the caller's profile document
// and answers permission checks. Every profile route shares these steps;
// whether a missing token is fatal is decided by the requireAuth flag
// (signup allows anonymous callers, everything else does not).
type CloudCore struct {
	token       string
	uid         string
	profile     *model.Profile
	requireAuth bool
	adminUID    string
	auth        *auth.Client
	db          *firestore.Client
}

// NewCloudCore extracts the bearer token from the request's Authorization
// header. No validation happens until Init.
func NewCloudCore(r *http.Request, requireAuth bool, cfg *config.Config, authClient *auth.Client, db *firestore.Client) *CloudCore {
	return &CloudCore{
		token:       extractToken(r),
		requireAuth: requireAuth,
		adminUID:    cfg.AdminUID,
		auth:        authClient,
		db:          db,
	}
}

// NewCloudCoreForUser returns an already-initialized session for a caller
// whose identity has been resolved elsewhere; Init is not needed and token
// verification is bypassed.
func NewCloudCoreForUser(uid string, profile *model.Profile, cfg *config.Config) *CloudCore {
	return &CloudCore{
		token:       "resolved",
		uid:         uid,
		profile:     profile,
		requireAuth: true,
		adminUID:    cfg.AdminUID,
	}
}

// NewCloudCoreFromToken bootstraps from a raw token string, for callers
// that are not HTTP requests.
func NewCloudCoreFromToken(token string, requireAuth bool, cfg *config.Config, authClient *auth.Client, db *firestore.Client) *CloudCore {
	return &CloudCore{
		token:       token,
		requireAuth: requireAuth,
		adminUID:    cfg.AdminUID,
		auth:        authClient,
		db:          db,
	}
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.Split(header, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}

// Init verifies the token and loads the caller's profile document. With no
// token it fails only when authentication is required.
func (cc *CloudCore) Init(ctx context.Context) error {
	if cc.token == "" {
		if cc.requireAuth {
			return ErrUnauthorized
		}
		return nil
	}

	decoded, err := cc.auth.VerifyIDToken(ctx, cc.token)
	if err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}

	profile, err := GetProfile(ctx, cc.db, decoded.UID)
	if err != nil {
		return err
	}

	cc.uid = decoded.UID
	cc.profile = profile
	return nil
}

func (cc *CloudCore) UID() string {
	return cc.uid
}

func (cc *CloudCore) Profile() *model.Profile {
	return cc.profile
}

// IsAdmin reports whether the resolved UID is the configured admin.
func (cc *CloudCore) IsAdmin() bool {
	return cc.uid != "" && cc.uid == cc.adminUID
}

// Can answers a permission check. The admin can do anything; an anonymous
// caller on an optional-auth route can do nothing; everyone else gets the
// boolean value of the named permission on their profile (absent = false).
func (cc *CloudCore) Can(permission string) bool {
	if cc.IsAdmin() {
		return true
	}

	if !cc.requireAuth && cc.token == "" {
		return false
	}

	if cc.profile == nil {
		return false
	}

	return cc.profile.Permissions[permission]
}
