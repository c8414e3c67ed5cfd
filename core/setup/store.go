package setup

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// Keys persisted in the ProgressStore.
const (
	KeyProgress        = "setupProgress"
	KeyCampusID        = "setupCampusId"
	KeyCampusName      = "setupCampusName"
	KeyClassID         = "setupClassId"
	KeyClassName       = "setupClassName"
	KeyIsSetupComplete = "isSetupComplete"
	KeyAuthToken       = "authToken"
	KeyUserInfo        = "userInfo"
)

// SetupKeys are the keys cleared once the setup is complete.
var SetupKeys = []string{KeyProgress, KeyCampusID, KeyCampusName, KeyClassID, KeyClassName}

// ProgressStore is a durable flat string-keyed map.
type ProgressStore interface {
	// Get returns the value of key and whether it is set.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes keys; unknown keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// UserInfo is the signed in admin, cached next to the session token.
type UserInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	SchoolName string `json:"schoolName"`
}

// Session gives access to the signed in admin.
type Session interface {
	Token(ctx context.Context) (string, error)
	UserInfo(ctx context.Context) (UserInfo, error)
}

// StoreSession keeps the session in the same store as the wizard progress.
type StoreSession struct {
	Store ProgressStore
}

var _ Session = (*StoreSession)(nil)

func (s StoreSession) Token(ctx context.Context) (string, error) {
	token, ok, err := s.Store.Get(ctx, KeyAuthToken)
	if err != nil {
		return "", errors.Wrap(err, "reading auth token")
	}
	if !ok || token == "" {
		return "", ErrNoSession
	}
	return token, nil
}

func (s StoreSession) UserInfo(ctx context.Context) (UserInfo, error) {
	var info UserInfo
	raw, ok, err := s.Store.Get(ctx, KeyUserInfo)
	if err != nil {
		return info, errors.Wrap(err, "reading user info")
	}
	if !ok || raw == "" {
		return info, nil
	}
	if err = json.Unmarshal([]byte(raw), &info); err != nil {
		return UserInfo{}, errors.Wrap(err, "decoding user info")
	}
	return info, nil
}

// SignIn stores a new session.
func (s StoreSession) SignIn(ctx context.Context, token string, info UserInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return errors.Wrap(err, "encoding user info")
	}
	if err = s.Store.Set(ctx, KeyAuthToken, token); err != nil {
		return errors.Wrap(err, "storing auth token")
	}
	return errors.Wrap(s.Store.Set(ctx, KeyUserInfo, string(data)), "storing user info")
}

// SignOut forgets the session. The wizard progress is left as is: it is re-resolved on the next sign in.
func (s StoreSession) SignOut(ctx context.Context) error {
	return s.Store.Delete(ctx, KeyAuthToken, KeyUserInfo)
}
