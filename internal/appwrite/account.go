package appwrite

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Account exposes the platform's account and session APIs. Which operations
// succeed depends on the client's auth posture: account creation is
// anonymous, session creation needs the API key, Get and DeleteSession need
// a session token.
type Account struct {
	client *Client
}

func NewAccount(client *Client) *Account {
	return &Account{client: client}
}

// User is a platform account.
type User struct {
	ID    string `json:"$id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is a platform-issued session. Secret is the opaque bearer value
// carried in the session cookie; the platform only returns it at creation
// time.
type Session struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
	Expire string `json:"expire"`
}

// ExpiresAt parses the platform-issued expiry. A zero time means the expiry
// was absent or malformed and the cookie should not outlive the browser
// session.
func (s Session) ExpiresAt() time.Time {
	expiry, err := time.Parse(time.RFC3339, s.Expire)
	if err != nil {
		return time.Time{}
	}
	return expiry
}

func (a *Account) Create(ctx context.Context, userID, email, password, name string) (User, error) {
	body := map[string]any{
		"userId":   userID,
		"email":    email,
		"password": password,
		"name":     name,
	}
	var user User
	if err := a.client.call(ctx, http.MethodPost, "/account", body, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (a *Account) CreateEmailSession(ctx context.Context, email, password string) (Session, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}
	var platformSession Session
	if err := a.client.call(ctx, http.MethodPost, "/account/sessions/email", body, &platformSession); err != nil {
		return Session{}, err
	}
	return platformSession, nil
}

func (a *Account) CreateAnonymousSession(ctx context.Context) (Session, error) {
	var platformSession Session
	if err := a.client.call(ctx, http.MethodPost, "/account/sessions/anonymous", nil, &platformSession); err != nil {
		return Session{}, err
	}
	return platformSession, nil
}

func (a *Account) Get(ctx context.Context) (User, error) {
	var user User
	if err := a.client.call(ctx, http.MethodGet, "/account", nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// DeleteSession invalidates one session; "current" targets the session the
// client itself is authenticated with.
func (a *Account) DeleteSession(ctx context.Context, sessionID string) error {
	return a.client.call(ctx, http.MethodDelete, "/account/sessions/"+url.PathEscape(sessionID), nil, nil)
}
