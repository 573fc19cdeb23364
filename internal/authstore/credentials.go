package authstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/matheus3301/wppmanager/internal/backend"
)

// Keys under which the signed-in account is stored.
const (
	TokenKey = "wppmanager_token"
	UserKey  = "wppmanager_user"
)

// ErrNotLoggedIn is returned when no usable credentials are stored.
var ErrNotLoggedIn = errors.New("not logged in")

// Credentials is the signed-in account.
type Credentials struct {
	Token string
	User  backend.User
}

// LoadCredentials reads the stored account. A stored user that cannot be
// decoded clears the store.
func LoadCredentials(s Store) (*Credentials, error) {
	token, err := s.Get(TokenKey)
	if errors.Is(err, ErrNotFound) || (err == nil && token == "") {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}
	raw, err := s.Get(UserKey)
	if errors.Is(err, ErrNotFound) || (err == nil && raw == "") {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}
	var user backend.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		if cerr := s.Clear(); cerr != nil {
			return nil, fmt.Errorf("clear corrupt credentials: %w", cerr)
		}
		return nil, ErrNotLoggedIn
	}
	return &Credentials{Token: token, User: user}, nil
}

// SaveCredentials stores the account.
func SaveCredentials(s Store, c *Credentials) error {
	data, err := json.Marshal(c.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.Set(TokenKey, c.Token); err != nil {
		return err
	}
	return s.Set(UserKey, string(data))
}

// TokenSource returns the stored token on every call, or "" when signed out.
func TokenSource(s Store) backend.TokenSource {
	return func() string {
		token, err := s.Get(TokenKey)
		if err != nil {
			return ""
		}
		return token
	}
}

// TokenExpiry reads the exp claim without verifying the signature. The
// backend verifies tokens; this only avoids sending one that has lapsed.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenExpired reports whether token carries an exp claim at or before now.
// Tokens without a readable exp are treated as unexpired.
func TokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	if !ok {
		return false
	}
	return !now.Before(exp)
}
