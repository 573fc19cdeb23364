package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matheus3301/wppmanager/internal/authstore"
	"github.com/matheus3301/wppmanager/internal/backend"
	"github.com/matheus3301/wppmanager/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatsBody = `{
	"chats": [
		{"instanceName": "sales", "id": "1@s.whatsapp.net", "name": "Alice", "unreadCount": 2, "updatedAt": "2025-01-01T10:00:00Z"},
		{"instanceName": "support", "id": "2@s.whatsapp.net", "name": "Bob", "updatedAt": "2025-01-01T11:00:00Z"},
		{"instanceName": "sales", "id": "status@broadcast", "name": "Status"}
	],
	"instances": [{"name": "sales", "connected": true}, {"name": "support", "connected": false}],
	"totalInstances": 2,
	"connectedInstances": 1
}`

// fakeBackend serves routes keyed by "METHOD /path" and points the CLI at it
// with an isolated home directory.
func fakeBackend(t *testing.T, routes map[string]http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	t.Setenv(session.HomeEnv, t.TempDir())
	t.Setenv("WPPMANAGER_BACKEND_URL", srv.URL)
	t.Setenv("WPPMANAGER_PROFILE", "")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	profileFlag, jsonOut, store, api = "", false, nil, nil
	authEmail, authName, authPassword = "", "", ""
	chatsInstance, chatsQuery, chatsSort, messagesRaw = "", "", "recent", false

	var out bytes.Buffer
	stdout = &out
	t.Cleanup(func() { stdout = io.Discard })

	rootCmd.SetArgs(args)
	err := Execute(context.Background())
	return out.String(), err
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func storedCredentials(t *testing.T) (*authstore.Credentials, error) {
	t.Helper()
	s, err := authstore.Open(session.AuthDBPath(session.DefaultProfileName))
	require.NoError(t, err)
	defer s.Close()
	return authstore.LoadCredentials(s)
}

func login(t *testing.T) {
	t.Helper()
	_, err := run(t, "login", "--email", "me@example.com", "--password", "secret")
	require.NoError(t, err)
}

func TestLoginStoresCredentials(t *testing.T) {
	var body map[string]string
	fakeBackend(t, map[string]http.HandlerFunc{
		"POST /auth/login": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&body)
			_, _ = io.WriteString(w, `{"accessToken":"tok-1","user":{"id":"u1","name":"Me","email":"me@example.com","role":"user"}}`)
		},
	})

	out, err := run(t, "login", "--email", "me@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as me@example.com")
	assert.Equal(t, map[string]string{"email": "me@example.com", "password": "secret"}, body)

	creds, err := storedCredentials(t)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", creds.Token)
	assert.Equal(t, "Me", creds.User.Name)
}

func TestCommandsRequireLogin(t *testing.T) {
	fakeBackend(t, nil)
	_, err := run(t, "chats")
	require.Error(t, err)
	assert.ErrorIs(t, err, authstore.ErrNotLoggedIn)
}

func TestChatsFilterAndAuthorization(t *testing.T) {
	var auth string
	fakeBackend(t, map[string]http.HandlerFunc{
		"POST /auth/login": jsonHandler(`{"accessToken":"tok-1","user":{"id":"u1","email":"me@example.com"}}`),
		"GET /messages/chats": func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			jsonHandler(chatsBody)(w, r)
		},
	})
	login(t)

	out, err := run(t, "chats", "--instance", "sales")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", auth)
	assert.Contains(t, out, "1 of 2 instances connected")
	assert.Contains(t, out, "Alice")
	assert.NotContains(t, out, "Bob")
	assert.NotContains(t, out, "status@broadcast")
}

func TestUnauthorizedClearsCredentials(t *testing.T) {
	fakeBackend(t, map[string]http.HandlerFunc{
		"POST /auth/login": jsonHandler(`{"accessToken":"tok-1","user":{"id":"u1"}}`),
		"GET /instances": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Unauthorized"}`)
		},
	})
	login(t)

	_, err := run(t, "instances", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrUnauthorized)

	_, err = storedCredentials(t)
	assert.ErrorIs(t, err, authstore.ErrNotLoggedIn)
}

func TestInstanceNameValidated(t *testing.T) {
	fakeBackend(t, map[string]http.HandlerFunc{
		"POST /auth/login": jsonHandler(`{"accessToken":"tok-1","user":{"id":"u1"}}`),
	})
	login(t)

	_, err := run(t, "instances", "webhook", "bad name!")
	assert.Error(t, err)
}

func TestPrintPairing(t *testing.T) {
	var out bytes.Buffer
	stdout = &out
	t.Cleanup(func() { stdout = io.Discard })

	require.NoError(t, printPairing(&backend.QRCode{Code: "2@abc,def", PairingCode: "WZYEH1YY"}))
	assert.Contains(t, out.String(), "Linked devices")
	assert.Contains(t, out.String(), "▀")
	assert.Contains(t, out.String(), "Pairing code: WZYEH1YY")

	out.Reset()
	require.NoError(t, printPairing(&backend.QRCode{}))
	assert.Contains(t, out.String(), "already be connected")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"multi\nline   text", 20, "multi line text"},
		{"abcdefghij", 5, "abcd…"},
		{"ááááá", 5, "ááááá"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.n), tt.in)
	}
}
