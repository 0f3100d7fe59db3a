package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignboard/models"
)

func sessionWithCreds(t *testing.T) *Session {
	t.Helper()
	store := &FileStore{Path: filepath.Join(t.TempDir(), "credentials.json")}
	require.NoError(t, store.Save(&Credentials{Token: "cached-token", User: models.User{Name: "Cached", Email: "cached@example.com"}}))
	return NewSession(store)
}

func TestVerifyConfirmsIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer cached-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"name": "Fresh", "email": "cached@example.com", "role": "viewer"},
		})
	}))
	defer srv.Close()

	s := sessionWithCreds(t)
	c := New(srv.URL, s)

	require.NoError(t, c.Verify(context.Background()))
	assert.Equal(t, StateVerified, s.State())
	// Identity is refreshed from the server response.
	assert.Equal(t, "Fresh", s.User().Name)
}

func TestVerifyExplicitRejectionFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Invalid or expired token"})
	}))
	defer srv.Close()

	s := sessionWithCreds(t)
	c := New(srv.URL, s)
	loggedOut := false
	c.OnLogout = func() { loggedOut = true }

	require.NoError(t, c.Verify(context.Background()))
	assert.Equal(t, StateExpired, s.State())
	assert.Nil(t, s.User())
	assert.True(t, loggedOut)
}

func TestVerify401WithNonJSONBodyFailsClosed(t *testing.T) {
	// A 401 served by a proxy carries an HTML body, not the API
	// envelope. It is still a rejection, never a trusted session.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("<html><body>401 Unauthorized</body></html>"))
	}))
	defer srv.Close()

	s := sessionWithCreds(t)
	c := New(srv.URL, s)
	loggedOut := false
	c.OnLogout = func() { loggedOut = true }

	require.NoError(t, c.Verify(context.Background()))
	assert.Equal(t, StateExpired, s.State())
	assert.Nil(t, s.User())
	assert.True(t, loggedOut)
}

func TestVerifyBadBaseURLRollsBackToUnverified(t *testing.T) {
	s := sessionWithCreds(t)
	c := New("://not-a-url", s)

	err := c.Verify(context.Background())
	require.Error(t, err)
	// The request never left, so the credentials stay cached and
	// unverified rather than stuck mid-verification.
	assert.Equal(t, StateUnverified, s.State())
	require.NotNil(t, s.User())
}

func TestVerifyNetworkFailureFailsOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable on purpose

	s := sessionWithCreds(t)
	c := New(srv.URL, s)

	require.NoError(t, c.Verify(context.Background()))
	// The cached identity stays trusted when the server is down.
	assert.Equal(t, StateVerified, s.State())
	require.NotNil(t, s.User())
	assert.Equal(t, "cached@example.com", s.User().Email)
}

func TestVerifyWithoutCredentialsIsNoop(t *testing.T) {
	s := NewSession(&FileStore{Path: filepath.Join(t.TempDir(), "credentials.json")})
	c := New("http://127.0.0.1:0", s)

	require.NoError(t, c.Verify(context.Background()))
	assert.Equal(t, StateNone, s.State())
}

func TestLoginInstallsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"token":   "fresh-token",
			"data":    map[string]interface{}{"name": "Ada", "email": "ada@example.com", "role": "admin"},
		})
	}))
	defer srv.Close()

	s := NewSession(&FileStore{Path: filepath.Join(t.TempDir(), "credentials.json")})
	c := New(srv.URL, s)

	user, err := c.Login(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "fresh-token", s.Token())
	assert.Equal(t, StateVerified, s.State())
}

func TestLoginFailureSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Invalid email or password"})
	}))
	defer srv.Close()

	s := NewSession(&FileStore{Path: filepath.Join(t.TempDir(), "credentials.json")})
	c := New(srv.URL, s)

	_, err := c.Login(context.Background(), "ada@example.com", "wrong")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.Empty(t, s.Token())
}

func TestRequestOn401ForcesLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Invalid or expired token"})
	}))
	defer srv.Close()

	s := sessionWithCreds(t)
	c := New(srv.URL, s)
	loggedOut := false
	c.OnLogout = func() { loggedOut = true }

	_, err := c.Campaigns(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateExpired, s.State())
	assert.True(t, loggedOut)
}

func TestCampaignsDecodeAndAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer cached-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"name": "Summer Sale", "budget": "$50/day", "active": true},
			},
		})
	}))
	defer srv.Close()

	s := sessionWithCreds(t)
	c := New(srv.URL, s)

	campaigns, err := c.Campaigns(context.Background())
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, "Summer Sale", campaigns[0].Name)
	assert.Equal(t, "$50/day", campaigns[0].Budget)
}

func TestCampaignContentNullData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": nil})
	}))
	defer srv.Close()

	s := sessionWithCreds(t)
	c := New(srv.URL, s)

	content, err := c.CampaignContent(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, content)
}

func TestVisibleColumnsAndRenderRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/custom-fields", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"name": "region", "label": "Region", "type": "text"},
			},
		})
	}))
	defer srv.Close()

	store := &FileStore{Path: filepath.Join(t.TempDir(), "credentials.json")}
	require.NoError(t, store.Save(&Credentials{Token: "tok", User: models.User{
		Role:          models.RoleViewer,
		VisibleFields: []string{"budget", "custom_region"},
	}}))
	c := New(srv.URL, NewSession(store))

	cols, err := c.VisibleColumns(context.Background())
	require.NoError(t, err)

	keys := make([]string, len(cols))
	for i, col := range cols {
		keys[i] = col.Key
	}
	assert.Equal(t, []string{"name", "budget", "custom_region"}, keys)

	campaign := &models.Campaign{
		Name:         "Summer Sale",
		Budget:       "$50/day",
		CustomFields: map[string]interface{}{"region": "EMEA"},
	}
	row := RenderRow(cols, campaign)
	assert.Equal(t, "Summer Sale", row["name"])
	assert.Equal(t, "$50/day", row["budget"])
	assert.Equal(t, "EMEA", row["custom_region"])
}

func TestContentEmbedURL(t *testing.T) {
	ct := &Content{YoutubeURL: "https://youtu.be/abc123"}
	assert.Equal(t, "https://www.youtube.com/embed/abc123", ct.EmbedURL())

	ct = &Content{YoutubeURL: "https://example.com/clip"}
	assert.Empty(t, ct.EmbedURL())
}
