package hackorsnooze

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hack-or-snooze/internal/hackorsnooze/fakeapi"
	"hack-or-snooze/internal/model"
)

func setupTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 0)
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestStories_SingleStoryHostName(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/stories", r.URL.Path)
		writeBody(w, http.StatusOK, `{"stories":[{"storyId":"1","title":"A","author":"X","url":"http://example.com/a","username":"u1","createdAt":"t"}]}`)
	})

	list, err := client.Stories(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, list.Len())
	host, err := list.Stories[0].HostName()
	require.NoError(t, err)
	assert.Equal(t, "example.com", host)
}

func TestStories_PreservesServerOrder(t *testing.T) {
	api := fakeapi.New(t)
	for _, title := range []string{"first", "second", "third"} {
		api.AddStory(fakeapi.Story{Title: title, Author: "a", URL: "https://example.com/" + title, Username: "u"})
	}
	client := NewClient(api.URL, 0)

	list, err := client.Stories(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, list.Len())
	assert.Equal(t, "third", list.Stories[0].Title)
	assert.Equal(t, "second", list.Stories[1].Title)
	assert.Equal(t, "first", list.Stories[2].Title)
}

func TestStories_InvalidResponses(t *testing.T) {
	cases := map[string]string{
		"not json":      `not json`,
		"missing array": `{"items":[]}`,
		"null array":    `{"stories":null}`,
		"missing field": `{"stories":[{"storyId":"1","title":"A","author":"X","username":"u1","createdAt":"t"}]}`,
		"wrong type":    `{"stories":{"storyId":"1"}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeBody(w, http.StatusOK, body)
			})
			_, err := client.Stories(context.Background())
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestStories_EmptyArray(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{"stories":[]}`)
	})
	list, err := client.Stories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, list.Len())
}

func TestStories_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url, 0).Stories(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.Status)
}

func TestAddStory_EchoesServerAssignedID(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/stories", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body struct {
			Token string         `json:"token"`
			Story model.NewStory `json:"story"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tok", body.Token)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"story": map[string]string{
			"storyId":   "42",
			"title":     body.Story.Title,
			"author":    body.Story.Author,
			"url":       body.Story.URL,
			"username":  "u1",
			"createdAt": "2024-01-01T00:00:00.000Z",
		}})
	})

	in := model.NewStory{Title: "Go 2", Author: "gopher", URL: "https://go.dev/blog"}
	s, err := client.AddStory(context.Background(), "tok", in)
	require.NoError(t, err)
	assert.Equal(t, "42", s.StoryID)
	assert.Equal(t, in.Title, s.Title)
	assert.Equal(t, in.Author, s.Author)
	assert.Equal(t, in.URL, s.URL)
}

func TestAddStory_ErrorKinds(t *testing.T) {
	api := fakeapi.New(t)
	token := api.AddUser("alice", "pw", "Alice")
	client := NewClient(api.URL, 0)

	_, err := client.AddStory(context.Background(), "bogus", model.NewStory{Title: "t", Author: "a", URL: "https://x.io"})
	assert.ErrorIs(t, err, ErrAuthentication)

	_, err = client.AddStory(context.Background(), token, model.NewStory{Title: "t"})
	assert.ErrorIs(t, err, ErrValidation)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "title, author and url")
}

func TestDeleteStory(t *testing.T) {
	api := fakeapi.New(t)
	token := api.AddUser("alice", "pw", "Alice")
	client := NewClient(api.URL, 0)
	ctx := context.Background()

	s, err := client.AddStory(ctx, token, model.NewStory{Title: "t", Author: "a", URL: "https://x.io"})
	require.NoError(t, err)

	deleted, err := client.DeleteStory(ctx, token, s.StoryID)
	require.NoError(t, err)
	assert.Equal(t, s, deleted)

	_, err = client.DeleteStory(ctx, token, s.StoryID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoginAndSignupProduceSameUser(t *testing.T) {
	const fixture = `{"user":{"username":"u1","name":"User One","createdAt":"2024-01-01T00:00:00.000Z",` +
		`"favorites":[{"storyId":"1","title":"A","author":"X","url":"http://example.com/a","username":"u2","createdAt":"t"}],` +
		`"stories":[{"storyId":"2","title":"B","author":"Y","url":"http://example.com/b","username":"u1","createdAt":"t"}]},` +
		`"token":"tok-1"}`
	var paths []string
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeBody(w, http.StatusOK, fixture)
	})
	ctx := context.Background()

	signedUp, err := client.Signup(ctx, "u1", "pw", "User One")
	require.NoError(t, err)
	loggedIn, err := client.Login(ctx, "u1", "pw")
	require.NoError(t, err)

	assert.Equal(t, []string{"/signup", "/login"}, paths)
	assert.Equal(t, signedUp, loggedIn)
	assert.Equal(t, "tok-1", loggedIn.LoginToken)
	require.Len(t, loggedIn.OwnStories, 1)
	assert.Equal(t, "2", loggedIn.OwnStories[0].StoryID)
	require.Len(t, loggedIn.Favorites, 1)
	assert.Equal(t, "1", loggedIn.Favorites[0].StoryID)
}

func TestSignupRequestBody(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"username": "u1", "password": "pw", "name": "N"}, body["user"])
		writeBody(w, http.StatusCreated, `{"user":{"username":"u1","name":"N","createdAt":"c"},"token":"t"}`)
	})
	u, err := client.Signup(context.Background(), "u1", "pw", "N")
	require.NoError(t, err)
	assert.Empty(t, u.Favorites)
	assert.Empty(t, u.OwnStories)
}

func TestAuthErrors(t *testing.T) {
	api := fakeapi.New(t)
	api.AddUser("alice", "pw", "Alice")
	client := NewClient(api.URL, 0)
	ctx := context.Background()

	_, err := client.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrAuthentication)

	_, err = client.Signup(ctx, "alice", "pw", "Alice Again")
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Contains(t, err.Error(), "already exists")

	_, err = client.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.NotErrorIs(t, err, ErrNotFound)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestLoginMissingToken(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeBody(w, http.StatusOK, `{"user":{"username":"u1","name":"N","createdAt":"c"}}`)
	})
	_, err := client.Login(context.Background(), "u1", "pw")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestUser_SendsTokenAsQueryParam(t *testing.T) {
	client := setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u1", r.URL.Path)
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		writeBody(w, http.StatusOK, `{"user":{"username":"u1","name":"N","createdAt":"c","favorites":[],"stories":[]}}`)
	})
	u, err := client.User(context.Background(), "tok", "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.Username)
	assert.Equal(t, "tok", u.LoginToken)
}

func TestFavoritesRoundTrip(t *testing.T) {
	api := fakeapi.New(t)
	token := api.AddUser("alice", "pw", "Alice")
	keep := api.AddStory(fakeapi.Story{Title: "keep", Author: "a", URL: "https://a.io", Username: "bob"})
	toggle := api.AddStory(fakeapi.Story{Title: "toggle", Author: "a", URL: "https://b.io", Username: "bob"})
	client := NewClient(api.URL, 0)
	ctx := context.Background()

	before, err := client.AddFavorite(ctx, token, "alice", keep.StoryID)
	require.NoError(t, err)

	after, err := client.AddFavorite(ctx, token, "alice", toggle.StoryID)
	require.NoError(t, err)
	assert.Len(t, after, 2)

	restored, err := client.RemoveFavorite(ctx, token, "alice", toggle.StoryID)
	require.NoError(t, err)
	assert.Equal(t, before, restored)
}

func TestFavoriteErrors(t *testing.T) {
	api := fakeapi.New(t)
	token := api.AddUser("alice", "pw", "Alice")
	client := NewClient(api.URL, 0)
	ctx := context.Background()

	_, err := client.AddFavorite(ctx, token, "alice", "no-such-story")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = client.RemoveFavorite(ctx, "bad-token", "alice", "whatever")
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestKindForStatus(t *testing.T) {
	cases := map[int]error{
		http.StatusBadRequest:          ErrValidation,
		http.StatusUnprocessableEntity: ErrValidation,
		http.StatusUnauthorized:        ErrAuthentication,
		http.StatusForbidden:           ErrAuthentication,
		http.StatusConflict:            ErrAuthentication,
		http.StatusNotFound:            ErrNotFound,
		http.StatusInternalServerError: ErrNetwork,
		http.StatusBadGateway:          ErrNetwork,
	}
	for status, want := range cases {
		assert.Equal(t, want, kindForStatus(status), "status %d", status)
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Invalid token", errorMessage([]byte(`{"error":{"status":401,"message":"Invalid token"}}`)))
	assert.Equal(t, "a; b", errorMessage([]byte(`{"error":{"message":["a","b"]}}`)))
	assert.Equal(t, "Service Unavailable", errorMessage([]byte("  Service Unavailable\n")))
}

func TestAPIErrorString(t *testing.T) {
	err := &APIError{Kind: ErrNotFound, Op: "add favorite", Status: 404, Message: "No story"}
	assert.Equal(t, "hackorsnooze: add favorite: not found (status 404): No story", err.Error())
}
