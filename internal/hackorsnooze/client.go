package hackorsnooze

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hack-or-snooze/internal/model"
)

// DefaultBaseURL is the public Hack-or-Snooze API.
const DefaultBaseURL = "https://hack-or-snooze-v3.herokuapp.com"

// Client is a minimal Hack-or-Snooze API client. It never retries.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a new client. An empty baseURL selects DefaultBaseURL and
// a non-positive timeout selects 10s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Stories fetches every story, in server order.
func (c *Client) Stories(ctx context.Context) (*model.StoryList, error) {
	const op = "get stories"
	var env storiesEnvelope
	if err := c.do(ctx, op, http.MethodGet, "/stories", nil, nil, &env); err != nil {
		return nil, err
	}
	if env.Stories == nil {
		return nil, invalidResponse(op, "missing \"stories\" array")
	}
	stories, err := convertStories(op, "stories", *env.Stories)
	if err != nil {
		return nil, err
	}
	slog.Debug("hackorsnooze: fetched stories", "count", len(stories))
	return model.NewStoryList(stories), nil
}

// AddStory creates a story on behalf of the token's owner and returns it as
// stored by the server.
func (c *Client) AddStory(ctx context.Context, token string, s model.NewStory) (model.Story, error) {
	const op = "add story"
	var env storyEnvelope
	body := newStoryBody{Token: token, Story: s}
	if err := c.do(ctx, op, http.MethodPost, "/stories", nil, body, &env); err != nil {
		return model.Story{}, err
	}
	return convertStory(op, env.Story)
}

// DeleteStory removes one of the token owner's stories and returns it.
func (c *Client) DeleteStory(ctx context.Context, token, storyID string) (model.Story, error) {
	const op = "delete story"
	var env storyEnvelope
	path := "/stories/" + url.PathEscape(storyID)
	if err := c.do(ctx, op, http.MethodDelete, path, nil, tokenBody{Token: token}, &env); err != nil {
		return model.Story{}, err
	}
	return convertStory(op, env.Story)
}

// Signup registers a new account and returns it logged in.
func (c *Client) Signup(ctx context.Context, username, password, name string) (*model.User, error) {
	var body credentialsBody
	body.User.Username = username
	body.User.Password = password
	body.User.Name = name
	return c.authenticate(ctx, "signup", "/signup", body)
}

// Login exchanges credentials for a token and the user's profile.
func (c *Client) Login(ctx context.Context, username, password string) (*model.User, error) {
	var body credentialsBody
	body.User.Username = username
	body.User.Password = password
	return c.authenticate(ctx, "login", "/login", body)
}

func (c *Client) authenticate(ctx context.Context, op, path string, body credentialsBody) (*model.User, error) {
	var env userEnvelope
	if err := c.do(ctx, op, http.MethodPost, path, nil, body, &env); err != nil {
		// The API answers an unknown username with 404; to the caller that is
		// a credentials problem.
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Kind == ErrNotFound {
			apiErr.Kind = ErrAuthentication
		}
		return nil, err
	}
	if strings.TrimSpace(env.Token) == "" {
		return nil, invalidResponse(op, "missing \"token\"")
	}
	return convertUser(op, env.User, env.Token)
}

// User fetches a profile using a previously issued token. The token is
// carried over to the returned user.
func (c *Client) User(ctx context.Context, token, username string) (*model.User, error) {
	const op = "get user"
	var env userEnvelope
	q := url.Values{"token": {token}}
	if err := c.do(ctx, op, http.MethodGet, userPath(username), q, nil, &env); err != nil {
		return nil, err
	}
	return convertUser(op, env.User, token)
}

// AddFavorite marks a story as a favorite and returns the server's
// resulting favorites list.
func (c *Client) AddFavorite(ctx context.Context, token, username, storyID string) ([]model.Story, error) {
	return c.favorite(ctx, "add favorite", http.MethodPost, token, username, storyID)
}

// RemoveFavorite unmarks a favorite and returns the server's resulting
// favorites list.
func (c *Client) RemoveFavorite(ctx context.Context, token, username, storyID string) ([]model.Story, error) {
	return c.favorite(ctx, "remove favorite", http.MethodDelete, token, username, storyID)
}

func (c *Client) favorite(ctx context.Context, op, method, token, username, storyID string) ([]model.Story, error) {
	var env userEnvelope
	path := userPath(username) + "/favorites/" + url.PathEscape(storyID)
	if err := c.do(ctx, op, method, path, nil, tokenBody{Token: token}, &env); err != nil {
		return nil, err
	}
	u, err := convertUser(op, env.User, token)
	if err != nil {
		return nil, err
	}
	return u.Favorites, nil
}

func userPath(username string) string {
	return "/users/" + url.PathEscape(username)
}

// do performs one request/response round trip. A nil body sends no payload;
// out receives the decoded 2xx response.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var rd io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("hackorsnooze: %s: encode request: %w", op, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return fmt.Errorf("hackorsnooze: %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	slog.Debug("hackorsnooze: request", "op", op, "method", method, "path", path)
	resp, err := c.client.Do(req)
	if err != nil {
		return networkError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{
			Kind:    kindForStatus(resp.StatusCode),
			Op:      op,
			Status:  resp.StatusCode,
			Message: errorMessage(b),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return invalidResponse(op, "decode body: %v", err)
	}
	return nil
}

// errorMessage pulls the API's error message out of a failed response,
// falling back to the raw body.
func errorMessage(b []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(b, &env); err == nil && env.Error.Message != nil {
		switch m := env.Error.Message.(type) {
		case string:
			return m
		case []any:
			parts := make([]string, 0, len(m))
			for _, p := range m {
				parts = append(parts, fmt.Sprint(p))
			}
			return strings.Join(parts, "; ")
		default:
			return fmt.Sprint(m)
		}
	}
	return strings.TrimSpace(string(b))
}
