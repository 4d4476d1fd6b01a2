// Package fakeapi is an in-memory stand-in for the Hack-or-Snooze API, for
// tests. It answers with the same shapes and status codes as the real API.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// Story is the API's story representation.
type Story struct {
	StoryID   string `json:"storyId"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	URL       string `json:"url"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

type account struct {
	Username  string
	Password  string
	Name      string
	CreatedAt string
	Favorites []string
}

// Server is a running fake API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	stories  []Story // newest first, like the real API
	accounts map[string]*account
	tokens   map[string]string // token -> username
	nextID   int
	requests []string
}

// New starts a fake API that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		accounts: map[string]*account{},
		tokens:   map[string]string{},
		nextID:   1,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /stories", s.listStories)
	mux.HandleFunc("POST /stories", s.createStory)
	mux.HandleFunc("DELETE /stories/{id}", s.deleteStory)
	mux.HandleFunc("POST /signup", s.signup)
	mux.HandleFunc("POST /login", s.login)
	mux.HandleFunc("GET /users/{username}", s.getUser)
	mux.HandleFunc("POST /users/{username}/favorites/{id}", s.addFavorite)
	mux.HandleFunc("DELETE /users/{username}/favorites/{id}", s.removeFavorite)
	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// AddUser registers an account directly and returns a valid token for it.
func (s *Server) AddUser(username, password, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[username] = &account{
		Username:  username,
		Password:  password,
		Name:      name,
		CreatedAt: now(),
	}
	return s.issueToken(username)
}

// AddStory seeds a story at the front of the list and returns it with its id.
func (s *Server) AddStory(st Story) Story {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.StoryID == "" {
		st.StoryID = s.newID()
	}
	if st.CreatedAt == "" {
		st.CreatedAt = now()
	}
	s.stories = append([]Story{st}, s.stories...)
	return st
}

// Favorites returns the stored favorite ids for username.
func (s *Server) Favorites(username string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[username]
	if !ok {
		return nil
	}
	return append([]string(nil), a.Favorites...)
}

// Requests lists "METHOD /path" for every request served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listStories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"stories": append([]Story{}, s.stories...)})
}

func (s *Server) createStory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
		Story *Story `json:"story"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.tokens[body.Token]
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	if body.Story == nil || body.Story.Title == "" || body.Story.Author == "" || body.Story.URL == "" {
		writeError(w, http.StatusBadRequest, "story requires title, author and url")
		return
	}
	st := Story{
		StoryID:   s.newID(),
		Title:     body.Story.Title,
		Author:    body.Story.Author,
		URL:       body.Story.URL,
		Username:  username,
		CreatedAt: now(),
	}
	s.stories = append([]Story{st}, s.stories...)
	writeJSON(w, http.StatusCreated, map[string]any{"story": st})
}

func (s *Server) deleteStory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	username, ok := s.tokens[body.Token]
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	id := r.PathValue("id")
	for i, st := range s.stories {
		if st.StoryID != id {
			continue
		}
		if st.Username != username {
			writeError(w, http.StatusForbidden, "Only the author can delete a story")
			return
		}
		s.stories = append(s.stories[:i:i], s.stories[i+1:]...)
		for _, a := range s.accounts {
			a.Favorites = without(a.Favorites, id)
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "deleted", "story": st})
		return
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("No story with id %q", id))
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		User struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Name     string `json:"name"`
		} `json:"user"`
	}
	if !decode(w, r, &body) {
		return
	}
	u := body.User
	if u.Username == "" || u.Password == "" || u.Name == "" {
		writeError(w, http.StatusBadRequest, "user requires username, password and name")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[u.Username]; exists {
		writeError(w, http.StatusConflict, fmt.Sprintf("There already exists a user with username '%s'", u.Username))
		return
	}
	a := &account{Username: u.Username, Password: u.Password, Name: u.Name, CreatedAt: now()}
	s.accounts[u.Username] = a
	token := s.issueToken(u.Username)
	writeJSON(w, http.StatusCreated, map[string]any{"user": s.userJSON(a), "token": token})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		User struct {
			Username string `json:"username"`
			Password string `json:"password"`
		} `json:"user"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[body.User.Username]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No such user: %s", body.User.Username))
		return
	}
	if a.Password != body.User.Password {
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}
	token := s.issueToken(a.Username)
	writeJSON(w, http.StatusOK, map[string]any{"user": s.userJSON(a), "token": token})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.authorize(w, r.URL.Query().Get("token"), r.PathValue("username"))
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": s.userJSON(a)})
}

func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	s.changeFavorite(w, r, func(a *account, id string) {
		if !contains(a.Favorites, id) {
			a.Favorites = append(a.Favorites, id)
		}
	})
}

func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	s.changeFavorite(w, r, func(a *account, id string) {
		a.Favorites = without(a.Favorites, id)
	})
}

func (s *Server) changeFavorite(w http.ResponseWriter, r *http.Request, apply func(*account, string)) {
	var body struct {
		Token string `json:"token"`
	}
	if !decode(w, r, &body) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.authorize(w, body.Token, r.PathValue("username"))
	if !ok {
		return
	}
	id := r.PathValue("id")
	if _, found := s.findStory(id); !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No story with id %q", id))
		return
	}
	apply(a, id)
	writeJSON(w, http.StatusOK, map[string]any{"message": "ok", "user": s.userJSON(a)})
}

// authorize checks that token belongs to username. Callers hold s.mu.
func (s *Server) authorize(w http.ResponseWriter, token, username string) (*account, bool) {
	owner, ok := s.tokens[token]
	if !ok || owner != username {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return nil, false
	}
	a, ok := s.accounts[username]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("No such user: %s", username))
		return nil, false
	}
	return a, true
}

func (s *Server) userJSON(a *account) map[string]any {
	favorites := []Story{}
	for _, id := range a.Favorites {
		if st, ok := s.findStory(id); ok {
			favorites = append(favorites, st)
		}
	}
	own := []Story{}
	for _, st := range s.stories {
		if st.Username == a.Username {
			own = append(own, st)
		}
	}
	return map[string]any{
		"username":  a.Username,
		"name":      a.Name,
		"createdAt": a.CreatedAt,
		"updatedAt": a.CreatedAt,
		"favorites": favorites,
		"stories":   own,
	}
}

func (s *Server) findStory(id string) (Story, bool) {
	for _, st := range s.stories {
		if st.StoryID == id {
			return st, true
		}
	}
	return Story{}, false
}

func (s *Server) issueToken(username string) string {
	token := fmt.Sprintf("token-%s-%d", username, len(s.tokens)+1)
	s.tokens[token] = username
	return token
}

func (s *Server) newID() string {
	id := fmt.Sprintf("story-%d", s.nextID)
	s.nextID++
	return id
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"status":  status,
			"title":   http.StatusText(status),
			"message": msg,
		},
	})
}

func contains(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func without(ids []string, id string) []string {
	out := ids[:0:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
