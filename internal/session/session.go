// Package session holds the state of one user's interaction with the
// Hack-or-Snooze API: the story feed and the logged-in user. Every operation
// that changes remote state also updates the local copy in the same call,
// always from the server's answer.
package session

import (
	"context"
	"errors"
	"log/slog"

	"hack-or-snooze/internal/credstore"
	"hack-or-snooze/internal/model"
)

// ErrNotLoggedIn is returned by operations that need a user.
var ErrNotLoggedIn = errors.New("session: not logged in")

// API is the subset of the remote API a session uses. *hackorsnooze.Client
// implements it.
type API interface {
	Stories(ctx context.Context) (*model.StoryList, error)
	AddStory(ctx context.Context, token string, s model.NewStory) (model.Story, error)
	DeleteStory(ctx context.Context, token, storyID string) (model.Story, error)
	Signup(ctx context.Context, username, password, name string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, error)
	User(ctx context.Context, token, username string) (*model.User, error)
	AddFavorite(ctx context.Context, token, username, storyID string) ([]model.Story, error)
	RemoveFavorite(ctx context.Context, token, username, storyID string) ([]model.Story, error)
}

// Session is not safe for concurrent use; calls are expected one at a time.
type Session struct {
	api   API
	creds credstore.Store
	log   *slog.Logger

	// User is nil while logged out.
	User *model.User
	// Stories is the feed as last loaded, plus stories created since.
	Stories *model.StoryList
}

// New creates a logged-out session. A nil store keeps credentials in memory
// only; a nil logger uses slog.Default().
func New(api API, creds credstore.Store, log *slog.Logger) *Session {
	if creds == nil {
		creds = credstore.NewMemory()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		api:     api,
		creds:   creds,
		log:     log,
		Stories: model.NewStoryList(nil),
	}
}

func (s *Session) LoggedIn() bool {
	return s.User != nil
}

// LoadStories replaces the feed with the server's current list.
func (s *Session) LoadStories(ctx context.Context) (*model.StoryList, error) {
	list, err := s.api.Stories(ctx)
	if err != nil {
		return nil, err
	}
	s.Stories = list
	return list, nil
}

// Signup creates an account and logs it in.
func (s *Session) Signup(ctx context.Context, username, password, name string) (*model.User, error) {
	u, err := s.api.Signup(ctx, username, password, name)
	if err != nil {
		return nil, err
	}
	s.setUser(ctx, u)
	return u, nil
}

// Login replaces the current user, if any, with the given account.
func (s *Session) Login(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.api.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	s.setUser(ctx, u)
	return u, nil
}

// setUser installs u and remembers its credentials. Failing to remember them
// only costs a password prompt next time, so it is logged, not returned.
func (s *Session) setUser(ctx context.Context, u *model.User) {
	s.User = u
	c := credstore.Credentials{Token: u.LoginToken, Username: u.Username}
	if err := s.creds.Save(ctx, c); err != nil {
		s.log.Warn("session: could not store credentials", "username", u.Username, "error", err)
	}
}

// LoginViaStoredCredentials logs in with a token from an earlier session.
// It never fails: any error is logged and reported as a nil user, leaving
// the session as it was.
func (s *Session) LoginViaStoredCredentials(ctx context.Context, token, username string) *model.User {
	u, err := s.api.User(ctx, token, username)
	if err != nil {
		s.log.Warn("session: login via stored credentials failed", "username", username, "error", err)
		return nil
	}
	s.User = u
	return u
}

// Restore resumes the session remembered by the credential store. It
// returns nil when there is nothing to resume or resuming fails.
func (s *Session) Restore(ctx context.Context) *model.User {
	c, err := s.creds.Load(ctx)
	if errors.Is(err, credstore.ErrNoCredentials) {
		s.log.Debug("session: no stored credentials")
		return nil
	}
	if err != nil {
		s.log.Warn("session: could not read stored credentials", "error", err)
		return nil
	}
	return s.LoginViaStoredCredentials(ctx, c.Token, c.Username)
}

// Logout forgets the user locally and in the credential store.
func (s *Session) Logout(ctx context.Context) error {
	s.User = nil
	return s.creds.Clear(ctx)
}

// AddStory submits a story and puts it at the front of both the feed and
// the user's own stories.
func (s *Session) AddStory(ctx context.Context, ns model.NewStory) (model.Story, error) {
	if s.User == nil {
		return model.Story{}, ErrNotLoggedIn
	}
	st, err := s.api.AddStory(ctx, s.User.LoginToken, ns)
	if err != nil {
		return model.Story{}, err
	}
	if s.Stories == nil {
		s.Stories = model.NewStoryList(nil)
	}
	s.Stories.Prepend(st)
	s.User.AddOwnStory(st)
	s.log.Info("session: story added", "storyId", st.StoryID, "title", st.Title)
	return st, nil
}

// RemoveStory deletes one of the user's stories everywhere it is held.
func (s *Session) RemoveStory(ctx context.Context, storyID string) (model.Story, error) {
	if s.User == nil {
		return model.Story{}, ErrNotLoggedIn
	}
	st, err := s.api.DeleteStory(ctx, s.User.LoginToken, storyID)
	if err != nil {
		return model.Story{}, err
	}
	s.Stories.Remove(storyID)
	s.User.ForgetStory(storyID)
	s.log.Info("session: story removed", "storyId", storyID)
	return st, nil
}

// AddFavorite marks a story as favorite. Favorites are replaced with the
// server's list only after the server confirms.
func (s *Session) AddFavorite(ctx context.Context, storyID string) error {
	if s.User == nil {
		return ErrNotLoggedIn
	}
	favs, err := s.api.AddFavorite(ctx, s.User.LoginToken, s.User.Username, storyID)
	if err != nil {
		return err
	}
	s.User.Favorites = favs
	return nil
}

// RemoveFavorite is the inverse of AddFavorite.
func (s *Session) RemoveFavorite(ctx context.Context, storyID string) error {
	if s.User == nil {
		return ErrNotLoggedIn
	}
	favs, err := s.api.RemoveFavorite(ctx, s.User.LoginToken, s.User.Username, storyID)
	if err != nil {
		return err
	}
	s.User.Favorites = favs
	return nil
}

// ToggleFavorite flips the favorite state of a story and reports the state
// the server ended up with.
func (s *Session) ToggleFavorite(ctx context.Context, storyID string) (bool, error) {
	if s.User == nil {
		return false, ErrNotLoggedIn
	}
	var err error
	if s.User.IsFavorite(storyID) {
		err = s.RemoveFavorite(ctx, storyID)
	} else {
		err = s.AddFavorite(ctx, storyID)
	}
	if err != nil {
		return false, err
	}
	return s.User.IsFavorite(storyID), nil
}
