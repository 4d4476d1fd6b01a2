package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrMalformedURL is returned when a story URL is not a valid absolute URL.
var ErrMalformedURL = errors.New("malformed url")

// Story is a single user-submitted story. Values are never mutated after
// they are built from server data.
type Story struct {
	StoryID   string `json:"storyId"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	URL       string `json:"url"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

// NewStory holds the fields a user submits when creating a story.
type NewStory struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

// HostName returns the host part of the story URL, without any port.
func (s Story) HostName() (string, error) {
	u, err := url.Parse(strings.TrimSpace(s.URL))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformedURL, s.URL, err)
	}
	if !u.IsAbs() || u.Hostname() == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedURL, s.URL)
	}
	return u.Hostname(), nil
}

// CreatedTime parses CreatedAt. The API sends ISO-8601 but older stories
// carry other layouts, so parsing is lenient.
func (s Story) CreatedTime() (time.Time, error) {
	return dateparse.ParseAny(s.CreatedAt)
}

// StoryList is an ordered collection of stories; order is display order.
type StoryList struct {
	Stories []Story
}

// NewStoryList wraps stories without copying.
func NewStoryList(stories []Story) *StoryList {
	return &StoryList{Stories: stories}
}

func (l *StoryList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Stories)
}

// Find returns the story with the given id.
func (l *StoryList) Find(id string) (Story, bool) {
	if l == nil {
		return Story{}, false
	}
	for _, s := range l.Stories {
		if s.StoryID == id {
			return s, true
		}
	}
	return Story{}, false
}

// Prepend puts s at the front of the list. Callers must not insert an id
// that is already present.
func (l *StoryList) Prepend(s Story) {
	l.Stories = append([]Story{s}, l.Stories...)
}

// Remove drops the story with the given id and reports whether it was present.
func (l *StoryList) Remove(id string) bool {
	if l == nil {
		return false
	}
	var removed bool
	l.Stories, removed = removeStory(l.Stories, id)
	return removed
}

func removeStory(stories []Story, id string) ([]Story, bool) {
	out := stories[:0:0]
	removed := false
	for _, s := range stories {
		if s.StoryID == id {
			removed = true
			continue
		}
		out = append(out, s)
	}
	if !removed {
		return stories, false
	}
	return out, true
}

func containsStory(stories []Story, id string) bool {
	for _, s := range stories {
		if s.StoryID == id {
			return true
		}
	}
	return false
}
