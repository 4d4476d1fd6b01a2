// Package render formats story lists for the terminal.
package render

import (
	"bytes"
	_ "embed"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"hack-or-snooze/internal/model"
)

// Item is one rendered story line.
type Item struct {
	Index    int
	StoryID  string
	Title    string
	Host     string
	Author   string
	Username string
	Age      string
	Favorite bool
	Own      bool
}

// Data is the input of the stories template.
type Data struct {
	Heading string
	Marks   bool // show favorite stars; only meaningful with a user
	Items   []Item
}

//go:embed stories.tmpl
var storiesTpl string

var compiled = template.Must(template.New("stories").Parse(storiesTpl))

// Build prepares stories for rendering. user may be nil.
func Build(heading string, stories []model.Story, user *model.User, now time.Time) Data {
	d := Data{Heading: heading, Marks: user != nil, Items: make([]Item, 0, len(stories))}
	for i, s := range stories {
		it := Item{
			Index:    i + 1,
			StoryID:  s.StoryID,
			Title:    s.Title,
			Author:   s.Author,
			Username: s.Username,
			Favorite: user.IsFavorite(s.StoryID),
			Own:      user.IsOwnStory(s.StoryID),
		}
		// A bad URL or timestamp only loses that part of the line.
		if host, err := s.HostName(); err == nil {
			it.Host = host
		}
		if created, err := s.CreatedTime(); err == nil {
			it.Age = humanize.RelTime(created, now, "ago", "from now")
		}
		d.Items = append(d.Items, it)
	}
	return d
}

// Render executes the stories template.
func Render(d Data) (string, error) {
	var buf bytes.Buffer
	if err := compiled.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Stories is Build followed by Render.
func Stories(heading string, stories []model.Story, user *model.User, now time.Time) (string, error) {
	return Render(Build(heading, stories, user, now))
}
