// Package draft reads story submissions prepared as Markdown files. The
// story fields live in YAML frontmatter:
//
//	---
//	title: Show HN: a thing
//	author: Jane Doe
//	url: https://example.com/thing
//	---
//	Optional notes, ignored on submit.
package draft

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"hack-or-snooze/internal/model"
)

// ErrNoFrontmatter is returned for files that do not start with "---".
var ErrNoFrontmatter = errors.New("draft: missing frontmatter")

// Document is a Markdown file split into frontmatter and body.
type Document struct {
	Frontmatter map[string]any
	Body        string
}

type storyFields struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
	URL    string `yaml:"url"`
}

// Parse splits r into YAML frontmatter and body. Frontmatter is expected at
// the top, between two lines containing only "---".
func Parse(r io.Reader) (Document, error) {
	br := bufio.NewReader(r)
	peek, err := br.Peek(3)
	if err != nil && !errors.Is(err, io.EOF) {
		return Document{}, err
	}
	hasFM := string(peek) == "---"

	var fmBuf, bodyBuf strings.Builder
	if hasFM {
		if _, err := br.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
			return Document{}, err
		}
		for {
			l, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return Document{}, err
			}
			if strings.TrimSpace(l) == "---" {
				break
			}
			fmBuf.WriteString(l)
			if errors.Is(err, io.EOF) {
				break
			}
		}
	}
	if _, err := io.Copy(&bodyBuf, br); err != nil {
		return Document{}, err
	}

	d := Document{Frontmatter: map[string]any{}, Body: bodyBuf.String()}
	if hasFM {
		if err := yaml.Unmarshal([]byte(fmBuf.String()), &d.Frontmatter); err != nil {
			return Document{}, fmt.Errorf("draft: frontmatter: %w", err)
		}
	}
	return d, nil
}

// ParseFile is Parse on the named file.
func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Story extracts the submission fields from the frontmatter. All three are
// required.
func (d Document) Story() (model.NewStory, error) {
	if len(d.Frontmatter) == 0 {
		return model.NewStory{}, ErrNoFrontmatter
	}
	raw, err := yaml.Marshal(d.Frontmatter)
	if err != nil {
		return model.NewStory{}, err
	}
	var f storyFields
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return model.NewStory{}, fmt.Errorf("draft: frontmatter: %w", err)
	}
	s := model.NewStory{
		Title:  strings.TrimSpace(f.Title),
		Author: strings.TrimSpace(f.Author),
		URL:    strings.TrimSpace(f.URL),
	}
	var missing []string
	if s.Title == "" {
		missing = append(missing, "title")
	}
	if s.Author == "" {
		missing = append(missing, "author")
	}
	if s.URL == "" {
		missing = append(missing, "url")
	}
	if len(missing) > 0 {
		return model.NewStory{}, fmt.Errorf("draft: frontmatter missing %s", strings.Join(missing, ", "))
	}
	return s, nil
}

// LoadStory reads a draft file and returns the story it describes.
func LoadStory(path string) (model.NewStory, error) {
	d, err := ParseFile(path)
	if err != nil {
		return model.NewStory{}, fmt.Errorf("read draft: %w", err)
	}
	return d.Story()
}
