package draft

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hack-or-snooze/internal/model"
)

func writeDraft(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "story.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadStory(t *testing.T) {
	path := writeDraft(t, ""+
		"---\n"+
		"title: \"Show HN: a tiny Go router\"\n"+
		"author: Jane Doe\n"+
		"url: https://example.com/router\n"+
		"tags: [go, http]\n"+
		"---\n\n"+
		"Notes for myself.\n")
	got, err := LoadStory(path)
	if err != nil {
		t.Fatalf("LoadStory error: %v", err)
	}
	want := model.NewStory{Title: "Show HN: a tiny Go router", Author: "Jane Doe", URL: "https://example.com/router"}
	if got != want {
		t.Errorf("story mismatch.\nwant: %+v\n got: %+v", want, got)
	}
}

func TestParseKeepsBody(t *testing.T) {
	doc, err := Parse(strings.NewReader("---\ntitle: x\n---\n## Heading\n\nBody paragraph here.\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, ok := doc.Frontmatter["title"]; !ok {
		t.Errorf("missing title in frontmatter")
	}
	if want := "## Heading\n\nBody paragraph here.\n"; doc.Body != want {
		t.Errorf("body mismatch.\nwant: %q\n got: %q", want, doc.Body)
	}
}

func TestParseWithoutFrontmatter(t *testing.T) {
	body := "# Hello\n\nNo frontmatter here.\n"
	doc, err := Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(doc.Frontmatter) != 0 {
		t.Fatalf("expected empty frontmatter, got: %+v", doc.Frontmatter)
	}
	if doc.Body != body {
		t.Errorf("body mismatch.\nwant: %q\n got: %q", body, doc.Body)
	}
	if _, err := doc.Story(); err != ErrNoFrontmatter {
		t.Errorf("expected ErrNoFrontmatter, got %v", err)
	}
}

func TestStoryMissingFields(t *testing.T) {
	path := writeDraft(t, "---\ntitle: Only a title\n---\n")
	_, err := LoadStory(path)
	if err == nil {
		t.Fatal("expected error for incomplete frontmatter")
	}
	if !strings.Contains(err.Error(), "author, url") {
		t.Errorf("error should name missing fields, got %q", err)
	}
}

func TestLoadStoryMissingFile(t *testing.T) {
	if _, err := LoadStory(filepath.Join(t.TempDir(), "nope.md")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseBadYAML(t *testing.T) {
	if _, err := Parse(strings.NewReader("---\ntitle: [unclosed\n---\n")); err == nil {
		t.Fatal("expected YAML error")
	}
}
