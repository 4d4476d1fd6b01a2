package hackorsnooze

import (
	"strings"

	"hack-or-snooze/internal/model"
)

// storyDTO mirrors the StoryDTO the API returns.
type storyDTO struct {
	StoryID   string `json:"storyId"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	URL       string `json:"url"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

type userDTO struct {
	Username  string     `json:"username"`
	Name      string     `json:"name"`
	CreatedAt string     `json:"createdAt"`
	Favorites []storyDTO `json:"favorites"`
	Stories   []storyDTO `json:"stories"`
}

type storiesEnvelope struct {
	Stories *[]storyDTO `json:"stories"`
}

type storyEnvelope struct {
	Story *storyDTO `json:"story"`
}

type userEnvelope struct {
	User  *userDTO `json:"user"`
	Token string   `json:"token"`
}

type errorEnvelope struct {
	Error struct {
		Status  int    `json:"status"`
		Title   string `json:"title"`
		Message any    `json:"message"`
	} `json:"error"`
}

type credentialsBody struct {
	User struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Name     string `json:"name,omitempty"`
	} `json:"user"`
}

type tokenBody struct {
	Token string `json:"token"`
}

type newStoryBody struct {
	Token string         `json:"token"`
	Story model.NewStory `json:"story"`
}

// missingField names the first required field absent from d.
func (d storyDTO) missingField() string {
	required := []struct{ name, value string }{
		{"storyId", d.StoryID},
		{"title", d.Title},
		{"author", d.Author},
		{"url", d.URL},
		{"username", d.Username},
		{"createdAt", d.CreatedAt},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	return ""
}

func (d storyDTO) toModel() model.Story {
	return model.Story{
		StoryID:   d.StoryID,
		Title:     d.Title,
		Author:    d.Author,
		URL:       d.URL,
		Username:  d.Username,
		CreatedAt: d.CreatedAt,
	}
}

// convertStories validates and converts a DTO slice, keeping order.
func convertStories(op, field string, in []storyDTO) ([]model.Story, error) {
	out := make([]model.Story, 0, len(in))
	for i, d := range in {
		if name := d.missingField(); name != "" {
			return nil, invalidResponse(op, "%s[%d] missing %q", field, i, name)
		}
		out = append(out, d.toModel())
	}
	return out, nil
}

func convertStory(op string, d *storyDTO) (model.Story, error) {
	if d == nil {
		return model.Story{}, invalidResponse(op, "missing \"story\"")
	}
	if name := d.missingField(); name != "" {
		return model.Story{}, invalidResponse(op, "story missing %q", name)
	}
	return d.toModel(), nil
}

// convertUser builds a User from a user DTO; stories becomes OwnStories.
func convertUser(op string, d *userDTO, token string) (*model.User, error) {
	if d == nil {
		return nil, invalidResponse(op, "missing \"user\"")
	}
	if strings.TrimSpace(d.Username) == "" {
		return nil, invalidResponse(op, "user missing \"username\"")
	}
	if strings.TrimSpace(d.CreatedAt) == "" {
		return nil, invalidResponse(op, "user missing \"createdAt\"")
	}
	favorites, err := convertStories(op, "favorites", d.Favorites)
	if err != nil {
		return nil, err
	}
	own, err := convertStories(op, "stories", d.Stories)
	if err != nil {
		return nil, err
	}
	return &model.User{
		Username:   d.Username,
		Name:       d.Name,
		CreatedAt:  d.CreatedAt,
		Favorites:  favorites,
		OwnStories: own,
		LoginToken: token,
	}, nil
}
