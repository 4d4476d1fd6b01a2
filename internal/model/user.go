package model

// User is the authenticated account of the current session. LoginToken
// authorizes every mutating API call.
type User struct {
	Username   string
	Name       string
	CreatedAt  string
	Favorites  []Story
	OwnStories []Story
	LoginToken string
}

func (u *User) IsFavorite(storyID string) bool {
	return u != nil && containsStory(u.Favorites, storyID)
}

func (u *User) IsOwnStory(storyID string) bool {
	return u != nil && containsStory(u.OwnStories, storyID)
}

// AddOwnStory records a story the user just submitted, newest first.
func (u *User) AddOwnStory(s Story) {
	u.OwnStories = append([]Story{s}, u.OwnStories...)
}

// ForgetStory removes a deleted story from the user's collections.
func (u *User) ForgetStory(storyID string) {
	u.OwnStories, _ = removeStory(u.OwnStories, storyID)
	u.Favorites, _ = removeStory(u.Favorites, storyID)
}
