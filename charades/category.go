/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package charades

// Category is a themed group of words that can be switched on or off before a game.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	Enabled bool   `json:"enabled"`
}

// DefaultCategories returns the fixed category list, all enabled.
func DefaultCategories() []Category {
	return []Category{
		{ID: "nouns", Name: "Everyday things", Icon: "🏠", Enabled: true},
		{ID: "actions", Name: "Actions (verbs)", Icon: "🏃", Enabled: true},
		{ID: "professions", Name: "Jobs and trades", Icon: "👨‍⚕️", Enabled: true},
		{ID: "animals", Name: "Animals", Icon: "🐶", Enabled: true},
		{ID: "objects", Name: "Objects", Icon: "📱", Enabled: true},
		{ID: "famous", Name: "Famous people", Icon: "🎭", Enabled: true},
		{ID: "entertainment", Name: "Movies/Series/Books", Icon: "🎬", Enabled: true},
		{ID: "places", Name: "Places", Icon: "🏖️", Enabled: true},
	}
}
