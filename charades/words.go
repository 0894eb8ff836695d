/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package charades

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Word is a single card drawn for the active team.
type Word struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// WordProvider draws words from the enabled categories. Implementations must not
// touch game state.
type WordProvider interface {
	NextWord(enabled []Category) (Word, error)
}

// WordList samples uniformly, with replacement, across every word of every enabled
// category. It is read-only after construction and safe for concurrent use.
type WordList struct {
	words map[string][]string
	intN  func(n int) int
}

func NewWordList(words map[string][]string) *WordList {
	wl := &WordList{
		words: make(map[string][]string, len(words)),
		intN:  rand.IntN,
	}
	for id, list := range words {
		wl.words[id] = slices.Clone(list)
	}

	return wl
}

// DefaultWordList returns the built-in word lists.
func DefaultWordList() *WordList {
	return NewWordList(builtinWords)
}

func (wl *WordList) NextWord(enabled []Category) (Word, error) {
	if len(enabled) == 0 {
		return Word{}, ErrNoCategories
	}

	total := 0
	for _, c := range enabled {
		total += len(wl.words[c.ID])
	}
	if total == 0 {
		return Word{}, fmt.Errorf("no words available in the %d enabled categories", len(enabled))
	}

	n := wl.intN(total)
	for _, c := range enabled {
		list := wl.words[c.ID]
		if n < len(list) {
			return Word{Text: list[n], Category: c.Name}, nil
		}
		n -= len(list)
	}

	panic("unreachable: word index out of range")
}

// Count returns how many words the list holds for a category id.
func (wl *WordList) Count(categoryID string) int {
	return len(wl.words[categoryID])
}

// LoadWordList reads a file mapping category ids to word lists and merges it over the
// built-in lists. Any format viper can parse (yaml, json, toml) is accepted.
func LoadWordList(path string) (*WordList, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading word list %s: %w", path, err)
	}

	var lists map[string][]string
	if err := v.Unmarshal(&lists); err != nil {
		return nil, fmt.Errorf("parsing word list %s: %w", path, err)
	}

	known := make(map[string]bool)
	for _, c := range DefaultCategories() {
		known[c.ID] = true
	}

	merged := make(map[string][]string, len(builtinWords))
	for id, list := range builtinWords {
		merged[id] = list
	}

	for id, list := range lists {
		id = strings.ToLower(strings.TrimSpace(id))
		if !known[id] {
			return nil, fmt.Errorf("word list %s: unknown category %q", path, id)
		}

		cleaned := make([]string, 0, len(list))
		for _, w := range list {
			if w = strings.TrimSpace(w); w != "" {
				cleaned = append(cleaned, w)
			}
		}
		if len(cleaned) == 0 {
			return nil, fmt.Errorf("word list %s: category %q has no words", path, id)
		}

		merged[id] = cleaned
	}

	return NewWordList(merged), nil
}

var builtinWords = map[string][]string{
	"nouns": {
		"House", "Tree", "Car", "Bed", "Chair", "Table", "Window", "Door", "Bridge", "Mountain",
		"Ball", "Umbrella", "Ladder", "Candle", "Mirror", "Pillow", "Balloon", "Kite",
	},
	"actions": {
		"Run", "Swim", "Dance", "Sing", "Cook", "Sleep", "Climb", "Jump", "Laugh", "Cry",
		"Drive", "Paint", "Knit", "Juggle", "Sneeze", "Whistle", "Surf", "Row",
	},
	"professions": {
		"Doctor", "Firefighter", "Teacher", "Chef", "Pilot", "Astronaut", "Plumber", "Dentist",
		"Mechanic", "Police officer", "Photographer", "Magician", "Lifeguard", "Farmer",
		"Hairdresser", "Waiter",
	},
	"animals": {
		"Dog", "Cat", "Elephant", "Giraffe", "Monkey", "Penguin", "Kangaroo", "Snake",
		"Frog", "Chicken", "Horse", "Octopus", "Crab", "Bear", "Rabbit", "Owl", "Shark",
	},
	"objects": {
		"Phone", "Scissors", "Toothbrush", "Guitar", "Camera", "Hammer", "Key", "Clock",
		"Headphones", "Glasses", "Remote control", "Vacuum cleaner", "Backpack", "Lamp",
		"Hair dryer", "Stapler",
	},
	"famous": {
		"Charlie Chaplin", "Michael Jackson", "Albert Einstein", "Marilyn Monroe",
		"Elvis Presley", "Cleopatra", "Napoleon", "Frida Kahlo", "Lionel Messi",
		"Freddie Mercury", "Shakespeare", "Superman", "Harry Potter", "Mickey Mouse",
	},
	"entertainment": {
		"Titanic", "Star Wars", "The Lion King", "Jurassic Park", "Frozen", "Toy Story",
		"The Godfather", "Friends", "Don Quixote", "The Little Prince", "Jaws", "Rocky",
		"Finding Nemo", "The Matrix",
	},
	"places": {
		"Beach", "Hospital", "Airport", "Library", "Zoo", "Supermarket", "Cinema", "Museum",
		"Gym", "Circus", "Desert", "Volcano", "Castle", "Casino", "Bakery", "Stadium",
	},
}
