package recognizer

import (
	"strings"
)

// Topic identifies the concept a capture is checked against.
type Topic int

const (
	TopicUnknown Topic = iota
	TopicEarth
	TopicBrain
	TopicHeart
)

// TopicInfo is the catalog entry of a topic.
type TopicInfo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ModelPath string `json:"model_path"`
	Hint      string `json:"hint"`

	// Keywords are matched against classifier labels. Only topics with
	// keywords consult the classifier.
	Keywords []string `json:"keywords,omitempty"`
}

var catalog = map[Topic]TopicInfo{
	TopicEarth: {
		ID:        "earth",
		Title:     "Planet Earth",
		ModelPath: "/models/Earth2.glb",
		Hint:      "Scan an image showing blue oceans from space",
	},
	TopicBrain: {
		ID:        "brain",
		Title:     "Human Brain",
		ModelPath: "/models/brain.glb",
		Hint:      "Scan a brain anatomy image. AI-enhanced recognition enabled!",
		Keywords:  []string{"brain", "head", "skull", "cerebrum", "neuron", "neural"},
	},
	TopicHeart: {
		ID:        "heart",
		Title:     "Human Heart",
		ModelPath: "/models/heart.glb",
		Hint:      "Scan a red/pink heart anatomy image showing chambers",
	},
}

// Topics returns every known topic in catalog order.
func Topics() []Topic {
	return []Topic{TopicEarth, TopicBrain, TopicHeart}
}

// ParseTopic accepts a topic id ("brain") or title ("Human Brain"),
// case-insensitively. Anything else is TopicUnknown.
func ParseTopic(s string) Topic {
	s = strings.TrimSpace(s)
	for _, t := range Topics() {
		info := catalog[t]
		if strings.EqualFold(s, info.ID) || strings.EqualFold(s, info.Title) {
			return t
		}
	}
	return TopicUnknown
}

// Info returns the catalog entry. TopicUnknown has an empty entry with the
// title "Unknown".
func (t Topic) Info() TopicInfo {
	if info, ok := catalog[t]; ok {
		return info
	}
	return TopicInfo{ID: "unknown", Title: "Unknown"}
}

// Known reports whether t is in the catalog.
func (t Topic) Known() bool {
	_, ok := catalog[t]
	return ok
}

// String returns the topic id.
func (t Topic) String() string { return t.Info().ID }

// Title returns the display title.
func (t Topic) Title() string { return t.Info().Title }

// UsesClassifier reports whether recognition consults the classifier.
func (t Topic) UsesClassifier() bool { return len(t.Info().Keywords) > 0 }

// MarshalText encodes the topic as its id.
func (t Topic) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses an id or title.
func (t *Topic) UnmarshalText(b []byte) error {
	*t = ParseTopic(string(b))
	return nil
}
