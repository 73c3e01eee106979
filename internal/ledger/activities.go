package ledger

import (
	"math/rand/v2"
	"slices"
)

// The fixed set of activities users can invite each other to.
var activities = []string{"Chess", "Math", "Science", "Programming", "Skills"}

func Activities() []string {
	return slices.Clone(activities)
}

func ValidActivity(name string) bool {
	return slices.Contains(activities, name)
}

var summarySentences = []string{
	"You seem to be getting along well",
	"You had a friendly conversation",
	"You discussed shared interests",
	"You argued about something",
	"You made plans together",
	"You shared personal stories",
	"You helped each other out",
}

// RandomSummary is the default Summarizer. It stands in for a real
// summarization backend by picking one of a small set of canned sentences.
func RandomSummary(_, _, _ string) string {
	return summarySentences[rand.IntN(len(summarySentences))]
}
