package news

import "github.com/google/uuid"

// NewsID uniquely identifies a news item.
type NewsID = uuid.UUID

// Kind tells the day's narrative apart from travel events.
type Kind int

const (
	KindNarrative Kind = iota // the generated news for a trading day
	KindEvent                 // rug pulls, perks and other travel outcomes
)

// NewsItem represents one entry on the news tape.
type NewsItem struct {
	ID       NewsID
	RunID    string
	Time     int64
	Day      int
	Venue    string // venue name; empty for run-wide items
	Kind     Kind
	Headline string
	Severity int // 0=normal, positive=more severe/important
}
