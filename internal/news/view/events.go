package view

import "github.com/zappabad/dexwars/internal/news"

// NewsEvent is a change to the tape. A Reset event empties it before Item,
// if any, is appended.
type NewsEvent struct {
	Item  news.NewsItem
	Reset bool
}
