package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/dexwars/internal/news"
)

func recv(t *testing.T, s *NewsService) news.NewsItem {
	t.Helper()
	select {
	case ev := <-s.Events():
		return ev.Item
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for news event")
		return news.NewsItem{}
	}
}

func TestPublishStampsAndFansOut(t *testing.T) {
	s := NewNewsService(DefaultConfig(), zerolog.Nop())
	defer s.Close()

	s.Publish(news.NewsItem{Day: 2, Venue: "PulseX", Headline: "- moon"})
	got := recv(t, s)

	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.NotZero(t, got.Time)
	assert.Equal(t, "- moon", got.Headline)

	latest := s.Latest(5)
	require.Len(t, latest, 1)
	assert.Equal(t, got.ID, latest[0].ID)
	assert.Len(t, s.Day(2), 1)
}

func TestResetClearsTape(t *testing.T) {
	s := NewNewsService(DefaultConfig(), zerolog.Nop())
	defer s.Close()

	s.Publish(news.NewsItem{Day: 1, Headline: "a"})
	s.Publish(news.NewsItem{Day: 2, Headline: "b"})
	s.Reset(news.NewsItem{Day: 1, Headline: "open"})
	for i := 0; i < 3; i++ {
		recv(t, s)
	}

	latest := s.Latest(10)
	require.Len(t, latest, 1)
	assert.Equal(t, "open", latest[0].Headline)
}

func TestSlowSubscriberDropsEvents(t *testing.T) {
	s := NewNewsService(Config{TapeSize: 10, EventBuffer: 1, ExternalEventBuffer: 1, DropExternalEvents: true}, zerolog.Nop())
	defer s.Close()

	for i := 0; i < 5; i++ {
		s.Publish(news.NewsItem{Day: i + 1, Headline: "x"})
	}

	assert.Eventually(t, func() bool {
		return s.DroppedEvents() == 4
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 5, s.view.Count(), "the tape keeps what subscribers miss")
}

func TestCloseIsIdempotent(t *testing.T) {
	s := NewNewsService(Config{}, zerolog.Nop())
	s.Close()
	s.Close()

	_, ok := <-s.Events()
	assert.False(t, ok, "events channel is closed")

	s.Publish(news.NewsItem{Headline: "after close"})
}
