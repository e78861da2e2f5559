package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zappabad/dexwars/internal/news"
	newsview "github.com/zappabad/dexwars/internal/news/view"
)

// NewsService keeps the news tape of the current run and fans changes out
// to subscribers.
type NewsService struct {
	cfg  Config
	view *newsview.NewsView
	log  zerolog.Logger

	internalEvents chan newsview.NewsEvent
	externalEvents chan newsview.NewsEvent
	droppedEvents  atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewNewsService creates a new NewsService.
func NewNewsService(cfg Config, log zerolog.Logger) *NewsService {
	if cfg.TapeSize <= 0 {
		cfg.TapeSize = DefaultConfig().TapeSize
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultConfig().EventBuffer
	}
	if cfg.ExternalEventBuffer <= 0 {
		cfg.ExternalEventBuffer = DefaultConfig().ExternalEventBuffer
	}

	s := &NewsService{
		cfg:            cfg,
		view:           newsview.NewNewsView(cfg.TapeSize),
		log:            log.With().Str("component", "news").Logger(),
		internalEvents: make(chan newsview.NewsEvent, cfg.EventBuffer),
		externalEvents: make(chan newsview.NewsEvent, cfg.ExternalEventBuffer),
		closed:         make(chan struct{}),
	}

	s.wg.Add(1)
	go s.runEventDispatcher()

	return s
}

func (s *NewsService) runEventDispatcher() {
	defer s.wg.Done()
	defer close(s.externalEvents)

	for {
		select {
		case <-s.closed:
			return
		case ev := <-s.internalEvents:
			// Always update view (authoritative)
			s.view.Apply(ev)

			if s.cfg.DropExternalEvents {
				select {
				case s.externalEvents <- ev:
				default:
					if n := s.droppedEvents.Add(1); n == 1 || n%100 == 0 {
						s.log.Warn().Int64("dropped", n).Msg("news subscriber is slow, dropping events")
					}
				}
			} else {
				select {
				case s.externalEvents <- ev:
				case <-s.closed:
					return
				}
			}
		}
	}
}

func (s *NewsService) send(ev newsview.NewsEvent) {
	select {
	case s.internalEvents <- ev:
	case <-s.closed:
	}
}

func stamp(item news.NewsItem) news.NewsItem {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.Time == 0 {
		item.Time = time.Now().UnixNano()
	}
	return item
}

// Publish appends an item to the tape. Sets ID and Time if missing.
func (s *NewsService) Publish(item news.NewsItem) {
	s.send(newsview.NewsEvent{Item: stamp(item)})
}

// Reset clears the tape, then publishes item if it has a headline.
func (s *NewsService) Reset(item news.NewsItem) {
	if item.Headline != "" {
		item = stamp(item)
	}
	s.send(newsview.NewsEvent{Item: item, Reset: true})
}

// Latest returns the last n news items (from view).
func (s *NewsService) Latest(n int) []news.NewsItem {
	return s.view.Latest(n)
}

// Day returns the items of one trading day.
func (s *NewsService) Day(day int) []news.NewsItem {
	return s.view.Day(day)
}

// Events returns the external events channel for subscribers.
func (s *NewsService) Events() <-chan newsview.NewsEvent {
	return s.externalEvents
}

// DroppedEvents returns the count of dropped external events.
func (s *NewsService) DroppedEvents() int64 {
	return s.droppedEvents.Load()
}

// Close shuts down the news service.
func (s *NewsService) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	s.wg.Wait()
}
