package worker

import (
	"context"
	"log/slog"
	"time"

	"hack-or-snooze/internal/model"
)

// StoryFetcher loads the current story feed.
type StoryFetcher interface {
	Stories(ctx context.Context) (*model.StoryList, error)
}

// SeenStore remembers reported stories across polls and restarts.
type SeenStore interface {
	MarkSeen(ctx context.Context, feed string, stories []model.Story, now time.Time) ([]model.Story, error)
	Prune(ctx context.Context, feed string, cutoff time.Time) (int64, error)
	SeenCount(ctx context.Context, feed string) (int64, error)
}

// StoryWatcher polls the story feed and reports stories it has not seen.
type StoryWatcher struct {
	Client   StoryFetcher
	Store    SeenStore
	Feed     string        // seen-set name, e.g. the API host
	Interval time.Duration // poll period
	SeenTTL  time.Duration // forget stories not seen for this long
	// AnnounceBacklog reports the whole feed when the seen set starts empty.
	// Otherwise the first poll only primes the set.
	AnnounceBacklog bool
	OnNew           func([]model.Story)

	now    func() time.Time
	primed bool // set after the first successful poll
}

func (w *StoryWatcher) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 5 * time.Minute
	}
	if w.Feed == "" {
		w.Feed = "stories"
	}

	// initial run
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *StoryWatcher) clock() time.Time {
	if w.now != nil {
		return w.now()
	}
	return time.Now()
}

// runOnce polls once and returns the stories reported.
func (w *StoryWatcher) runOnce(ctx context.Context) []model.Story {
	now := w.clock()
	list, err := w.Client.Stories(ctx)
	if err != nil {
		slog.Error("story-watcher: fetch error", "error", err)
		return nil
	}

	priming := false
	if !w.primed && !w.AnnounceBacklog {
		n, err := w.Store.SeenCount(ctx, w.Feed)
		if err != nil {
			slog.Error("story-watcher: seen count error", "feed", w.Feed, "error", err)
			return nil
		}
		priming = n == 0
	}

	fresh, err := w.Store.MarkSeen(ctx, w.Feed, list.Stories, now)
	if err != nil {
		slog.Error("story-watcher: store error", "feed", w.Feed, "error", err)
		return nil
	}
	w.primed = true
	if w.SeenTTL > 0 {
		if removed, err := w.Store.Prune(ctx, w.Feed, now.Add(-w.SeenTTL)); err != nil {
			slog.Error("story-watcher: prune error", "feed", w.Feed, "error", err)
		} else if removed > 0 {
			slog.Debug("story-watcher: pruned", "feed", w.Feed, "removed", removed)
		}
	}

	if priming {
		slog.Info("story-watcher: primed seen set", "feed", w.Feed, "stories", len(fresh))
		return nil
	}
	slog.Info("story-watcher: poll completed", "feed", w.Feed, "stories", list.Len(), "new", len(fresh))
	if len(fresh) > 0 && w.OnNew != nil {
		w.OnNew(fresh)
	}
	return fresh
}
