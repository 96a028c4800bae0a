package catalog

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

// Expire drops every instance loaded more than maxAge ago so the next
// request reloads it from its source. It returns the dropped keys, sorted.
func (s *Store) Expire(now time.Time, maxAge time.Duration) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dropped []string
	for key, inst := range s.instances {
		if now.Sub(inst.LoadedAt) > maxAge {
			delete(s.instances, key)
			dropped = append(dropped, key)
		}
	}
	sort.Strings(dropped)
	return dropped
}

// RunExpiry calls Expire every interval until ctx is cancelled.
func (s *Store) RunExpiry(ctx context.Context, interval, maxAge time.Duration) {
	logger := s.settings.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("dataset expiry started", "interval", interval, "max_age", maxAge)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("dataset expiry stopped")
			return
		case now := <-ticker.C:
			if dropped := s.Expire(now, maxAge); len(dropped) > 0 {
				logger.Info("expired datasets", "datasets", dropped)
			}
		}
	}
}
