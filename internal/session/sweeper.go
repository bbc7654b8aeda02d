package session

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically drops sessions that have been idle longer than the
// configured TTL.
type Sweeper struct {
	cron     *cron.Cron
	sessions *Manager
	ttl      time.Duration
}

func NewSweeper(sessions *Manager, ttl time.Duration, loc *time.Location) *Sweeper {
	return &Sweeper{
		cron:     cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		sessions: sessions,
		ttl:      ttl,
	}
}

// Start schedules the sweep every interval and starts the cron loop.
func (s *Sweeper) Start(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("sweep interval must be positive")
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	spec := fmt.Sprintf("@every %ds", seconds)
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) sweep() {
	if removed := s.sessions.Sweep(s.ttl); removed > 0 {
		log.Printf("[info] swept %d expired sessions", removed)
	}
}
