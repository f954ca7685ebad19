// Package session holds the study-session queue: the ordered set of due
// item ids a user works through in one sitting. The queue is built once
// at session start and only shrinks; rating side effects (scheduling, log
// appends) belong to the service layer. Sessions do not survive restarts.
package session

import (
	"time"

	"github.com/revisehq/revise/internal/models"
	"github.com/revisehq/revise/internal/srs"
)

// Session is a finite ordered queue of item ids.
type Session struct {
	queue []string
}

// Start builds a session from the items due as of now.
func Start(items []models.Item, now time.Time) *Session {
	due := srs.DueItems(items, now)
	q := make([]string, len(due))
	for i, it := range due {
		q[i] = it.ID
	}
	return &Session{queue: q}
}

// Current returns the id at the front of the queue, or "" when the
// session is over.
func (s *Session) Current() string {
	if len(s.queue) == 0 {
		return ""
	}
	return s.queue[0]
}

// Advance removes id from the queue. Normally that is the front element,
// but removal works anywhere so a deleted item cannot wedge the session.
func (s *Session) Advance(id string) {
	out := s.queue[:0]
	for _, q := range s.queue {
		if q != id {
			out = append(out, q)
		}
	}
	s.queue = out
}

// Remaining returns the number of items left to review.
func (s *Session) Remaining() int {
	return len(s.queue)
}

// Done reports whether the queue is exhausted.
func (s *Session) Done() bool {
	return len(s.queue) == 0
}
