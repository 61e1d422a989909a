package workflow

import (
	"context"
	"sync"
	"time"

	"ai-docgen-be/internal/constant"
)

// DefaultFeedbackTimeout bounds how long a session waits for a human
// decision before treating silence as end-of-session.
const DefaultFeedbackTimeout = 30 * time.Second

// PeerRegistry reports whether a document still has a connected client.
// A wait with no peer resolves immediately: there is nobody left to answer.
type PeerRegistry interface {
	HasClient(documentID string) bool
}

// resolvedTTL is how long a consumed section id keeps rejecting late
// deliveries before its tombstone is swept.
const resolvedTTL = time.Minute

// FeedbackChannel is a per-section rendezvous between one waiting workflow
// and the transport delivering human feedback. Deliveries may arrive before
// the wait is registered (buffered), after resolution (dropped), or never
// (timeout). Maps are keyed by section id and safe for concurrent use by
// multiple sessions.
type FeedbackChannel struct {
	mu       sync.Mutex
	waiters  map[string]chan Feedback
	buffered map[string]Feedback
	resolved map[string]time.Time
	peers    PeerRegistry
}

func NewFeedbackChannel(peers PeerRegistry) *FeedbackChannel {
	return &FeedbackChannel{
		waiters:  make(map[string]chan Feedback),
		buffered: make(map[string]Feedback),
		resolved: make(map[string]time.Time),
		peers:    peers,
	}
}

// Deliver hands feedback to the waiter for sectionID, or buffers it until
// one registers. Only the first delivery per outstanding wait is observed;
// later ones are accepted and dropped. A delivery for an id whose wait has
// already resolved is dropped outright, never re-buffered.
func (fc *FeedbackChannel) Deliver(sectionID string, feedback Feedback) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if _, ok := fc.resolved[sectionID]; ok {
		return
	}

	if ch, ok := fc.waiters[sectionID]; ok {
		select {
		case ch <- feedback:
		default:
			// Waiter already resolved.
		}
		return
	}

	if _, ok := fc.buffered[sectionID]; !ok {
		fc.buffered[sectionID] = feedback
	}
}

// Await blocks until feedback for sectionID arrives, the timeout expires, or
// ctx is cancelled. Timeout, cancellation and a missing peer all resolve to
// a synthetic end signal rather than an error. State for the section id is
// cleaned up before returning.
func (fc *FeedbackChannel) Await(ctx context.Context, documentID, sectionID string, timeout time.Duration) Feedback {
	if timeout <= 0 {
		timeout = DefaultFeedbackTimeout
	}

	fc.mu.Lock()
	if fb, ok := fc.buffered[sectionID]; ok {
		delete(fc.buffered, sectionID)
		fc.markResolved(sectionID)
		fc.mu.Unlock()
		return fb
	}
	if fc.peers != nil && !fc.peers.HasClient(documentID) {
		fc.markResolved(sectionID)
		fc.mu.Unlock()
		return syntheticEnd(sectionID)
	}
	ch := make(chan Feedback, 1)
	fc.waiters[sectionID] = ch
	fc.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case fb := <-ch:
		fc.cleanup(sectionID)
		return fb
	case <-timer.C:
	case <-ctx.Done():
	}

	fc.cleanup(sectionID)

	// A delivery that raced the timeout wins.
	select {
	case fb := <-ch:
		return fb
	default:
		return syntheticEnd(sectionID)
	}
}

func (fc *FeedbackChannel) cleanup(sectionID string) {
	fc.mu.Lock()
	delete(fc.waiters, sectionID)
	delete(fc.buffered, sectionID)
	fc.markResolved(sectionID)
	fc.mu.Unlock()
}

// markResolved tombstones a consumed section id so a racing late delivery
// cannot re-buffer under it. Stale tombstones are swept in passing; callers
// hold fc.mu.
func (fc *FeedbackChannel) markResolved(sectionID string) {
	now := time.Now()
	fc.resolved[sectionID] = now
	for id, ts := range fc.resolved {
		if now.Sub(ts) > resolvedTTL {
			delete(fc.resolved, id)
		}
	}
}

func syntheticEnd(sectionID string) Feedback {
	return Feedback{
		SectionID:    sectionID,
		FeedbackType: constant.FeedbackEnd,
	}
}
