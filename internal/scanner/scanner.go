// Package scanner runs the O(N) similarity scan against the full corpus on a
// dedicated goroutine so callers stay responsive. Requests and the corpus
// snapshot travel through a bounded inbox; each check is correlated by a
// caller-generated token and answered on its own reply channel.
package scanner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"street-name-validation/internal/models"
	"street-name-validation/internal/similarity"
	"street-name-validation/pkg/logging"
)

type msgKind int

const (
	msgInit msgKind = iota
	msgCheck
)

type message struct {
	kind   msgKind
	corpus []string // init only
	id     uuid.UUID
	name   string
	reply  chan response
}

type response struct {
	id      uuid.UUID
	verdict *models.SimilarStreet
}

// Scanner is the background similarity search worker. It holds its own
// reference to the current corpus, replaced wholesale by init messages, and
// keeps no per-request state beyond replying to the matching token.
type Scanner struct {
	inbox  chan message
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *logging.ComponentLogger

	startOnce sync.Once
	stopOnce  sync.Once
}

func New(log *logging.Logger, queueSize int) *Scanner {
	if queueSize <= 0 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scanner{
		inbox:  make(chan message, queueSize),
		ctx:    ctx,
		cancel: cancel,
		log:    log.WithComponent("scanner"),
	}
}

// Start launches the worker goroutine. Idempotent.
func (s *Scanner) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.run()
		s.log.Info("similarity scanner started")
	})
}

// Stop shuts the worker down and waits up to timeout for it to drain.
func (s *Scanner) Stop(timeout time.Duration) error {
	s.stopOnce.Do(s.cancel)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("scanner: shutdown timed out after %v", timeout)
	}
}

// ReplaceCorpus pushes a new corpus snapshot to the worker. No reply; the
// snapshot takes effect for requests enqueued after it. Safe to call at any
// time, including mid-flight.
func (s *Scanner) ReplaceCorpus(names []string) {
	select {
	case s.inbox <- message{kind: msgInit, corpus: names}:
	case <-s.ctx.Done():
	}
}

// Check scans the corpus for the first entry the candidate sounds like.
// Returns nil when nothing matches. Respects ctx cancellation while queued
// and while waiting for the reply.
func (s *Scanner) Check(ctx context.Context, candidateName string) (*models.SimilarStreet, error) {
	id := uuid.New()
	reply := make(chan response, 1)

	select {
	case s.inbox <- message{kind: msgCheck, id: id, name: candidateName, reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, fmt.Errorf("scanner: stopped")
	}

	select {
	case resp := <-reply:
		if resp.id != id {
			// Replies are per-request channels; a mismatched token is a bug.
			return nil, fmt.Errorf("scanner: correlation mismatch: got %s want %s", resp.id, id)
		}
		return resp.verdict, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, fmt.Errorf("scanner: stopped")
	}
}

func (s *Scanner) run() {
	defer s.wg.Done()

	var corpus []string
	for {
		select {
		case msg := <-s.inbox:
			switch msg.kind {
			case msgInit:
				corpus = msg.corpus
				s.log.Debug("corpus replaced", logging.Int("names", len(corpus)))
			case msgCheck:
				msg.reply <- response{id: msg.id, verdict: scan(msg.name, corpus)}
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// scan returns the first corpus entry the candidate sounds like, in stored
// (ascending) order. First match wins, not best match: which "sounds like X"
// name the applicant sees depends on this order, so it must stay stable.
func scan(candidateName string, corpus []string) *models.SimilarStreet {
	for _, street := range corpus {
		if v := similarity.SoundsSimilar(candidateName, street); v.Similar {
			return &v
		}
	}
	return nil
}
