package prompt

import (
	"context"
	"sync"

	"rig-mapper/internal/decision"
	"rig-mapper/internal/resolve"
)

type answer struct {
	decision decision.Decision
	err      error
}

// Pending is a request waiting for its answer.
type Pending struct {
	Request resolve.Request

	once  sync.Once
	reply chan answer
}

// Reply answers the request. Only the first answer counts; it reports
// whether d was delivered.
func (p *Pending) Reply(d decision.Decision) bool {
	return p.send(answer{decision: d})
}

// Decline answers the request with ErrNoDecision.
func (p *Pending) Decline() bool {
	return p.send(answer{err: ErrNoDecision})
}

func (p *Pending) send(a answer) bool {
	sent := false

	p.once.Do(func() {
		p.reply <- a
		sent = true
	})

	return sent
}

// Bridge forwards requests to whoever reads Requests.
type Bridge struct {
	requests chan *Pending
}

// NewBridge creates a Bridge.
func NewBridge() *Bridge {
	return &Bridge{requests: make(chan *Pending)}
}

// Requests returns the channel delivering pending requests.
func (b *Bridge) Requests() <-chan *Pending {
	return b.requests
}

// Prompt blocks until the request is answered or ctx is done.
func (b *Bridge) Prompt(ctx context.Context, req resolve.Request) (decision.Decision, error) {
	p := &Pending{Request: req, reply: make(chan answer, 1)}

	select {
	case <-ctx.Done():
		return decision.Decision{}, ctx.Err()
	case b.requests <- p:
	}

	select {
	case <-ctx.Done():
		return decision.Decision{}, ctx.Err()
	case a := <-p.reply:
		return a.decision, a.err
	}
}
