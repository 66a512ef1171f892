package app

import (
	"context"
	"sync"
)

// Board tracks the in-flight availability fetch per view. Each Begin issues a
// larger token and cancels the view's previous fetch; only the newest token
// may publish its result.
type Board struct {
	mu    sync.Mutex
	next  uint64
	views map[string]*viewState
}

type viewState struct {
	latest uint64
	cancel context.CancelFunc
	result *Result
}

func NewBoard() *Board {
	return &Board{views: map[string]*viewState{}}
}

func (b *Board) view(name string) *viewState {
	v, ok := b.views[name]
	if !ok {
		v = &viewState{}
		b.views[name] = v
	}
	return v
}

func (b *Board) Begin(parent context.Context, view string) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	v := b.view(view)
	if v.cancel != nil {
		v.cancel()
	}
	v.latest, v.cancel = b.next, cancel
	return ctx, b.next
}

// Finish publishes res if token is still the latest for view. It reports
// whether the result was accepted.
func (b *Board) Finish(view string, token uint64, res Result) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.view(view)
	if token != v.latest {
		return false
	}
	res.Token, res.View = token, view
	v.result = &res
	v.release()
	return true
}

// Abandon releases the fetch for token without publishing anything.
func (b *Board) Abandon(view string, token uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v := b.view(view); token == v.latest {
		v.release()
	}
}

func (b *Board) Latest(view string) (Result, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.views[view]
	if !ok || v.result == nil {
		return Result{}, false
	}
	return *v.result, true
}

func (v *viewState) release() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}
