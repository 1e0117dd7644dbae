// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress drives the three-stage indicator shown while an article
// is generated. Stages advance on a fixed timer schedule only; they say
// nothing about how far the agent call has actually progressed.
package progress

import (
	"sync"
	"time"

	"github.com/pdiddy/article-console/pkg/types"
)

// Default stage schedule, measured from Start.
const (
	DefaultEvaluateAfter = 8 * time.Second
	DefaultImproveAfter  = 16 * time.Second
)

// Stage is one of the three cosmetic pipeline phases.
type Stage int

const (
	StageWrite Stage = iota
	StageEvaluate
	StageImprove
)

func (s Stage) String() string {
	switch s {
	case StageWrite:
		return "write"
	case StageEvaluate:
		return "evaluate"
	case StageImprove:
		return "improve"
	}
	return "unknown"
}

// Label is the operator-facing caption for a stage.
func (s Stage) Label() string {
	switch s {
	case StageWrite:
		return "Writing article"
	case StageEvaluate:
		return "Evaluating SEO quality"
	case StageImprove:
		return "Improving content"
	}
	return ""
}

// Controller owns the stage timers of one generating state.
type Controller struct {
	// deliver serializes stage delivery against Stop.
	deliver  sync.Mutex
	mu       sync.Mutex
	delays   [2]time.Duration
	onChange func(Stage)

	stage  Stage
	active bool
	run    uint64
	timers []*time.Timer
}

// New returns a Controller using cfg's delays, or the defaults when unset.
// onChange, if non-nil, is called with every stage change, including the
// reset to StageWrite on Start. It must not call back into the Controller.
func New(cfg types.ProgressConfig, onChange func(Stage)) *Controller {
	evaluate := cfg.EvaluateAfter
	if evaluate <= 0 {
		evaluate = DefaultEvaluateAfter
	}
	improve := cfg.ImproveAfter
	if improve <= 0 {
		improve = DefaultImproveAfter
	}
	if improve < evaluate {
		improve = evaluate
	}
	return &Controller{delays: [2]time.Duration{evaluate, improve}, onChange: onChange}
}

// Start enters the generating state: the stage resets to StageWrite and
// both advances are scheduled. A previous run is cancelled first.
func (c *Controller) Start() {
	c.deliver.Lock()
	defer c.deliver.Unlock()

	c.mu.Lock()
	c.cancelLocked()
	c.run++
	run := c.run
	c.stage = StageWrite
	c.active = true
	c.timers = []*time.Timer{
		time.AfterFunc(c.delays[0], func() { c.advance(run, StageEvaluate) }),
		time.AfterFunc(c.delays[1], func() { c.advance(run, StageImprove) }),
	}
	c.mu.Unlock()

	c.notify(StageWrite)
}

// Stop leaves the generating state and cancels pending advances. No stage
// change is delivered after Stop returns.
func (c *Controller) Stop() {
	c.deliver.Lock()
	defer c.deliver.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.active = false
	c.run++
}

// Stage returns the current stage.
func (c *Controller) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Active reports whether a generating state is in progress.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

func (c *Controller) advance(run uint64, s Stage) {
	c.deliver.Lock()
	defer c.deliver.Unlock()

	c.mu.Lock()
	if run != c.run || !c.active {
		c.mu.Unlock()
		return
	}
	c.stage = s
	c.mu.Unlock()

	c.notify(s)
}

func (c *Controller) cancelLocked() {
	for _, t := range c.timers {
		t.Stop()
	}
	c.timers = nil
}

func (c *Controller) notify(s Stage) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
