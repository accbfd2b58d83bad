package services

import (
	"fmt"

	"github.com/vvka-141/tabload/pkg/tabload"
)

var allowedTransitions = map[tabload.LoadState][]tabload.LoadState{
	tabload.StateIdle:          {tabload.StateReading, tabload.StateFailed},
	tabload.StateReading:       {tabload.StateSchemaCreated, tabload.StateFailed},
	tabload.StateSchemaCreated: {tabload.StateInserting, tabload.StateFailed},
	tabload.StateInserting:     {tabload.StateCommitted, tabload.StateFailed},
}

// runState tracks one load run through its stages.
// Not safe for concurrent use; a run has a single flow of control.
type runState struct {
	runID   string
	current tabload.LoadState
	logger  tabload.Logger
	history []tabload.LoadState
}

func newRunState(runID string, logger tabload.Logger) *runState {
	return &runState{
		runID:   runID,
		current: tabload.StateIdle,
		logger:  logger,
		history: []tabload.LoadState{tabload.StateIdle},
	}
}

// advance moves the run to next. Terminal states accept no transition.
func (r *runState) advance(next tabload.LoadState) error {
	for _, allowed := range allowedTransitions[r.current] {
		if allowed == next {
			r.logger.Verbose("[%s] state %s -> %s", r.runID, r.current, next)
			r.current = next
			r.history = append(r.history, next)
			return nil
		}
	}
	return fmt.Errorf("invalid load state transition %s -> %s", r.current, next)
}

// fail moves the run to Failed unless it already ended.
func (r *runState) fail() {
	if r.current.Terminal() {
		return
	}
	_ = r.advance(tabload.StateFailed)
}
