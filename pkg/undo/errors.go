// ABOUTME: Sentinel errors for undo engine precondition violations
// ABOUTME: PerformError wraps a task failure raised during undo or redo replay

package undo

import (
	"errors"
	"fmt"
)

var (
	// ErrNilTarget is returned when a task is built without a target.
	ErrNilTarget = errors.New("undo: task target is nil")

	// ErrEmptySelector is returned when a task is built without a selector.
	ErrEmptySelector = errors.New("undo: task selector is empty")

	// ErrNilOperation is returned when a task is built without a function.
	ErrNilOperation = errors.New("undo: task operation is nil")

	// ErrTargetType is returned when SetTarget is given a target of a
	// different type than the task's operation accepts.
	ErrTargetType = errors.New("undo: target type does not match task operation")

	// ErrNoOpenGroup is returned when a task is submitted with no group open
	// and grouping by event disabled.
	ErrNoOpenGroup = errors.New("undo: no group open and groupsByEvent is off")

	// ErrNotGrouping is returned by EndUndoGrouping at grouping level 0.
	ErrNotGrouping = errors.New("undo: endUndoGrouping without matching begin")

	// ErrReentrantUndo is returned by Undo or Redo while a replay is running.
	ErrReentrantUndo = errors.New("undo: undo or redo called while already undoing or redoing")

	// ErrGroupOpen is returned by Undo or Redo while a client group is open.
	ErrGroupOpen = errors.New("undo: undo or redo called with an undo group open")

	// ErrUnbalancedEnable is returned by EnableUndoRegistration without a
	// matching DisableUndoRegistration.
	ErrUnbalancedEnable = errors.New("undo: enableUndoRegistration without matching disable")
)

// PerformError reports a task that failed while a group was replayed.
// Tasks after the failing one were not performed.
type PerformError struct {
	Direction  State
	ActionName string
	Selector   string
	Err        error
}

func (e *PerformError) Error() string {
	name := e.ActionName
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("undo: %s %s: task %q: %v", e.Direction, name, e.Selector, e.Err)
}

func (e *PerformError) Unwrap() error { return e.Err }
