// ABOUTME: Task abstraction and ConcreteTask, a deferred call bound to a target
// ABOUTME: Targets are held weakly or strongly; the invocation never changes once built

package undo

import (
	"weak"
)

// Task is one reversible unit of work: a ConcreteTask or a Group.
type Task interface {
	// Perform runs the task once.
	Perform() error
	// Group returns the group that owns the task, or nil.
	Group() *Group

	setGroup(g *Group)
}

// targetRef is a handle on a task's target under one ownership discipline.
type targetRef interface {
	get() (any, bool)
	is(target any) bool
	retained() bool
}

type strongRef[T any] struct{ p *T }

func (r strongRef[T]) get() (any, bool) { return r.p, true }
func (r strongRef[T]) is(x any) bool {
	p, ok := x.(*T)
	return ok && p == r.p
}
func (strongRef[T]) retained() bool { return true }

type weakRef[T any] struct{ wp weak.Pointer[T] }

func (r weakRef[T]) get() (any, bool) {
	p := r.wp.Value()
	if p == nil {
		return nil, false
	}
	return p, true
}
func (r weakRef[T]) is(x any) bool {
	p, ok := x.(*T)
	return ok && p != nil && weak.Make(p) == r.wp
}
func (weakRef[T]) retained() bool { return false }

type retainMode int

const (
	retainDefault retainMode = iota
	retainStrong
	retainWeak
)

// ConcreteTask is a deferred operation on a target with a bound argument.
type ConcreteTask struct {
	group    *Group
	selector string
	arg      any
	ref      targetRef
	mode     retainMode

	invoke  func(target any) error
	makeRef func(target any, retained bool) (targetRef, error)
}

// NewTask builds a task that calls fn(target, arg) when performed.
func NewTask[T, A any](target *T, selector string, fn func(*T, A), arg A) (*ConcreteTask, error) {
	if fn == nil {
		return nil, ErrNilOperation
	}
	return NewTaskE(target, selector, func(t *T, a A) error {
		fn(t, a)
		return nil
	}, arg)
}

// NewTaskE is NewTask for operations that can fail.
func NewTaskE[T, A any](target *T, selector string, fn func(*T, A) error, arg A) (*ConcreteTask, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	if selector == "" {
		return nil, ErrEmptySelector
	}
	if fn == nil {
		return nil, ErrNilOperation
	}
	makeRef := func(x any, retained bool) (targetRef, error) {
		p, ok := x.(*T)
		if !ok {
			if x == nil {
				return nil, ErrNilTarget
			}
			return nil, ErrTargetType
		}
		if p == nil {
			return nil, ErrNilTarget
		}
		if retained {
			return strongRef[T]{p: p}, nil
		}
		return weakRef[T]{wp: weak.Make(p)}, nil
	}
	return &ConcreteTask{
		selector: selector,
		arg:      arg,
		// Held strongly until a manager applies its ownership policy.
		ref: strongRef[T]{p: target},
		invoke: func(x any) error {
			return fn(x.(*T), arg)
		},
		makeRef: makeRef,
	}, nil
}

// SetTarget rebinds the task to target with an explicit ownership choice
// that overrides the manager's RetainsTargets default for this task.
func (t *ConcreteTask) SetTarget(target any, retained bool) error {
	ref, err := t.makeRef(target, retained)
	if err != nil {
		return err
	}
	t.ref = ref
	if retained {
		t.mode = retainStrong
	} else {
		t.mode = retainWeak
	}
	return nil
}

// applyDefault switches the target to the manager's policy unless the task
// was given an explicit one.
func (t *ConcreteTask) applyDefault(retained bool) {
	if t.mode != retainDefault || t.ref.retained() == retained {
		return
	}
	target, ok := t.ref.get()
	if !ok {
		return
	}
	if ref, err := t.makeRef(target, retained); err == nil {
		t.ref = ref
	}
}

// Perform calls the bound operation. A weakly held target that has been
// collected is skipped.
func (t *ConcreteTask) Perform() error {
	target, ok := t.ref.get()
	if !ok {
		logger.Debug("skip %q: target released", t.selector)
		return nil
	}
	return t.invoke(target)
}

// Group returns the owning group.
func (t *ConcreteTask) Group() *Group { return t.group }

func (t *ConcreteTask) setGroup(g *Group) { t.group = g }

// Selector names the bound operation.
func (t *ConcreteTask) Selector() string { return t.selector }

// Argument returns the bound argument.
func (t *ConcreteTask) Argument() any { return t.arg }

// Retained reports whether the task holds its target strongly.
func (t *ConcreteTask) Retained() bool { return t.ref.retained() }

// Target returns the target, or false if a weak target was collected.
func (t *ConcreteTask) Target() (any, bool) { return t.ref.get() }

// HasTarget reports whether the task acts on target.
func (t *ConcreteTask) HasTarget(target any) bool { return t.ref.is(target) }

func (t *ConcreteTask) matches(target any, selector string) bool {
	return t.selector == selector && t.ref.is(target)
}

// sameCall reports whether two tasks address the same target and selector.
func (t *ConcreteTask) sameCall(o *ConcreteTask) bool {
	if t.selector != o.selector {
		return false
	}
	target, ok := o.ref.get()
	return ok && t.ref.is(target)
}
