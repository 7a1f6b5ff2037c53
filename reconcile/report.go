//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

package reconcile

import (
	"trpc.group/trpc-go/trpc-es-provision/resource"
)

// Action is what a pass did, or would do, to one resource.
type Action string

// Actions.
const (
	// ActionCreate creates an absent resource.
	ActionCreate Action = "create"
	// ActionRecreate deletes and creates an existing resource.
	ActionRecreate Action = "recreate"
	// ActionMerge pushes settings or a mapping into an existing resource.
	ActionMerge Action = "merge"
	// ActionSkip leaves an existing resource alone.
	ActionSkip Action = "skip"
	// ActionAdd points an alias at its index.
	ActionAdd Action = "add"
)

// Result is the outcome for one resource.
type Result struct {
	// Kind is the resource kind.
	Kind resource.Kind
	// Name is the resource name: "index/type" for mappings, "alias:index"
	// for aliases.
	Name string
	// Present is whether the resource existed before the pass.
	Present bool
	// Action is the action taken, or planned in a dry run.
	Action Action
}

// Report lists every reconciled resource in reconcile order.
type Report struct {
	// PassID identifies the pass in logs, spans and metrics.
	PassID string
	// DryRun is set for reports produced by Plan.
	DryRun bool
	// Results holds one entry per resource handled before the pass ended.
	Results []Result
}

// Count returns the number of results of kind with action.
func (r *Report) Count(kind resource.Kind, action Action) int {
	n := 0
	for _, res := range r.Results {
		if res.Kind == kind && res.Action == action {
			n++
		}
	}
	return n
}

// Changed reports whether the result changes the cluster. Re-adding an alias
// that already points at its index does not.
func (r Result) Changed() bool {
	switch r.Action {
	case ActionSkip:
		return false
	case ActionAdd:
		return !r.Present
	default:
		return true
	}
}

// Changed reports whether any result changes the cluster.
func (r *Report) Changed() bool {
	for _, res := range r.Results {
		if res.Changed() {
			return true
		}
	}
	return false
}

// Result returns the result of the named resource.
func (r *Report) Result(kind resource.Kind, name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Kind == kind && res.Name == name {
			return res, true
		}
	}
	return Result{}, false
}
