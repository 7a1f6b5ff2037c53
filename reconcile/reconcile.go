//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

// Package reconcile brings an Elasticsearch cluster in line with declared
// templates, indices, mappings and aliases.
//
// Every resource moves through
//
//	UNKNOWN -> ABSENT  -> CREATE -> ACTIVE
//	UNKNOWN -> PRESENT -> SKIP | MERGE | FORCE (DELETE, CREATE) -> ACTIVE
//
// once per pass. Templates are reconciled first, then each index followed by
// its mappings, then aliases. The first error ends the pass.
package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	itelemetry "trpc.group/trpc-go/trpc-es-provision/internal/telemetry"
	"trpc.group/trpc-go/trpc-es-provision/log"
	"trpc.group/trpc-go/trpc-es-provision/resource"
	"trpc.group/trpc-go/trpc-es-provision/resource/definition"
	storage "trpc.group/trpc-go/trpc-es-provision/storage/elasticsearch"
	"trpc.group/trpc-go/trpc-es-provision/telemetry/metric"
	"trpc.group/trpc-go/trpc-es-provision/telemetry/trace"
)

// Reconciler reconciles declarations against one cluster. It borrows the
// client and never closes it.
type Reconciler struct {
	client storage.Client
	opts   options
}

// New creates a Reconciler.
func New(client storage.Client, opts ...Option) *Reconciler {
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Reconciler{client: client, opts: o}
}

// Plan queries the cluster and reports what Apply would do without changing
// anything.
func (r *Reconciler) Plan(ctx context.Context) (*Report, error) {
	return r.run(ctx, true)
}

// Apply reconciles every declaration. On error the returned report holds
// the resources handled before the failure.
func (r *Reconciler) Apply(ctx context.Context) (*Report, error) {
	return r.run(ctx, false)
}

func (r *Reconciler) run(ctx context.Context, dryRun bool) (*Report, error) {
	p := &pass{
		client: r.client,
		policy: r.opts.policy,
		report: &Report{PassID: uuid.NewString(), DryRun: dryRun},
	}
	ctx, span := trace.StartPass(ctx, p.report.PassID, resource.CleanRoot(r.opts.root), dryRun)
	defer span.End()

	decl := r.opts.declarations
	if decl == nil {
		var err error
		if decl, err = declare(ctx, &r.opts); err != nil {
			itelemetry.TraceError(span, err)
			return p.report, err
		}
	}
	if err := p.run(ctx, decl); err != nil {
		itelemetry.TraceError(span, err)
		log.Errorf("reconcile: pass %s failed after %d resources: %v", p.report.PassID, len(p.report.Results), err)
		return p.report, err
	}
	log.Infof("reconcile: pass %s done: %d templates, %d indices, %d aliases",
		p.report.PassID, len(decl.Templates), len(decl.Indices), len(decl.Aliases))
	return p.report, nil
}

// pass is the state of one run.
type pass struct {
	client storage.Client
	policy resource.Policy
	report *Report
}

func (p *pass) run(ctx context.Context, decl *Declarations) error {
	for _, t := range decl.Templates {
		if err := p.template(ctx, t); err != nil {
			return err
		}
	}
	for _, idx := range decl.Indices {
		if err := p.index(ctx, idx); err != nil {
			return err
		}
	}
	for _, a := range decl.Aliases {
		if err := p.alias(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// step runs fn inside a resource span and records its result.
func (p *pass) step(ctx context.Context, kind resource.Kind, name string,
	fn func(ctx context.Context) (Result, error)) (Result, error) {
	ctx, span := trace.StartResource(ctx, p.report.PassID, string(kind), name)
	defer span.End()

	res, err := fn(ctx)
	if err != nil {
		itelemetry.TraceError(span, err)
		return res, err
	}
	res.Kind, res.Name = kind, name
	itelemetry.TraceAction(span, string(res.Action))
	p.report.Results = append(p.report.Results, res)

	verb := "applied"
	if p.report.DryRun {
		verb = "planned"
	} else {
		metric.RecordAction(ctx, string(kind), string(res.Action))
	}
	if res.Action == ActionSkip {
		log.Debugf("reconcile: %s %s %q: skip", verb, kind, name)
	} else {
		log.Infof("reconcile: %s %s %q: %s", verb, kind, name, res.Action)
	}
	return res, nil
}

func (p *pass) template(ctx context.Context, t resource.TemplateDeclaration) error {
	_, err := p.step(ctx, resource.KindTemplate, t.Name, func(ctx context.Context) (Result, error) {
		present, err := p.client.TemplateExists(ctx, t.Name)
		if err != nil {
			return Result{}, wrap(resource.KindTemplate, t.Name, "exists", err)
		}
		res := Result{Present: present, Action: decideTemplate(present, p.policy, len(t.Body) > 0)}
		if p.report.DryRun {
			return res, nil
		}
		switch res.Action {
		case ActionRecreate:
			if err := p.client.DeleteTemplate(ctx, t.Name); err != nil {
				return res, wrap(resource.KindTemplate, t.Name, "delete", err)
			}
			fallthrough
		case ActionCreate:
			return res, p.acked(resource.KindTemplate, t.Name, "put")(p.client.PutTemplate(ctx, t.Name, t.Body))
		}
		return res, nil
	})
	return err
}

func (p *pass) index(ctx context.Context, idx resource.IndexDeclaration) error {
	res, err := p.step(ctx, resource.KindIndex, idx.Name, func(ctx context.Context) (Result, error) {
		present, err := p.client.IndexExists(ctx, idx.Name)
		if err != nil {
			return Result{}, wrap(resource.KindIndex, idx.Name, "exists", err)
		}
		res := Result{Present: present, Action: decideIndex(present, p.policy, len(idx.UpdateSettings) > 0)}
		if res.Action == ActionSkip && p.policy.MergeSettings {
			log.Debugf("reconcile: index %q has no %s, settings not merged",
				idx.Name, resource.UpdateSettingsFile)
		}
		if p.report.DryRun {
			return res, nil
		}
		switch res.Action {
		case ActionRecreate:
			if err := p.client.DeleteIndex(ctx, idx.Name); err != nil {
				return res, wrap(resource.KindIndex, idx.Name, "delete", err)
			}
			fallthrough
		case ActionCreate:
			return res, p.acked(resource.KindIndex, idx.Name, "create")(p.client.CreateIndex(ctx, idx.Name, idx.Settings))
		case ActionMerge:
			return res, p.acked(resource.KindIndex, idx.Name, "update settings")(
				p.client.UpdateIndexSettings(ctx, idx.Name, idx.UpdateSettings))
		}
		return res, nil
	})
	if err != nil {
		return err
	}
	// A freshly created index has no mapping the plan could have queried.
	fresh := p.report.DryRun && (res.Action == ActionCreate || res.Action == ActionRecreate)
	for _, m := range idx.Mappings {
		if err := p.mapping(ctx, m, fresh); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass) mapping(ctx context.Context, m resource.MappingDeclaration, fresh bool) error {
	name := m.String()
	_, err := p.step(ctx, resource.KindMapping, name, func(ctx context.Context) (Result, error) {
		present := false
		if !fresh {
			current, err := p.client.GetMapping(ctx, m.Index, m.Type)
			if err != nil {
				return Result{}, wrap(resource.KindMapping, name, "get", err)
			}
			// Typeless clusters return the whole index mapping for any
			// type, so presence means the declared fields are mapped.
			present = definition.MappingCovers(current, m.Body)
			if current != nil && !present {
				log.Debugf("reconcile: mapping %q misses declared fields", name)
			}
		}
		res := Result{Present: present, Action: decideMapping(present, p.policy, len(m.Body) > 0)}
		if p.report.DryRun || res.Action == ActionSkip {
			return res, nil
		}
		return res, p.acked(resource.KindMapping, name, "put")(p.client.PutMapping(ctx, m.Index, m.Type, m.Body))
	})
	return err
}

func (p *pass) alias(ctx context.Context, a resource.AliasDeclaration) error {
	name := a.String()
	_, err := p.step(ctx, resource.KindAlias, name, func(ctx context.Context) (Result, error) {
		res := Result{Action: ActionAdd}
		body, err := p.client.GetAlias(ctx, a.Alias)
		if err != nil {
			return res, wrap(resource.KindAlias, name, "get", err)
		}
		_, res.Present = gjson.ParseBytes(body).Map()[a.Index]
		if p.report.DryRun {
			return res, nil
		}
		// Add is issued even when the alias is already present.
		return res, p.acked(resource.KindAlias, name, "add")(p.client.AddAlias(ctx, a.Index, a.Alias))
	})
	return err
}

// acked turns the (acknowledged, error) pair of a state-changing call into
// an error.
func (p *pass) acked(kind resource.Kind, name, op string) func(bool, error) error {
	return func(ok bool, err error) error {
		if err != nil {
			return wrap(kind, name, op, err)
		}
		if !ok {
			return &resource.AckError{Kind: kind, Name: name, Op: op}
		}
		return nil
	}
}

func wrap(kind resource.Kind, name, op string, err error) error {
	return fmt.Errorf("%s %q: %s: %w", kind, name, op, err)
}

func decideTemplate(present bool, policy resource.Policy, hasBody bool) Action {
	switch {
	case !hasBody:
		return ActionSkip
	case !present:
		return ActionCreate
	case policy.ForceTemplate:
		return ActionRecreate
	default:
		return ActionSkip
	}
}

func decideIndex(present bool, policy resource.Policy, hasUpdate bool) Action {
	switch {
	case !present:
		return ActionCreate
	case policy.ForceIndex:
		return ActionRecreate
	case policy.MergeSettings && hasUpdate:
		return ActionMerge
	default:
		return ActionSkip
	}
}

func decideMapping(present bool, policy resource.Policy, hasBody bool) Action {
	switch {
	case !hasBody:
		return ActionSkip
	case !present:
		return ActionCreate
	case policy.MergeMapping:
		return ActionMerge
	default:
		return ActionSkip
	}
}
