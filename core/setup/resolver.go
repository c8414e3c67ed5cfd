package setup

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-setup/core"
)

const (
	defaultCampusName = "Your Campus"
	defaultClassName  = "Your Class"
)

type (
	// Deps are the collaborators of a Resolver.
	Deps struct {
		Store     ProgressStore
		Remote    Remote
		Session   Session
		Notifier  Notifier
		Navigator Navigator
		Logger    core.Logger

		// display names used when a resumed entity has no known name
		FallbackCampusName string
		FallbackClassName  string
	}

	// Resolution is the outcome of ResolveOnLoad.
	Resolution struct {
		Stage    Stage
		Progress Progress
		Redirect Destination
	}

	// Resolver reconciles the persisted progress with the backend and owns the current stage.
	Resolver struct {
		deps Deps

		mu      sync.Mutex
		current Progress
	}
)

func NewResolver(deps Deps) *Resolver {
	if deps.FallbackCampusName == "" {
		deps.FallbackCampusName = defaultCampusName
	}
	if deps.FallbackClassName == "" {
		deps.FallbackClassName = defaultClassName
	}
	return &Resolver{deps: deps}
}

// Current returns the resolved progress.
func (r *Resolver) Current() Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// ResolveOnLoad decides which stage to show.
// Authority, in descending order: remote setup status, remote progress, local cache.
// Remote failures are downgraded to warnings; only a missing session is an error.
func (r *Resolver) ResolveOnLoad(ctx context.Context) (Resolution, error) {
	if _, err := r.deps.Session.Token(ctx); err != nil {
		return r.signIn(err)
	}

	cached := r.loadCached(ctx)

	complete, err := r.deps.Remote.SetupStatus(ctx)
	if err != nil {
		if IsAuthFailure(err) {
			return r.signIn(err)
		}
		r.deps.Logger.Warn("setup status check failed", errors.Wrap(err, "checking setup status"), cached)
		r.deps.Notifier.Warn("Could not check the setup status, continuing from your saved progress.")
		// an unknown status skips the progress check
		return r.settle(cached), nil
	}

	if complete {
		next, _ := Transition(cached, RemoteComplete{})
		r.setFlag(ctx, KeyIsSetupComplete, "true")
		r.deps.Navigator.Navigate(DestDashboard)
		res := r.settle(next)
		res.Redirect = DestDashboard
		return res, nil
	}

	report, err := r.deps.Remote.SetupProgress(ctx)
	if err != nil {
		if IsAuthFailure(err) {
			return r.signIn(err)
		}
		r.deps.Logger.Warn("setup progress check failed", errors.Wrap(err, "checking setup progress"), cached)
		r.deps.Notifier.Warn("Could not load the setup progress, continuing from your saved progress.")
		return r.settle(cached), nil
	}

	ev := RemoteStage{
		Stage: report.CurrentStage,
		Context: Patch{
			CampusID:   report.CampusID,
			CampusName: report.CampusName,
			ClassID:    report.ClassID,
			ClassName:  report.ClassName,
		},
	}
	next, err := Transition(cached, ev)
	if err != nil {
		r.deps.Logger.Warn("invalid remote setup progress", err, cached)
		r.deps.Notifier.Warn("Could not load the setup progress, continuing from your saved progress.")
		return r.settle(cached), nil
	}
	next = r.withDisplayNames(ctx, next)

	r.setFlag(ctx, KeyIsSetupComplete, "false")
	r.persistAll(ctx, next)
	return r.settle(next), nil
}

// Advance moves the wizard to `stage` once the Stage View has created its entity.
// Calling it twice with the same arguments leaves the same state.
func (r *Resolver) Advance(ctx context.Context, stage Stage, patch Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.current
	next, err := Transition(prev, Advanced{To: stage, Patch: patch})
	if err != nil {
		return err
	}
	if err = r.persistChanges(ctx, prev, next); err != nil {
		return errors.Wrap(err, "persisting progress")
	}
	r.current = next

	if next.Stage == StageComplete {
		r.deps.Notifier.Info("Setup complete!")
	} else if next.Stage != prev.Stage {
		r.deps.Notifier.Info(fmt.Sprintf("%s saved, next: %s.", prev.Stage, next.Stage))
	}
	return nil
}

// Retreat handles the Back action: Class -> Campus and Arm -> Class only.
// Nothing is sent to the backend and created entities are kept.
func (r *Resolver) Retreat(ctx context.Context, stage Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.current
	next, err := Transition(prev, Retreated{To: stage})
	if err != nil {
		return err
	}
	if err = r.persistChanges(ctx, prev, next); err != nil {
		return errors.Wrap(err, "persisting progress")
	}
	r.current = next
	return nil
}

// Finish leaves a completed wizard for the dashboard.
func (r *Resolver) Finish(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current.Stage != StageComplete {
		return errors.Wrapf(ErrWrongStage, "finish at %s", r.current.Stage)
	}
	if err := r.deps.Store.Delete(ctx, SetupKeys...); err != nil {
		return errors.Wrap(err, "clearing progress")
	}
	r.deps.Navigator.Navigate(DestDashboard)
	return nil
}

func (r *Resolver) signIn(cause error) (Resolution, error) {
	r.deps.Navigator.Navigate(DestSignIn)
	r.mu.Lock()
	r.current = Progress{}
	r.mu.Unlock()
	if errors.Cause(cause) == ErrNoSession {
		return Resolution{Redirect: DestSignIn}, ErrNoSession
	}
	return Resolution{Redirect: DestSignIn}, errors.Wrap(ErrNoSession, cause.Error())
}

func (r *Resolver) settle(p Progress) Resolution {
	r.mu.Lock()
	r.current = p
	r.mu.Unlock()
	return Resolution{Stage: p.Stage, Progress: p}
}

// loadCached reads the persisted progress. Unreadable or inconsistent values fall back to Campus.
func (r *Resolver) loadCached(ctx context.Context) Progress {
	var p Progress
	get := func(key string) string {
		v, _, err := r.deps.Store.Get(ctx, key)
		if err != nil {
			r.deps.Logger.Warn(fmt.Sprintf("reading %s", key), err)
		}
		return v
	}

	if raw := get(KeyProgress); raw != "" {
		stage, err := WireToStage(raw)
		if err != nil {
			r.deps.Logger.Warn("ignoring cached setup stage", err)
		} else {
			p.Stage = stage
		}
	}
	p.CampusID = get(KeyCampusID)
	p.CampusName = get(KeyCampusName)
	p.ClassID = get(KeyClassID)
	p.ClassName = get(KeyClassName)

	if err := p.Check(); err != nil {
		r.deps.Logger.Warn("ignoring cached setup progress", err, p)
		return Progress{Stage: StageCampus}
	}
	return p
}

// withDisplayNames fills names the backend did not supply.
func (r *Resolver) withDisplayNames(ctx context.Context, p Progress) Progress {
	if p.CampusID != "" && p.CampusName == "" {
		p.CampusName = r.deps.FallbackCampusName
		if info, err := r.deps.Session.UserInfo(ctx); err == nil && info.SchoolName != "" {
			p.CampusName = info.SchoolName
		}
	}
	if p.ClassID != "" && p.ClassName == "" {
		p.ClassName = r.deps.FallbackClassName
	}
	return p
}

func (r *Resolver) setFlag(ctx context.Context, key, value string) {
	if err := r.deps.Store.Set(ctx, key, value); err != nil {
		r.deps.Logger.Warn(fmt.Sprintf("writing %s", key), err)
	}
}

// persistAll writes every field of p, so the cache agrees with the backend.
func (r *Resolver) persistAll(ctx context.Context, p Progress) {
	if err := r.write(ctx, progressFields(p), nil); err != nil {
		r.deps.Logger.Warn("persisting resolved progress", err, p)
	}
}

// persistChanges writes the fields that differ between prev and next, one key at a time.
func (r *Resolver) persistChanges(ctx context.Context, prev, next Progress) error {
	if next.Stage == StageComplete {
		if err := r.deps.Store.Delete(ctx, SetupKeys...); err != nil {
			return err
		}
		return r.deps.Store.Set(ctx, KeyIsSetupComplete, "true")
	}
	return r.write(ctx, progressFields(next), progressFields(prev))
}

func (r *Resolver) write(ctx context.Context, fields, prevFields map[string]string) error {
	var stale []string
	for _, key := range SetupKeys {
		val := fields[key]
		if prevFields != nil && prevFields[key] == val {
			continue
		}
		if val == "" {
			stale = append(stale, key)
			continue
		}
		if err := r.deps.Store.Set(ctx, key, val); err != nil {
			return errors.Wrapf(err, "writing %s", key)
		}
	}
	if len(stale) > 0 {
		if err := r.deps.Store.Delete(ctx, stale...); err != nil {
			return errors.Wrap(err, "deleting stale keys")
		}
	}
	return nil
}

func progressFields(p Progress) map[string]string {
	return map[string]string{
		KeyProgress:   StageToWire(p.Stage),
		KeyCampusID:   p.CampusID,
		KeyCampusName: p.CampusName,
		KeyClassID:    p.ClassID,
		KeyClassName:  p.ClassName,
	}
}
