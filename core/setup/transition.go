package setup

import "github.com/pkg/errors"

// Event is anything that moves the wizard between stages.
type Event interface {
	event()
}

type (
	// RemoteComplete: the backend reports the tenant setup as done.
	RemoteComplete struct{}

	// RemoteStage: the backend reports the current stage and the entities it knows of.
	RemoteStage struct {
		Stage   Stage
		Context Patch
	}

	// Advanced: a Stage View created its entity and moves the wizard to `To`.
	Advanced struct {
		To    Stage
		Patch Patch
	}

	// Retreated: the user pressed Back.
	Retreated struct {
		To Stage
	}
)

func (RemoteComplete) event() {}
func (RemoteStage) event()    {}
func (Advanced) event()       {}
func (Retreated) event()      {}

// Transition is the pure wizard state machine: it returns the state following `ev`
// or an error leaving `p` as the current state.
func Transition(p Progress, ev Event) (Progress, error) {
	switch e := ev.(type) {
	case RemoteComplete:
		return Progress{Stage: StageComplete}, nil

	case RemoteStage:
		if !e.Stage.Valid() {
			return p, errors.Wrapf(ErrInvalidStage, "ordinal %d", int(e.Stage))
		}
		return fromRemote(p, e), nil

	case Advanced:
		if !e.To.Valid() {
			return p, errors.Wrapf(ErrInvalidStage, "ordinal %d", int(e.To))
		}
		if e.To < p.Stage {
			return p, errors.Wrapf(ErrBackwardAdvance, "%s -> %s", p.Stage, e.To)
		}
		if e.To > p.Stage.Next() {
			return p, errors.Wrapf(ErrStageSkipped, "%s -> %s", p.Stage, e.To)
		}
		if e.To == StageComplete {
			return Progress{Stage: StageComplete}, nil
		}
		next := p.apply(e.Patch)
		next.Stage = e.To
		if err := next.Check(); err != nil {
			return p, err
		}
		return next, nil

	case Retreated:
		prev, ok := p.Stage.Prev()
		if !ok || prev != e.To {
			return p, errors.Wrapf(ErrRetreatNotAllowed, "%s -> %s", p.Stage, e.To)
		}
		// entities already created are kept: going back only changes the form shown.
		next := p
		next.Stage = e.To
		return next, nil
	}
	return p, errors.Errorf("setup: unknown event %T", ev)
}

// fromRemote keeps only the context the remote stage implies.
// Ids reported by the backend win; ids it omits are taken from the cache when still relevant.
func fromRemote(cached Progress, e RemoteStage) Progress {
	if e.Stage == StageComplete {
		return Progress{Stage: StageComplete}
	}
	next := Progress{Stage: e.Stage}
	if e.Stage >= StageClass {
		next.CampusID, next.CampusName = cached.CampusID, cached.CampusName
		if e.Context.CampusID != "" && e.Context.CampusID != cached.CampusID {
			next.CampusID, next.CampusName = e.Context.CampusID, ""
		}
		if e.Context.CampusName != "" {
			next.CampusName = e.Context.CampusName
		}
	}
	if e.Stage >= StageArm {
		next.ClassID, next.ClassName = cached.ClassID, cached.ClassName
		if e.Context.ClassID != "" && e.Context.ClassID != cached.ClassID {
			next.ClassID, next.ClassName = e.Context.ClassID, ""
		}
		if e.Context.ClassName != "" {
			next.ClassName = e.Context.ClassName
		}
	}
	return next
}
