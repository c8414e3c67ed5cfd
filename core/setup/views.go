package setup

import (
	"context"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-setup/core"
)

// ViewDeps are shared by every Stage View.
type ViewDeps struct {
	Resolver   *Resolver
	Remote     Remote
	Notifier   Notifier
	Validate   *validator.Validate
	Translator ut.Translator
}

// view holds the submit state of a rendered Stage View.
type view struct {
	ViewDeps

	mu      sync.Mutex
	pending bool
	closed  bool
}

// begin disables the submit control; a second submit while a request is in flight fails.
func (v *view) begin() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrViewClosed
	}
	if v.pending {
		return ErrSubmitPending
	}
	v.pending = true
	return nil
}

func (v *view) end() {
	v.mu.Lock()
	v.pending = false
	v.mu.Unlock()
}

// Close unmounts the view: results of requests still in flight are discarded.
func (v *view) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}

// Pending reports whether a submission is in flight.
func (v *view) Pending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending
}

func (v *view) mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.closed
}

func (v *view) invalid(err error) error {
	if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
		v.Notifier.Error("Please correct the highlighted fields.", vErr.FieldMap())
	} else {
		v.Notifier.Error(GenericFailureMessage)
	}
	return err
}

// complete runs after the create request returned; it is a no-op on an unmounted view.
func (v *view) complete(ctx context.Context, ent CreatedEntity, err error, next Stage, patch func(CreatedEntity) Patch) error {
	if !v.mounted() {
		return ErrViewClosed
	}
	if err != nil {
		v.Notifier.Error(failureMessage(err))
		return err
	}
	if err = v.Resolver.Advance(ctx, next, patch(ent)); err != nil {
		v.Notifier.Error(GenericFailureMessage)
		return err
	}
	return nil
}

// CampusView is the first stage: it needs no previous entity.
type CampusView struct {
	view
}

func NewCampusView(deps ViewDeps) *CampusView {
	return &CampusView{view: view{ViewDeps: deps}}
}

func (v *CampusView) Submit(ctx context.Context, form NewCampus) error {
	if err := v.begin(); err != nil {
		return err
	}
	defer v.end()

	if err := form.Validate(v.Validate, v.Translator); err != nil {
		return v.invalid(err)
	}
	ent, err := v.Remote.CreateCampus(ctx, form)
	if err != nil {
		err = errors.Wrap(err, "creating campus")
	}
	return v.complete(ctx, ent, err, StageClass, func(ent CreatedEntity) Patch {
		return Patch{CampusID: ent.EntityID, CampusName: ent.EntityName}
	})
}

// ClassView creates a class in the campus created by the previous stage.
type ClassView struct {
	view
	CampusID   string
	CampusName string
}

func NewClassView(deps ViewDeps, campusID, campusName string) *ClassView {
	return &ClassView{view: view{ViewDeps: deps}, CampusID: campusID, CampusName: campusName}
}

func (v *ClassView) Submit(ctx context.Context, form NewClass) error {
	if err := v.begin(); err != nil {
		return err
	}
	defer v.end()

	if form.CampusID == "" {
		form.CampusID = v.CampusID
	}
	if err := form.Validate(v.Validate, v.Translator); err != nil {
		return v.invalid(err)
	}
	ent, err := v.Remote.CreateClass(ctx, form)
	if err != nil {
		err = errors.Wrap(err, "creating class")
	}
	return v.complete(ctx, ent, err, StageArm, func(ent CreatedEntity) Patch {
		return Patch{ClassID: ent.EntityID, ClassName: ent.EntityName}
	})
}

// Back returns to the Campus form.
func (v *ClassView) Back(ctx context.Context) error {
	return v.Resolver.Retreat(ctx, StageCampus)
}

// ArmView creates an arm of the class created by the previous stage.
type ArmView struct {
	view
	ClassID   string
	ClassName string
}

func NewArmView(deps ViewDeps, classID, className string) *ArmView {
	return &ArmView{view: view{ViewDeps: deps}, ClassID: classID, ClassName: className}
}

func (v *ArmView) Submit(ctx context.Context, form NewArm) error {
	if err := v.begin(); err != nil {
		return err
	}
	defer v.end()

	if form.ClassID == "" {
		form.ClassID = v.ClassID
	}
	if err := form.Validate(v.Validate, v.Translator); err != nil {
		return v.invalid(err)
	}
	ent, err := v.Remote.CreateArm(ctx, form)
	if err != nil {
		err = errors.Wrap(err, "creating arm")
	}
	return v.complete(ctx, ent, err, StageComplete, func(CreatedEntity) Patch { return Patch{} })
}

// Back returns to the Class form.
func (v *ArmView) Back(ctx context.Context) error {
	return v.Resolver.Retreat(ctx, StageClass)
}

// CompletionView confirms the setup and leads to the dashboard.
type CompletionView struct {
	resolver *Resolver
}

func NewCompletionView(resolver *Resolver) *CompletionView {
	return &CompletionView{resolver: resolver}
}

func (v *CompletionView) Proceed(ctx context.Context) error {
	return v.resolver.Finish(ctx)
}
