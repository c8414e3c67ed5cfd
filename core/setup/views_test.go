package setup_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/setup"
)

func validCampus() setup.NewCampus {
	return setup.NewCampus{
		Name:        "Main Campus",
		Address:     "1 School Road",
		City:        "Nairobi",
		State:       "Nairobi",
		Country:     "Kenya",
		PhoneNumber: "+254 700 000000",
		Capacity:    500,
	}
}

func (f *fixture) viewDeps() setup.ViewDeps {
	translator := core.NewTranslator()
	return setup.ViewDeps{
		Resolver:   f.resolver,
		Remote:     f.remote,
		Notifier:   f.notifier,
		Validate:   core.NewValidator(translator),
		Translator: translator,
	}
}

func TestCampusView_Submit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true, map[string]string{setup.KeyProgress: "0"})
	f.remote.entity = setup.CreatedEntity{EntityID: "c1", EntityName: "Main Campus"}
	view := setup.NewCampusView(f.viewDeps())

	require.NoError(t, view.Submit(ctx, validCampus()))
	assert.Equal(t, setup.Progress{Stage: setup.StageClass, CampusID: "c1", CampusName: "Main Campus"}, f.resolver.Current())
	assert.Equal(t, "c1", f.setupState()[setup.KeyCampusID])
	assert.False(t, view.Pending())
}

func TestCampusView_InvalidForm(t *testing.T) {
	f := newFixture(true, nil)
	view := setup.NewCampusView(f.viewDeps())

	form := validCampus()
	form.Name = "   "
	form.PhoneNumber = "call me"
	form.Capacity = 0
	err := view.Submit(context.Background(), form)

	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok, "got %v", err)
	assert.Len(t, vErr.Fields, 3)
	assert.Equal(t, 0, f.remote.createCalls, "nothing is sent when the form is invalid")

	n, ok := f.notifier.last("error")
	require.True(t, ok)
	assert.Equal(t, "this field is required", n.fields["name"])
	assert.Equal(t, "enter a valid phone number", n.fields["phoneNumber"])
	assert.Equal(t, "this field is required", n.fields["capacity"])
}

func TestCampusView_CreateFailure(t *testing.T) {
	f := newFixture(true, map[string]string{setup.KeyProgress: "0"})
	f.remote.createErr = &setup.ServerError{Status: 409, Message: "Name already exists"}
	before := f.setupState()
	view := setup.NewCampusView(f.viewDeps())

	err := view.Submit(context.Background(), validCampus())
	require.Error(t, err)
	assert.Equal(t, setup.StageCampus, f.resolver.Current().Stage)
	assert.Equal(t, before, f.setupState())

	n, ok := f.notifier.last("error")
	require.True(t, ok)
	assert.Equal(t, "Name already exists", n.msg)

	f.remote.createErr = errors.New("connection reset")
	require.Error(t, view.Submit(context.Background(), validCampus()))
	n, _ = f.notifier.last("error")
	assert.Equal(t, setup.GenericFailureMessage, n.msg)
}

func TestCampusView_AdvanceFailure(t *testing.T) {
	f := newFixture(true, map[string]string{setup.KeyProgress: "0"})
	f.remote.entity = setup.CreatedEntity{}
	before := f.setupState()
	view := setup.NewCampusView(f.viewDeps())

	err := view.Submit(context.Background(), validCampus())
	assert.Equal(t, setup.ErrInconsistentProgress, errors.Cause(err))
	assert.Equal(t, setup.StageCampus, f.resolver.Current().Stage)
	assert.Equal(t, before, f.setupState())

	n, ok := f.notifier.last("error")
	require.True(t, ok)
	assert.Equal(t, setup.GenericFailureMessage, n.msg)
}

func TestCampusView_SubmitPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true, nil)
	f.remote.entity = setup.CreatedEntity{EntityID: "c1", EntityName: "Main Campus"}
	f.remote.release = make(chan struct{})
	f.remote.started = make(chan struct{}, 1)
	view := setup.NewCampusView(f.viewDeps())

	done := make(chan error, 1)
	go func() { done <- view.Submit(ctx, validCampus()) }()
	<-f.remote.started

	assert.True(t, view.Pending())
	assert.Equal(t, setup.ErrSubmitPending, view.Submit(ctx, validCampus()))

	close(f.remote.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.remote.createCalls)
	assert.Equal(t, setup.StageClass, f.resolver.Current().Stage)
}

func TestCampusView_ClosedWhileInFlight(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true, nil)
	f.remote.entity = setup.CreatedEntity{EntityID: "c1", EntityName: "Main Campus"}
	f.remote.release = make(chan struct{})
	f.remote.started = make(chan struct{}, 1)
	view := setup.NewCampusView(f.viewDeps())

	done := make(chan error, 1)
	go func() { done <- view.Submit(ctx, validCampus()) }()
	<-f.remote.started
	view.Close()
	close(f.remote.release)

	assert.Equal(t, setup.ErrViewClosed, <-done)
	assert.Equal(t, setup.StageCampus, f.resolver.Current().Stage, "the result is discarded")
	assert.Empty(t, f.setupState())
	assert.Equal(t, setup.ErrViewClosed, view.Submit(ctx, validCampus()))
}

func TestClassView(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true, nil)
	require.NoError(t, f.resolver.Advance(ctx, setup.StageClass, setup.Patch{CampusID: "c1", CampusName: "Main"}))
	f.remote.entity = setup.CreatedEntity{EntityID: "k1", EntityName: "Grade 1"}
	view := setup.NewClassView(f.viewDeps(), "c1", "Main")

	require.NoError(t, view.Submit(ctx, setup.NewClass{Name: " Grade 1 "}))
	require.Len(t, f.remote.classes, 1)
	assert.Equal(t, setup.NewClass{Name: "Grade 1", CampusID: "c1"}, f.remote.classes[0])
	assert.Equal(t, setup.Progress{
		Stage: setup.StageArm, CampusID: "c1", CampusName: "Main", ClassID: "k1", ClassName: "Grade 1",
	}, f.resolver.Current())
}

func TestClassView_Back(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true, nil)
	require.NoError(t, f.resolver.Advance(ctx, setup.StageClass, setup.Patch{CampusID: "c1", CampusName: "Main"}))
	view := setup.NewClassView(f.viewDeps(), "c1", "Main")

	require.NoError(t, view.Back(ctx))
	assert.Equal(t, setup.StageCampus, f.resolver.Current().Stage)
	assert.Equal(t, 0, f.remote.calls(), "going back sends nothing")
	assert.Equal(t, "c1", f.setupState()[setup.KeyCampusID])
}

func TestArmView_Created(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true, nil)
	require.NoError(t, f.resolver.Advance(ctx, setup.StageClass, setup.Patch{CampusID: "c1", CampusName: "Main"}))
	require.NoError(t, f.resolver.Advance(ctx, setup.StageArm, setup.Patch{ClassID: "k1", ClassName: "Grade 1"}))
	f.remote.entity = setup.CreatedEntity{EntityID: "a1", EntityName: "A"}
	view := setup.NewArmView(f.viewDeps(), "k1", "Grade 1")

	require.NoError(t, view.Submit(ctx, setup.NewArm{Name: "A"}))
	require.Len(t, f.remote.arms, 1)
	assert.Equal(t, setup.NewArm{ArmName: "A", ClassID: "k1"}, f.remote.arms[0])
	assert.Equal(t, setup.StageComplete, f.resolver.Current().Stage)
	for _, key := range setup.SetupKeys {
		_, ok := f.setupState()[key]
		assert.False(t, ok, key)
	}

	require.NoError(t, setup.NewCompletionView(f.resolver).Proceed(ctx))
	assert.Equal(t, []setup.Destination{setup.DestDashboard}, f.nav.dests)
}

func TestArmView_Back(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true, nil)
	require.NoError(t, f.resolver.Advance(ctx, setup.StageClass, setup.Patch{CampusID: "c1"}))
	require.NoError(t, f.resolver.Advance(ctx, setup.StageArm, setup.Patch{ClassID: "k1"}))
	view := setup.NewArmView(f.viewDeps(), "k1", "Grade 1")

	require.NoError(t, view.Back(ctx))
	assert.Equal(t, setup.StageClass, f.resolver.Current().Stage)
	assert.Equal(t, "k1", f.resolver.Current().ClassID)
}
