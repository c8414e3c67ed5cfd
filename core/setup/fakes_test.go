package setup_test

import (
	"context"
	"sync"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/setup"
	inmemstore "github.com/trezcool/masomo-setup/storage/progress/inmem"
)

type fakeRemote struct {
	mu sync.Mutex

	complete    bool
	statusErr   error
	report      setup.ProgressReport
	progressErr error
	entity      setup.CreatedEntity
	createErr   error

	// release, when set, blocks create calls until it is closed
	release chan struct{}
	started chan struct{}

	statusCalls   int
	progressCalls int
	createCalls   int
	campuses      []setup.NewCampus
	classes       []setup.NewClass
	arms          []setup.NewArm
}

var _ setup.Remote = (*fakeRemote)(nil)

func (r *fakeRemote) SetupStatus(context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusCalls++
	return r.complete, r.statusErr
}

func (r *fakeRemote) SetupProgress(context.Context) (setup.ProgressReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progressCalls++
	return r.report, r.progressErr
}

func (r *fakeRemote) create() (setup.CreatedEntity, error) {
	r.mu.Lock()
	r.createCalls++
	release, started := r.release, r.started
	r.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.entity, r.createErr
}

func (r *fakeRemote) CreateCampus(_ context.Context, nc setup.NewCampus) (setup.CreatedEntity, error) {
	r.mu.Lock()
	r.campuses = append(r.campuses, nc)
	r.mu.Unlock()
	return r.create()
}

func (r *fakeRemote) CreateClass(_ context.Context, nc setup.NewClass) (setup.CreatedEntity, error) {
	r.mu.Lock()
	r.classes = append(r.classes, nc)
	r.mu.Unlock()
	return r.create()
}

func (r *fakeRemote) CreateArm(_ context.Context, na setup.NewArm) (setup.CreatedEntity, error) {
	r.mu.Lock()
	r.arms = append(r.arms, na)
	r.mu.Unlock()
	return r.create()
}

func (r *fakeRemote) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statusCalls + r.progressCalls + r.createCalls
}

type notice struct {
	level  string
	msg    string
	fields map[string]string
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []notice
}

func (n *fakeNotifier) add(level, msg string, fields map[string]string) {
	n.mu.Lock()
	n.notices = append(n.notices, notice{level, msg, fields})
	n.mu.Unlock()
}

func (n *fakeNotifier) Info(msg string) { n.add("info", msg, nil) }
func (n *fakeNotifier) Warn(msg string) { n.add("warn", msg, nil) }
func (n *fakeNotifier) Error(msg string, fields ...map[string]string) {
	var f map[string]string
	if len(fields) > 0 {
		f = fields[0]
	}
	n.add("error", msg, f)
}

func (n *fakeNotifier) last(level string) (notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.notices) - 1; i >= 0; i-- {
		if n.notices[i].level == level {
			return n.notices[i], true
		}
	}
	return notice{}, false
}

type fakeNavigator struct {
	dests []setup.Destination
}

func (n *fakeNavigator) Navigate(dest setup.Destination) { n.dests = append(n.dests, dest) }

type nopLogger struct{}

var _ core.Logger = nopLogger{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type fixture struct {
	store    *inmemstore.Store
	remote   *fakeRemote
	notifier *fakeNotifier
	nav      *fakeNavigator
	resolver *setup.Resolver
}

// newFixture returns a resolver with a signed in session.
func newFixture(signedIn bool, cached map[string]string) *fixture {
	ctx := context.Background()
	f := &fixture{
		store:    inmemstore.New(),
		remote:   &fakeRemote{},
		notifier: &fakeNotifier{},
		nav:      &fakeNavigator{},
	}
	session := setup.StoreSession{Store: f.store}
	if signedIn {
		_ = session.SignIn(ctx, "token", setup.UserInfo{Name: "Admin", SchoolName: "Green Hills"})
	}
	for k, v := range cached {
		_ = f.store.Set(ctx, k, v)
	}
	f.resolver = setup.NewResolver(setup.Deps{
		Store:     f.store,
		Remote:    f.remote,
		Session:   session,
		Notifier:  f.notifier,
		Navigator: f.nav,
		Logger:    nopLogger{},
	})
	return f
}

// setupState returns the setup keys currently persisted.
func (f *fixture) setupState() map[string]string {
	snap := f.store.Snapshot()
	state := make(map[string]string)
	for _, k := range append(setup.SetupKeys, setup.KeyIsSetupComplete) {
		if v, ok := snap[k]; ok {
			state[k] = v
		}
	}
	return state
}
