package usecase

import (
	"context"
	"testing"
	"time"

	"levelup/model"
	"levelup/repository"
	"levelup/services"
	"levelup/test/testutils"

	"github.com/stretchr/testify/require"
)

const (
	testUser     = "hero"
	testPassword = "s3cret!"
)

type testEnv struct {
	fake   *testutils.FakeService
	repo   *repository.ProgressionRepo
	store  *services.MemoryCredentialStore
	engine *Engine
}

func newTestEnv(t *testing.T, interval time.Duration) *testEnv {
	t.Helper()

	fake := testutils.NewFakeService(t)
	fake.AddUser(testUser, testPassword)

	env := &testEnv{fake: fake, store: services.NewMemoryCredentialStore()}
	env.engine = env.newEngine(t, interval)
	return env
}

// newEngine builds another engine against the same service and store, as a
// restarted process would.
func (e *testEnv) newEngine(t *testing.T, interval time.Duration) *Engine {
	t.Helper()

	repo, err := repository.NewProgressionRepo(e.fake.URL(), 2*time.Second, nil)
	require.NoError(t, err)
	e.repo = repo

	engine := NewEngine(repo, e.store, Options{
		RefreshInterval: interval,
		NotificationTTL: time.Minute,
	})
	t.Cleanup(engine.Close)
	return engine
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	err := e.engine.Auth.Login(context.Background(), model.LoginCredentials{
		Username: testUser,
		Password: testPassword,
	})
	require.NoError(t, err)
	require.True(t, e.engine.Auth.Authenticated())
}

func findNotification(list []model.Notification, title string) (model.Notification, bool) {
	for _, n := range list {
		if n.Title == title {
			return n, true
		}
	}
	return model.Notification{}, false
}

func titles(list []model.Notification) []string {
	out := make([]string, len(list))
	for i, n := range list {
		out[i] = n.Title
	}
	return out
}

func levelUpShown(engine *Engine) bool {
	shown, _ := engine.LevelUp.State()
	return shown
}
