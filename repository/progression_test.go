package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"levelup/dto"
	"levelup/test/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T, url string) *ProgressionRepo {
	t.Helper()
	repo, err := NewProgressionRepo(url, 2*time.Second, nil)
	require.NoError(t, err)
	return repo
}

func TestProgressionRepoSession(t *testing.T) {
	fake := testutils.NewFakeService(t)
	fake.AddUser("hero", "s3cret!")
	repo := newRepo(t, fake.URL())
	ctx := context.Background()

	_, err := repo.Me(ctx)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	resp, err := repo.Login(ctx, dto.LoginRequest{Username: "hero", Password: "s3cret!"})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, "hero", resp.User.Username)

	cred := repo.Credential()
	require.Len(t, cred.Cookies, 1)
	assert.Equal(t, testutils.SessionCookie, cred.Cookies[0].Name)

	me, err := repo.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hero", me.User.Username)

	// A second client resumes with the saved cookies.
	other := newRepo(t, fake.URL())
	other.RestoreCredential(cred)
	_, err = other.Me(ctx)
	require.NoError(t, err)

	repo.ClearCredential()
	assert.True(t, repo.Credential().Empty())
	_, err = repo.Me(ctx)
	assert.True(t, IsUnauthorized(err))
}

func TestProgressionRepoEndpoints(t *testing.T) {
	fake := testutils.NewFakeService(t)
	fake.AddUser("hero", "s3cret!")
	repo := newRepo(t, fake.URL())
	ctx := context.Background()

	_, err := repo.Login(ctx, dto.LoginRequest{Username: "hero", Password: "s3cret!"})
	require.NoError(t, err)

	goal, err := repo.CreateGoal(ctx, dto.CreateGoalRequest{Description: "Read more", Category: "mind"})
	require.NoError(t, err)
	assert.NotEmpty(t, goal.ID)

	goals, err := repo.Goals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)

	require.NoError(t, repo.DeleteGoal(ctx, goal.ID))
	err = repo.DeleteGoal(ctx, goal.ID)
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusNotFound, remote.Status)
	assert.Equal(t, "Goal "+goal.ID+" not found", ServerMessage(err))

	newLevel := 3
	fake.SetCompletion(dto.CompleteQuestResponse{XPGained: 50, LevelUp: true, NewLevel: &newLevel, PointsGained: 3})
	completion, err := repo.CompleteQuest(ctx, "quest 1")
	require.NoError(t, err)
	assert.True(t, completion.LevelUp)
	require.NotNil(t, completion.NewLevel)
	assert.Equal(t, 3, *completion.NewLevel)

	quest, err := repo.GenerateSampleQuest(ctx, "Improve yourself")
	require.NoError(t, err)
	require.NotNil(t, quest.Quest)

	require.NoError(t, repo.MarkNotificationsRead(ctx, []string{"n1"}))
	assert.Equal(t, [][]string{{"n1"}}, fake.MarkedRead())

	require.NoError(t, repo.Logout(ctx))
	_, err = repo.Dashboard(ctx)
	assert.True(t, IsUnauthorized(err))
}

func TestProgressionRepoHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var gotAuth, gotRequestID, gotContentType string

	router := gin.New()
	router.POST("/api/level/allocate", func(c *gin.Context) {
		gotAuth = c.GetHeader("Authorization")
		gotRequestID = c.GetHeader("X-Request-ID")
		gotContentType = c.GetHeader("Content-Type")
		c.JSON(http.StatusOK, dto.AllocateResponse{Stats: map[string]float64{"focus": 2}, AvailablePoints: 0})
	})
	server := httptest.NewServer(router)
	defer server.Close()

	repo := newRepo(t, server.URL+"/")
	repo.SetToken("abc.def.ghi")

	resp, err := repo.AllocatePoint(context.Background(), dto.AllocateRequest{Stat: "focus", Points: 1})
	require.NoError(t, err)
	assert.Equal(t, 2.0, resp.Stats["focus"])

	assert.Equal(t, "Bearer abc.def.ghi", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "application/json", gotContentType)
}

func TestProgressionRepoTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	repo := newRepo(t, url)
	_, err := repo.Dashboard(context.Background())
	require.Error(t, err)

	var remote *RemoteError
	assert.False(t, errors.As(err, &remote))
	assert.Equal(t, "", ServerMessage(err))
}

func TestRemoteErrorMessage(t *testing.T) {
	assert.Equal(t, "progression service returned 500", (&RemoteError{Status: 500}).Error())
	assert.Equal(t, "progression service returned 400: bad", (&RemoteError{Status: 400, Message: "bad"}).Error())
	assert.False(t, IsUnauthorized(&RemoteError{Status: http.StatusForbidden}))
}
