package testutils

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"levelup/dto"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const SessionCookie = "session"

type failure struct {
	status  int
	message string
}

// FakeService is an in-process progression service. Routes are keyed as
// "METHOD /api/path/:param", matching gin's full path.
type FakeService struct {
	Server *httptest.Server

	mu        sync.Mutex
	users     map[string]dto.UserRecord
	passwords map[string]string
	sessions  map[string]string
	token     string

	dashboard  dto.DashboardResponse
	goals      []dto.GoalRecord
	completion dto.CompleteQuestResponse
	failQuest  dto.FailQuestResponse
	allocation dto.AllocateResponse
	markedRead [][]string

	failures map[string]failure
	calls    map[string]int
	bodies   map[string][]byte
	holds    map[string]chan struct{}
	nextGoal int
}

func NewFakeService(t *testing.T) *FakeService {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &FakeService{
		users:     make(map[string]dto.UserRecord),
		passwords: make(map[string]string),
		sessions:  make(map[string]string),
		failures:  make(map[string]failure),
		calls:     make(map[string]int),
		bodies:    make(map[string][]byte),
		holds:     make(map[string]chan struct{}),
		dashboard: dto.DashboardResponse{
			Title: "Alone, I Level Up",
			Stats: map[string]float64{"strength": 1, "discipline": 2},
			Level: dto.LevelRecord{Level: 1, NextLevelXP: 1000},
		},
	}
	f.Server = httptest.NewServer(f.router())
	t.Cleanup(f.Close)
	return f
}

// Close stops the server. Held requests are released first.
func (f *FakeService) Close() {
	f.mu.Lock()
	for route, ch := range f.holds {
		close(ch)
		delete(f.holds, route)
	}
	f.mu.Unlock()
	f.Server.Close()
}

func (f *FakeService) URL() string {
	return f.Server.URL
}

func (f *FakeService) AddUser(username, password string) dto.UserRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	user := dto.UserRecord{
		ID:       uuid.New().String(),
		Username: username,
		Email:    username + "@example.com",
		Title:    "Novice",
	}
	f.users[username] = user
	f.passwords[username] = password
	return user
}

// IssueToken makes login and register answer with this bearer token.
func (f *FakeService) IssueToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *FakeService) SetDashboard(resp dto.DashboardResponse) {
	f.mu.Lock()
	f.dashboard = resp
	f.mu.Unlock()
}

func (f *FakeService) SetGoals(goals []dto.GoalRecord) {
	f.mu.Lock()
	f.goals = append([]dto.GoalRecord(nil), goals...)
	f.mu.Unlock()
}

func (f *FakeService) SetCompletion(resp dto.CompleteQuestResponse) {
	f.mu.Lock()
	f.completion = resp
	f.mu.Unlock()
}

func (f *FakeService) SetFailQuest(resp dto.FailQuestResponse) {
	f.mu.Lock()
	f.failQuest = resp
	f.mu.Unlock()
}

func (f *FakeService) SetAllocation(resp dto.AllocateResponse) {
	f.mu.Lock()
	f.allocation = resp
	f.mu.Unlock()
}

// FailWith makes route answer status with {"error": message} until
// cleared.
func (f *FakeService) FailWith(route string, status int, message string) {
	f.mu.Lock()
	f.failures[route] = failure{status: status, message: message}
	f.mu.Unlock()
}

func (f *FakeService) ClearFailure(route string) {
	f.mu.Lock()
	delete(f.failures, route)
	f.mu.Unlock()
}

// Hold blocks requests to route until the returned func is called.
func (f *FakeService) Hold(route string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.holds[route] = ch
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.holds[route] == ch {
				delete(f.holds, route)
				close(ch)
			}
		})
	}
}

func (f *FakeService) Calls(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

func (f *FakeService) LastBody(route string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.bodies[route]...)
}

// MarkedRead returns every batch of acknowledged notification ids.
func (f *FakeService) MarkedRead() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.markedRead...)
}

// SignedToken returns an HS256 bearer token expiring at exp.
func SignedToken(t *testing.T, subject string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString([]byte("test_secret_key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func (f *FakeService) router() *gin.Engine {
	r := gin.New()
	r.Use(f.record())

	r.POST("/api/login", f.login)
	r.POST("/api/register", f.register)
	r.POST("/api/logout", f.logout)
	r.GET("/api/me", f.me)

	auth := r.Group("/api")
	auth.Use(f.requireSession())
	{
		auth.GET("/dashboard", f.getDashboard)
		auth.POST("/notifications/mark-read", f.markRead)
		auth.GET("/goals", f.getGoals)
		auth.POST("/goals", f.createGoal)
		auth.DELETE("/goals/:id", f.deleteGoal)
		auth.POST("/quests/:id/complete", func(c *gin.Context) {
			f.mu.Lock()
			resp := f.completion
			f.mu.Unlock()
			c.JSON(http.StatusOK, resp)
		})
		auth.POST("/quests/:id/fail", func(c *gin.Context) {
			f.mu.Lock()
			resp := f.failQuest
			f.mu.Unlock()
			c.JSON(http.StatusOK, resp)
		})
		auth.POST("/generate-sample-quest", f.generateQuest)
		auth.POST("/generate-quest", f.generateQuest)
		auth.POST("/level/allocate", func(c *gin.Context) {
			f.mu.Lock()
			resp := f.allocation
			f.mu.Unlock()
			c.JSON(http.StatusOK, resp)
		})
	}
	return r
}

// record counts the call, keeps its body and applies injected failures
// and holds.
func (f *FakeService) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.Request.Method + " " + c.FullPath()
		body, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		f.mu.Lock()
		f.calls[route]++
		f.bodies[route] = body
		fail, failing := f.failures[route]
		hold := f.holds[route]
		f.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}
		if failing {
			c.AbortWithStatusJSON(fail.status, dto.ErrorResponse{Error: fail.message})
			return
		}
		c.Next()
	}
}

func (f *FakeService) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := f.sessionUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Not authenticated"})
			return
		}
		c.Next()
	}
}

func (f *FakeService) sessionUser(c *gin.Context) (dto.UserRecord, bool) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return dto.UserRecord{}, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	username, ok := f.sessions[cookie]
	if !ok {
		return dto.UserRecord{}, false
	}
	return f.users[username], true
}

func (f *FakeService) startSession(c *gin.Context, user dto.UserRecord) {
	sid := uuid.New().String()
	f.mu.Lock()
	f.sessions[sid] = user.Username
	token := f.token
	f.mu.Unlock()

	c.SetCookie(SessionCookie, sid, 3600, "/", "", false, true)
	c.JSON(http.StatusOK, dto.AuthResponse{Message: "ok", User: &user, Token: token})
}

func (f *FakeService) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid Request"})
		return
	}

	f.mu.Lock()
	user, exists := f.users[req.Username]
	password := f.passwords[req.Username]
	f.mu.Unlock()

	if !exists || password != req.Password {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid credentials"})
		return
	}
	f.startSession(c, user)
}

func (f *FakeService) register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid Request"})
		return
	}

	f.mu.Lock()
	_, exists := f.users[req.Username]
	f.mu.Unlock()
	if exists {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Username already exists"})
		return
	}

	user := f.AddUser(req.Username, req.Password)
	f.startSession(c, user)
}

func (f *FakeService) logout(c *gin.Context) {
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		f.mu.Lock()
		delete(f.sessions, cookie)
		f.mu.Unlock()
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

func (f *FakeService) me(c *gin.Context) {
	user, ok := f.sessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{User: &user})
}

func (f *FakeService) getDashboard(c *gin.Context) {
	f.mu.Lock()
	resp := f.dashboard
	f.mu.Unlock()
	c.JSON(http.StatusOK, resp)
}

// markRead drops acknowledged notifications from later dashboards.
func (f *FakeService) markRead(c *gin.Context) {
	var req dto.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid Request"})
		return
	}

	read := make(map[string]bool, len(req.NotificationIDs))
	for _, id := range req.NotificationIDs {
		read[id] = true
	}

	f.mu.Lock()
	f.markedRead = append(f.markedRead, req.NotificationIDs)
	kept := f.dashboard.Notifications[:0:0]
	for _, n := range f.dashboard.Notifications {
		if !read[n.ID] {
			kept = append(kept, n)
		}
	}
	f.dashboard.Notifications = kept
	f.mu.Unlock()

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Notifications marked as read"})
}

func (f *FakeService) getGoals(c *gin.Context) {
	f.mu.Lock()
	goals := append([]dto.GoalRecord{}, f.goals...)
	f.mu.Unlock()
	c.JSON(http.StatusOK, dto.GoalsResponse{Goals: goals})
}

func (f *FakeService) createGoal(c *gin.Context) {
	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid Request"})
		return
	}

	f.mu.Lock()
	f.nextGoal++
	goal := dto.GoalRecord{
		ID:          "goal-" + strconv.Itoa(f.nextGoal),
		Description: req.Description,
		Category:    req.Category,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	f.goals = append(f.goals, goal)
	f.mu.Unlock()

	c.JSON(http.StatusCreated, dto.GoalResponse{Message: "Goal created", Goal: goal})
}

func (f *FakeService) deleteGoal(c *gin.Context) {
	id := c.Param("id")

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, g := range f.goals {
		if g.ID == id {
			f.goals = append(f.goals[:i], f.goals[i+1:]...)
			c.JSON(http.StatusOK, dto.MessageResponse{Message: "Goal deleted"})
			return
		}
	}
	c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: fmt.Sprintf("Goal %s not found", id)})
}

func (f *FakeService) generateQuest(c *gin.Context) {
	var req dto.GenerateQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid Request"})
		return
	}
	c.JSON(http.StatusOK, dto.GenerateQuestResponse{
		Message: "Quest generated",
		Quest: &dto.QuestRecord{
			ID:          uuid.New().String(),
			Text:        "Work towards: " + req.Goal,
			Difficulty:  1,
			RewardXP:    10,
			PrimaryStat: "discipline",
		},
	})
}
