package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"levelup/dto"
	"levelup/middleware"
	"levelup/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProgressionRepo is the typed client of the remote progression service.
// The service keeps the session in a cookie; deployments that issue
// bearer tokens are supported through SetToken.
type ProgressionRepo struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger

	mu    sync.RWMutex
	token string
}

func NewProgressionRepo(baseURL string, timeout time.Duration, logger *zap.Logger) (*ProgressionRepo, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid progression service URL: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressionRepo{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
		logger:     logger,
	}, nil
}

// do sends one JSON request. route is the templated path used as the
// metrics label; path is the concrete one.
func (r *ProgressionRepo) do(ctx context.Context, method, route, path string, in, out interface{}) error {
	timer := middleware.TrackRemoteCall(method, route)
	defer timer.ObserveDuration()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", route, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL.String()+path, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", route, err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := r.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		middleware.CountRemoteCall(route, "transport")
		return fmt.Errorf("%s %s failed: %w", method, route, err)
	}
	defer resp.Body.Close()
	middleware.CountRemoteCall(route, strconv.Itoa(resp.StatusCode))

	r.logger.Debug("progression call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp dto.ErrorResponse
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if len(data) > 0 {
			_ = json.Unmarshal(data, &errResp)
		}
		return &RemoteError{Status: resp.StatusCode, Message: errResp.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s %s: empty response body", method, route)
		}
		return fmt.Errorf("failed to decode %s response: %w", route, err)
	}
	return nil
}

func (r *ProgressionRepo) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := r.do(ctx, http.MethodPost, "/api/login", "/api/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ProgressionRepo) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := r.do(ctx, http.MethodPost, "/api/register", "/api/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ProgressionRepo) Logout(ctx context.Context) error {
	return r.do(ctx, http.MethodPost, "/api/logout", "/api/logout", nil, nil)
}

func (r *ProgressionRepo) Me(ctx context.Context) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := r.do(ctx, http.MethodGet, "/api/me", "/api/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ProgressionRepo) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	var resp dto.DashboardResponse
	if err := r.do(ctx, http.MethodGet, "/api/dashboard", "/api/dashboard", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ProgressionRepo) MarkNotificationsRead(ctx context.Context, ids []string) error {
	req := dto.MarkReadRequest{NotificationIDs: ids}
	return r.do(ctx, http.MethodPost, "/api/notifications/mark-read", "/api/notifications/mark-read", req, nil)
}

func (r *ProgressionRepo) Goals(ctx context.Context) ([]dto.GoalRecord, error) {
	var resp dto.GoalsResponse
	if err := r.do(ctx, http.MethodGet, "/api/goals", "/api/goals", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Goals, nil
}

func (r *ProgressionRepo) CreateGoal(ctx context.Context, req dto.CreateGoalRequest) (*dto.GoalRecord, error) {
	var resp dto.GoalResponse
	if err := r.do(ctx, http.MethodPost, "/api/goals", "/api/goals", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Goal, nil
}

func (r *ProgressionRepo) DeleteGoal(ctx context.Context, goalID string) error {
	path := "/api/goals/" + url.PathEscape(goalID)
	return r.do(ctx, http.MethodDelete, "/api/goals/{id}", path, nil, nil)
}

func (r *ProgressionRepo) CompleteQuest(ctx context.Context, questID string) (*dto.CompleteQuestResponse, error) {
	var resp dto.CompleteQuestResponse
	path := "/api/quests/" + url.PathEscape(questID) + "/complete"
	if err := r.do(ctx, http.MethodPost, "/api/quests/{id}/complete", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ProgressionRepo) FailQuest(ctx context.Context, questID string) (*dto.FailQuestResponse, error) {
	var resp dto.FailQuestResponse
	path := "/api/quests/" + url.PathEscape(questID) + "/fail"
	if err := r.do(ctx, http.MethodPost, "/api/quests/{id}/fail", path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ProgressionRepo) GenerateSampleQuest(ctx context.Context, goal string) (*dto.GenerateQuestResponse, error) {
	var resp dto.GenerateQuestResponse
	req := dto.GenerateQuestRequest{Goal: goal}
	if err := r.do(ctx, http.MethodPost, "/api/generate-sample-quest", "/api/generate-sample-quest", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ProgressionRepo) GenerateQuest(ctx context.Context, goal string) (*dto.GenerateQuestResponse, error) {
	var resp dto.GenerateQuestResponse
	req := dto.GenerateQuestRequest{Goal: goal}
	if err := r.do(ctx, http.MethodPost, "/api/generate-quest", "/api/generate-quest", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ProgressionRepo) AllocatePoint(ctx context.Context, req dto.AllocateRequest) (*dto.AllocateResponse, error) {
	var resp dto.AllocateResponse
	if err := r.do(ctx, http.MethodPost, "/api/level/allocate", "/api/level/allocate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ProgressionRepo) Token() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.token
}

func (r *ProgressionRepo) SetToken(token string) {
	r.mu.Lock()
	r.token = token
	r.mu.Unlock()
}

// Credential captures the current token and the session cookies for the
// service's origin.
func (r *ProgressionRepo) Credential() model.Credential {
	return model.Credential{
		Token:   r.Token(),
		Cookies: r.httpClient.Jar.Cookies(r.baseURL),
	}
}

func (r *ProgressionRepo) RestoreCredential(cred model.Credential) {
	r.SetToken(cred.Token)
	if len(cred.Cookies) > 0 {
		r.httpClient.Jar.SetCookies(r.baseURL, cred.Cookies)
	}
}

// ClearCredential forgets the token and expires every cookie the jar holds
// for the service.
func (r *ProgressionRepo) ClearCredential() {
	r.SetToken("")
	cookies := r.httpClient.Jar.Cookies(r.baseURL)
	expired := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		expired = append(expired, &http.Cookie{Name: c.Name, Value: "", Path: "/", MaxAge: -1})
	}
	if len(expired) > 0 {
		r.httpClient.Jar.SetCookies(r.baseURL, expired)
	}
}
