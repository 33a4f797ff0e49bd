package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"levelup/dto"
	"levelup/middleware"
	"levelup/model"
	"levelup/repository"
	"levelup/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errMissingUser = errors.New("response did not include a user")

// AuthSession owns the session and its lifecycle. Everything scoped to a
// session is attached to it and is initialised and torn down from here.
type AuthSession struct {
	api      ProgressionAPI
	store    CredentialStore
	notifier Notifier
	logger   *zap.Logger
	profile  string
	now      func() time.Time

	mu         sync.RWMutex
	session    model.Session
	lifecycles []Lifecycle
}

func NewAuthSession(api ProgressionAPI, store CredentialStore, notifier Notifier, logger *zap.Logger, profile string) *AuthSession {
	return &AuthSession{
		api:      api,
		store:    store,
		notifier: notifier,
		logger:   utils.OrNop(logger),
		profile:  profile,
		now:      time.Now,
	}
}

// Attach registers session-scoped components. Teardown runs in attach order.
func (s *AuthSession) Attach(lifecycles ...Lifecycle) {
	s.mu.Lock()
	s.lifecycles = append(s.lifecycles, lifecycles...)
	s.mu.Unlock()
}

func (s *AuthSession) Session() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := s.session
	if sess.User != nil {
		user := *sess.User
		sess.User = &user
	}
	return sess
}

func (s *AuthSession) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Authenticated
}

func (s *AuthSession) User() *model.UserIdentity {
	return s.Session().User
}

// Valid is false once the session is gone or its token has expired.
func (s *AuthSession) Valid() bool {
	return s.Session().Valid(s.now())
}

// CheckExisting resumes a session the service still recognises. Failure
// is silent: the caller simply stays logged out. The stored credential is
// only discarded once the service has rejected it, so an outage does not
// log the user out for good.
func (s *AuthSession) CheckExisting(ctx context.Context) error {
	if s.Authenticated() {
		return nil
	}

	if s.store != nil {
		cred, err := s.store.Load(ctx, s.profile)
		if err != nil {
			s.logger.Warn("failed to load stored credential", zap.Error(err))
		} else if cred != nil {
			s.api.RestoreCredential(*cred)
		}
	}

	resp, err := s.api.Me(ctx)
	if err == nil && (resp == nil || resp.User == nil) {
		err = errMissingUser
	}
	if err != nil {
		middleware.TrackAuthAttempt("failure", "check")
		s.logger.Info("no existing session", zap.Error(err))
		if repository.IsUnauthorized(err) || errors.Is(err, errMissingUser) {
			s.forgetCredential(ctx)
		} else {
			s.api.ClearCredential()
		}
		return err
	}

	middleware.TrackAuthAttempt("success", "check")
	user := s.begin(ctx, resp)
	s.logger.Info("resumed session", zap.String("username", user.Username))
	return nil
}

func (s *AuthSession) Login(ctx context.Context, creds model.LoginCredentials) error {
	if err := utils.Validator().Struct(creds); err != nil {
		middleware.TrackAuthAttempt("invalid", "login")
		verr := &ValidationError{Field: "credentials", Message: "Username and password are required"}
		s.notifier.Push("Login Failed", verr.Message, model.KindError)
		return verr
	}

	resp, err := s.api.Login(ctx, dto.LoginRequest{
		Username: creds.Username,
		Password: creds.Password,
	})
	if err == nil && resp.User == nil {
		err = errMissingUser
	}
	if err != nil {
		middleware.TrackAuthAttempt("failure", "login")
		s.logger.Warn("login failed", zap.String("username", creds.Username), zap.Error(err))
		s.notifier.Push("Login Failed", UserMessage(err, "Invalid username or password"), model.KindError)
		return err
	}

	middleware.TrackAuthAttempt("success", "login")
	user := s.begin(ctx, resp)
	s.notifier.Push("Welcome back!", fmt.Sprintf("You are now logged in as %s", user.Username), model.KindSuccess)
	return nil
}

// Register requires at least one non-blank improvement goal and sends only
// the non-blank ones.
func (s *AuthSession) Register(ctx context.Context, profile model.RegisterProfile, improvementGoals []string) error {
	goals := model.FilterGoals(improvementGoals)
	if len(goals) == 0 {
		middleware.TrackAuthAttempt("invalid", "register")
		verr := &ValidationError{Field: "improvement_goals", Message: "Please add at least one improvement goal"}
		s.notifier.Push("Registration Error", verr.Message, model.KindError)
		return verr
	}
	if err := utils.Validator().Struct(profile); err != nil {
		middleware.TrackAuthAttempt("invalid", "register")
		verr := &ValidationError{Field: "profile", Message: "Username, email and password are required"}
		s.notifier.Push("Registration Error", verr.Message, model.KindError)
		return verr
	}

	resp, err := s.api.Register(ctx, dto.RegisterRequest{
		Username:         profile.Username,
		Email:            profile.Email,
		Password:         profile.Password,
		ImprovementGoals: goals,
	})
	if err == nil && resp.User == nil {
		err = errMissingUser
	}
	if err != nil {
		middleware.TrackAuthAttempt("failure", "register")
		s.logger.Warn("registration failed", zap.String("username", profile.Username), zap.Error(err))
		s.notifier.Push("Registration Failed", UserMessage(err, "Could not create account"), model.KindError)
		return err
	}

	middleware.TrackAuthAttempt("success", "register")
	s.begin(ctx, resp)
	s.notifier.Push("Registration Successful", "Your account has been created with your improvement goals!", model.KindSuccess)
	return nil
}

// Logout always ends the local session. A failed request is logged and
// returned but never retried or shown to the user.
func (s *AuthSession) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)
	if err != nil {
		s.logger.Warn("logout request failed; clearing local session anyway", zap.Error(err))
	}

	s.end(0)
	s.forgetCredential(ctx)

	if err == nil {
		s.notifier.Push("Logged Out", "You have been logged out successfully", model.KindInfo)
	}
	return err
}

// Expire ends the session of the given generation once the service no
// longer honours it. A session started since then is left alone.
func (s *AuthSession) Expire(generation uint64) {
	if !s.end(generation) {
		return
	}
	s.forgetCredential(context.Background())
	s.logger.Info("session expired")
	s.notifier.Push("Session Expired", "Please log in again", model.KindInfo)
}

// Close tears the session down locally and keeps the stored credential so
// the next run can resume it.
func (s *AuthSession) Close() {
	s.end(0)
}

func (s *AuthSession) begin(ctx context.Context, resp *dto.AuthResponse) *model.UserIdentity {
	if s.Authenticated() {
		s.end(0)
	}

	if resp.Token != "" {
		s.api.SetToken(resp.Token)
	}

	var expiresAt time.Time
	if token := s.api.Credential().Token; token != "" {
		exp, err := utils.TokenExpiry(token)
		if err != nil {
			s.logger.Warn("could not read token expiry", zap.Error(err))
		}
		expiresAt = exp
	}

	user := dto.ToUserIdentity(resp.User)

	s.mu.Lock()
	s.session = model.Session{
		Authenticated: true,
		User:          user,
		ExpiresAt:     expiresAt,
		Generation:    s.session.Generation + 1,
	}
	lifecycles := append([]Lifecycle(nil), s.lifecycles...)
	s.mu.Unlock()

	middleware.SetSessionActive(true)
	s.persistCredential(ctx, expiresAt)

	// Initial loads are independent; each reports its own failure to the user.
	var g errgroup.Group
	for _, l := range lifecycles {
		g.Go(func() error { return l.Init(ctx) })
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("initial load incomplete", zap.Error(err))
	}

	return user
}

// end clears the session and tears down every attached component. A
// non-zero generation only ends that session. It reports false when
// nothing was ended.
func (s *AuthSession) end(generation uint64) bool {
	s.mu.Lock()
	if !s.session.Authenticated || (generation != 0 && s.session.Generation != generation) {
		s.mu.Unlock()
		return false
	}
	s.session = model.Session{Generation: s.session.Generation + 1}
	lifecycles := append([]Lifecycle(nil), s.lifecycles...)
	s.mu.Unlock()

	middleware.SetSessionActive(false)
	for _, l := range lifecycles {
		l.Teardown()
	}
	return true
}

func (s *AuthSession) persistCredential(ctx context.Context, expiresAt time.Time) {
	if s.store == nil {
		return
	}
	cred := s.api.Credential()
	if cred.Empty() {
		return
	}
	cred.ExpiresAt = expiresAt
	if err := s.store.Save(ctx, s.profile, cred); err != nil {
		s.logger.Warn("failed to store credential", zap.Error(err))
	}
}

func (s *AuthSession) forgetCredential(ctx context.Context) {
	s.api.ClearCredential()
	if s.store == nil {
		return
	}
	if err := s.store.Delete(ctx, s.profile); err != nil {
		s.logger.Warn("failed to delete stored credential", zap.Error(err))
	}
}
