package usecase

import (
	"context"
	"sync"

	"levelup/model"
)

// LevelUpPresenter is the one-shot level-up presentation. Only a quest
// completion that reports a level-up shows it; only the user hides it.
type LevelUpPresenter struct {
	mu      sync.Mutex
	shown   bool
	details model.LevelUpDetails
}

func NewLevelUpPresenter() *LevelUpPresenter {
	return &LevelUpPresenter{}
}

func (p *LevelUpPresenter) show(details model.LevelUpDetails) {
	p.mu.Lock()
	p.shown = true
	p.details = details
	p.mu.Unlock()
}

// Dismiss hides the presentation and clears its details. It reports
// whether anything was shown.
func (p *LevelUpPresenter) Dismiss() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	wasShown := p.shown
	p.shown = false
	p.details = model.LevelUpDetails{}
	return wasShown
}

func (p *LevelUpPresenter) State() (bool, model.LevelUpDetails) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shown, p.details
}

func (p *LevelUpPresenter) Init(context.Context) error { return nil }

func (p *LevelUpPresenter) Teardown() { p.Dismiss() }
