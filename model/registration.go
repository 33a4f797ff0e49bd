package model

import "strings"

// RegistrationForm mirrors the register screen: profile fields plus a
// growable list of improvement-goal inputs that never drops below one.
type RegistrationForm struct {
	Profile          RegisterProfile `json:"profile"`
	ImprovementGoals []string        `json:"improvement_goals"`
}

func NewRegistrationForm() *RegistrationForm {
	return &RegistrationForm{ImprovementGoals: []string{""}}
}

func (f *RegistrationForm) AddImprovementGoal() {
	f.ImprovementGoals = append(f.ImprovementGoals, "")
}

func (f *RegistrationForm) RemoveImprovementGoal(index int) {
	if index >= 0 && index < len(f.ImprovementGoals) {
		f.ImprovementGoals = append(f.ImprovementGoals[:index], f.ImprovementGoals[index+1:]...)
	}
	if len(f.ImprovementGoals) == 0 {
		f.ImprovementGoals = []string{""}
	}
}

// FilterGoals trims each goal and drops the blank ones.
func FilterGoals(goals []string) []string {
	out := make([]string, 0, len(goals))
	for _, g := range goals {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
