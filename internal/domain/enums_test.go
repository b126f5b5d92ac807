package domain

import (
	"errors"
	"testing"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		input    string
		expected Scope
		wantErr  bool
	}{
		{"SELF", ScopeSelf, false},
		{"allies", ScopeAllies, false},
		{"Enemies", ScopeEnemies, false},
		{"everyone", ScopeUnknown, true},
		{"", ScopeUnknown, true},
	}

	for _, tt := range tests {
		result, err := ParseScope(tt.input)
		if result != tt.expected {
			t.Errorf("ParseScope(%q) = %v, want %v", tt.input, result, tt.expected)
		}
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseScope(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrUnknownScope) {
			t.Errorf("ParseScope(%q) must wrap ErrUnknownScope", tt.input)
		}
	}
}

func TestParsePlayerClass(t *testing.T) {
	tests := []struct {
		input    string
		expected PlayerClass
		wantErr  bool
	}{
		{"warrior", ClassWarrior, false},
		{"THIEF", ClassThief, false},
		{"Mage", ClassMage, false},
		{"bard", ClassUnknown, true},
	}

	for _, tt := range tests {
		result, err := ParsePlayerClass(tt.input)
		if result != tt.expected || (err != nil) != tt.wantErr {
			t.Errorf("ParsePlayerClass(%q) = %v, %v", tt.input, result, err)
		}
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got      string
		expected string
	}{
		{ScopeAllies.String(), "ALLIES"},
		{Scope(99).String(), "UNKNOWN"},
		{Victory.String(), "VICTORY"},
		{Defeat.String(), "DEFEAT"},
		{ClassMage.String(), "MAGE"},
		{StatAttack.String(), "ATTACK"},
		{Inverse.String(), "INVERSE"},
	}

	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("got %q, want %q", tt.got, tt.expected)
		}
	}
}

func TestStats(t *testing.T) {
	s := &Stats{Health: 10, MaxHealth: 20, AP: 1, MaxAP: 3}

	if taken := s.TakeDamage(15); taken != 10 || s.Health != 0 {
		t.Errorf("TakeDamage clamps to health: taken=%d health=%d", taken, s.Health)
	}
	if !s.IsDepleted() {
		t.Error("expected depleted")
	}
	if taken := s.TakeDamage(-5); taken != 0 {
		t.Error("negative damage must be a no-op")
	}

	if healed := s.Heal(50); healed != 20 || s.Health != 20 {
		t.Errorf("Heal clamps to max: healed=%d health=%d", healed, s.Health)
	}
	if healed := s.Heal(5); healed != 0 {
		t.Error("heal at full health restores nothing")
	}

	if s.SpendAP(2) {
		t.Error("SpendAP must fail with 1 AP for cost 2")
	}
	if !s.SpendAP(-5) || s.AP != 3 {
		t.Errorf("negative cost grants AP clamped to max, got %d", s.AP)
	}
}
