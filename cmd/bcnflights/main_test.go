package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jotajotaz/bcn-flights/internal/notify"
)

func TestTelegramFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"no error", nil, false},
		{"missing credentials", notify.ErrMissingTelegramConfig, false},
		{"wrapped missing credentials", fmt.Errorf("telegram: %w", notify.ErrMissingTelegramConfig), false},
		{"bot construction failure", errors.New("Not Found"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := telegramFatal(tt.err); got != tt.want {
				t.Errorf("telegramFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
