package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/griddock/griddock/pkg/deck"
)

func TestButtonTarget(t *testing.T) {
	tests := []struct {
		name   string
		button deck.Button
		want   string
	}{
		{
			name:   "open path",
			button: deck.Button{Action: deck.ActionOpen, Config: map[string]string{"path": "/tmp/notes.txt"}},
			want:   "/tmp/notes.txt",
		},
		{
			name:   "url",
			button: deck.Button{Action: deck.ActionOpenURL, Config: map[string]string{"url": "https://example.com"}},
			want:   "https://example.com",
		},
		{
			name:   "executable",
			button: deck.Button{Action: deck.ActionLaunch, Config: map[string]string{"exec": "/usr/bin/app"}},
			want:   "/usr/bin/app",
		},
		{
			name:   "desktop entry",
			button: deck.Button{Action: deck.ActionLaunch, Config: map[string]string{"entry": "/usr/share/applications/app.desktop"}},
			want:   "/usr/share/applications/app.desktop",
		},
		{
			name:   "no config",
			button: deck.Button{Action: deck.ActionOpen},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buttonTarget(tt.button); got != tt.want {
				t.Errorf("buttonTarget() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{name: "zero time", t: time.Time{}, want: "—"},
		{name: "minutes", t: now.Add(-30 * time.Minute), want: "30m ago"},
		{name: "hours", t: now.Add(-5 * time.Hour), want: "5h ago"},
		{name: "days", t: now.Add(-3 * 24 * time.Hour), want: "3d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRelativeTime(tt.t); got != tt.want {
				t.Errorf("formatRelativeTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatRelativeTimeOld(t *testing.T) {
	old := time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)
	if got := formatRelativeTime(old); got != "Mar 9, 2024" {
		t.Errorf("formatRelativeTime() = %q, want %q", got, "Mar 9, 2024")
	}
}

func TestProfileTable(t *testing.T) {
	out := profileTable(
		[]string{"NAME", "PAGES"},
		[][]string{{"work", "2"}, {"games", "1"}},
	)

	for _, want := range []string{"NAME", "PAGES", "work", "games"} {
		if !strings.Contains(out, want) {
			t.Errorf("profileTable() missing %q:\n%s", want, out)
		}
	}
}
