package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatViews(t *testing.T) {
	tests := []struct {
		views int64
		want  string
	}{
		{0, "0 views"},
		{999, "999 views"},
		{1000, "1K views"},
		{15400, "15K views"},
		{1_000_000, "1.0M views"},
		{2_450_000, "2.5M views"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatViews(tt.views))
	}
}

func TestRelativeTime(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	defer func() { now = time.Now }()

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{14 * 24 * time.Hour, "2 weeks ago"},
		{60 * 24 * time.Hour, "2 months ago"},
		{800 * 24 * time.Hour, "2 years ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relativeTime(fixed.Add(-tt.ago)), tt.ago.String())
	}
	assert.Empty(t, relativeTime(time.Time{}))
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "A", initial("alice"))
	assert.Equal(t, "É", initial(" élodie"))
	assert.Equal(t, "?", initial(""))
}
