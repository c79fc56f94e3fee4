package scheduler

import (
	"testing"

	"visit-report-service/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestParseDailyRunTime(t *testing.T) {
	s := NewScheduler(nil, config.DefaultConfig())

	tests := []struct {
		in   string
		want string
	}{
		{"20:00", "0 20 * * *"},
		{"07:30", "30 7 * * *"},
		{"0:05", "5 0 * * *"},
		{"garbage", "0 20 * * *"},
		{"", "0 20 * * *"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, s.parseDailyRunTime(tt.in), "input %q", tt.in)
	}
}

func TestStartRespectsDisabledFlag(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Report.DailyRunEnabled = false

	s := NewScheduler(nil, cfg)
	assert.NoError(t, s.Start())
	assert.False(t, s.isRunning)
}
