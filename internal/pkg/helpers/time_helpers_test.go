package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", time.Minute},
		{"15m", 15 * time.Minute},
		{"720h", 720 * time.Hour},
		{"soon", time.Minute},
		{"-5s", time.Minute},
		{"0s", time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseDuration(tt.value, time.Minute), tt.value)
	}
}
