package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		sysEnv   []string
		taskEnv  map[string]string
		expected []string
	}{
		{
			name:     "allowed system variables",
			sysEnv:   []string{"USER=test", "PATH=/bin", "HOME=/home/test"},
			expected: []string{"HOME=/home/test", "PATH=/bin", "USER=test"},
		},
		{
			name:     "filtered system variables",
			sysEnv:   []string{"USER=test", "SSH_AUTH_SOCK=/tmp/ssh", "CXXFLAGS=-O0"},
			expected: []string{"USER=test"},
		},
		{
			name:     "task overrides",
			sysEnv:   []string{"USER=test", "PATH=/bin"},
			taskEnv:  map[string]string{"PATH": "/opt/gcc/bin", "LANG": "C"},
			expected: []string{"LANG=C", "PATH=/opt/gcc/bin", "USER=test"},
		},
		{
			name:     "malformed entries ignored",
			sysEnv:   []string{"PATH", "TERM=xterm"},
			expected: []string{"TERM=xterm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveEnvironment(tt.sysEnv, tt.taskEnv))
		})
	}
}

func TestLookPath_NoPath(t *testing.T) {
	_, err := lookPath("c++", []string{"HOME=/root"})
	assert.Error(t, err)
}
