package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDirFromArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"curve", "--kind", "call"}, ""},
		{[]string{"--config", "/tmp/a", "curve"}, "/tmp/a"},
		{[]string{"curve", "--config=/tmp/b", "--strike", "100"}, "/tmp/b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, configDirFromArgs(tt.args), "%v", tt.args)
	}
}

func TestRun_Version(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, 0, run([]string{"--config", dir, "version", "--json"}))
}

func TestRun_ValidationExitCode(t *testing.T) {
	dir := t.TempDir()
	code := run([]string{"--config", dir, "curve", "--kind", "call", "--strike", "-5", "--premium", "1", "--spot", "100"})
	assert.Equal(t, 2, code)
}
