package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaminalder/codex-gomoku/internal/config"
)

func TestRunRejectsBadConfig(t *testing.T) {
	assert.ErrorIs(t, run([]string{"-mode", "gui"}), config.ErrInvalid)
	assert.ErrorIs(t, run([]string{"-size", "3"}), config.ErrInvalid)
	assert.ErrorIs(t, run([]string{"-log-format", "xml"}), config.ErrInvalid)
	assert.ErrorIs(t, run([]string{"-help"}), flag.ErrHelp)
}
