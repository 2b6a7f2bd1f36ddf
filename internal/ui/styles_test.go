package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyles(t *testing.T) {
	SetColor(true)
	t.Cleanup(func() { SetColor(false) })

	out := StyleSuccess.Render("Test")
	assert.Contains(t, out, "Test")
	assert.NotEqual(t, "Test", out, "Style should add ANSI codes when forced")
}

func TestSetColor_Off(t *testing.T) {
	SetColor(false)

	assert.Equal(t, "Test", StyleOverdue.Render("Test"))
	assert.Equal(t, "X", Icon("X", StyleError))
}
