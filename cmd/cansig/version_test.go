package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	c := NewVersionCmd(func() string { return "1.2.0+abc" })
	var buf bytes.Buffer
	c.SetOut(&buf)
	c.SetArgs([]string{})

	require.NoError(t, c.Execute())
	assert.Equal(t, "cansig version 1.2.0+abc\n", buf.String())
}

func TestVersionCmdRejectsArgs(t *testing.T) {
	c := NewVersionCmd(func() string { return "x" })
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"extra"})
	assert.Error(t, c.Execute())
}

func TestVersionCmdPanicsWithoutDependency(t *testing.T) {
	assert.Panics(t, func() { NewVersionCmd(nil) })
}
