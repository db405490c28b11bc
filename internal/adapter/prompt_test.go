package adapter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompt_AskRequiredRepeats(t *testing.T) {
	var out bytes.Buffer
	p := newPromptFrom(strings.NewReader("\n  \nhttp://localhost:8000\n"), &out)

	got, err := p.AskRequired("URL: ")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", got)
	assert.Equal(t, 2, strings.Count(out.String(), "A value is required"))
}

func TestPrompt_Credentials(t *testing.T) {
	var out bytes.Buffer
	p := newPromptFrom(strings.NewReader("ann@example.com\n s3cret \n"), &out)

	id, secret, err := p.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", id)
	assert.Equal(t, " s3cret ", secret, "passwords are not trimmed")
}

func TestPrompt_AskWithoutNewline(t *testing.T) {
	p := newPromptFrom(strings.NewReader("last"), &bytes.Buffer{})

	got, err := p.Ask("> ")
	require.NoError(t, err)
	assert.Equal(t, "last", got)
}

func TestPrompt_AskEOF(t *testing.T) {
	p := newPromptFrom(strings.NewReader(""), &bytes.Buffer{})

	_, err := p.Ask("> ")
	assert.Error(t, err)
}
