package iocontext

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIO(t *testing.T) {
	io := DefaultIO()
	if io.Out == nil || io.ErrOut == nil || io.In == nil {
		t.Error("DefaultIO should return non-nil streams")
	}
}

func TestWithIO(t *testing.T) {
	out := &bytes.Buffer{}
	io := &IO{Out: out, ErrOut: &bytes.Buffer{}}
	ctx := WithIO(context.Background(), io)

	if GetIO(ctx).Out != out {
		t.Error("GetIO should return the IO set with WithIO")
	}
	if GetIO(context.Background()) == nil {
		t.Error("GetIO should return default IO when not set")
	}
}

func TestReadLine(t *testing.T) {
	errOut := &bytes.Buffer{}
	s := &IO{In: strings.NewReader("jeff\r\nsecret"), ErrOut: errOut, Out: &bytes.Buffer{}}

	user, err := s.ReadLine("Username: ")
	require.NoError(t, err)
	assert.Equal(t, "jeff", user)
	assert.Equal(t, "Username: ", errOut.String())

	pass, err := s.ReadSecret("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret", pass)

	_, err = s.ReadLine("")
	assert.ErrorIs(t, err, ErrNoInput)
	assert.False(t, s.IsTerminal())
}
