// Package iocontext carries the command I/O streams through a context so
// commands and prompts can be driven from tests.
package iocontext

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// IO holds the input/output streams for commands.
type IO struct {
	Out    io.Writer // stdout
	ErrOut io.Writer // stderr
	In     io.Reader // stdin

	reader *bufio.Reader
}

// ErrNoInput is returned by prompts when stdin is exhausted.
var ErrNoInput = errors.New("no input available")

// DefaultIO returns the standard IO streams.
func DefaultIO() *IO {
	return &IO{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		In:     os.Stdin,
	}
}

type ioKey struct{}

// WithIO adds IO streams to a context.
func WithIO(ctx context.Context, io *IO) context.Context {
	return context.WithValue(ctx, ioKey{}, io)
}

// GetIO retrieves IO streams from context, defaulting to standard streams.
func GetIO(ctx context.Context) *IO {
	if io, ok := ctx.Value(ioKey{}).(*IO); ok && io != nil {
		return io
	}
	return DefaultIO()
}

// IsTerminal reports whether In is an interactive terminal.
func (s *IO) IsTerminal() bool {
	f, ok := s.In.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ReadLine writes prompt to ErrOut and reads one trimmed line from In.
func (s *IO) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		_, _ = fmt.Fprint(s.ErrOut, prompt)
	}
	if s.reader == nil {
		s.reader = bufio.NewReader(s.In)
	}
	line, err := s.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadSecret reads a line without echo when In is a terminal, and falls back
// to ReadLine otherwise (piped input).
func (s *IO) ReadSecret(prompt string) (string, error) {
	f, ok := s.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return s.ReadLine(prompt)
	}
	_, _ = fmt.Fprint(s.ErrOut, prompt)
	data, err := term.ReadPassword(int(f.Fd()))
	_, _ = fmt.Fprintln(s.ErrOut)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
