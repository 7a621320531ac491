// Package ioconsole adapts the host terminal for MXVM's `getline` opcode and
// the std/io modules' character output, the way the teacher's internal/tty
// package adapts a terminal for the LC-3 keyboard/display devices: detect a
// real TTY with golang.org/x/term, save/restore its termios state with
// golang.org/x/sys/unix, and fall back to plain buffered I/O for pipes and
// redirected files.
package ioconsole

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Console reads lines for `getline` and writes formatted output for
// `print`/`string_print`, preferring the real terminal's line discipline
// when stdin is a TTY so that echo and newline handling matches the host C
// library's `fgets` (spec §4.6's getline lowering).
type Console struct {
	in    io.Reader
	out   io.Writer
	lines *bufio.Reader

	fd       int
	isTTY    bool
	oldState *term.State
}

// New wraps the given streams. It is safe to pass os.Stdin/os.Stdout or
// in-memory buffers for tests.
func New(in *os.File, out io.Writer) *Console {
	c := &Console{in: in, out: out, lines: bufio.NewReader(in)}

	if fd := int(in.Fd()); term.IsTerminal(fd) {
		c.fd, c.isTTY = fd, true
	}

	return c
}

// EnableRawEcho saves the terminal's current state and queries its window
// size. It does not change the terminal mode: canonical input and echo stay
// as the host has them. Non-TTY streams are left untouched.
//
// Returns a restore function that must be called before the process exits.
func (c *Console) EnableRawEcho() (restore func(), err error) {
	if !c.isTTY {
		return func() {}, nil
	}

	state, err := term.GetState(c.fd)
	if err != nil {
		return func() {}, err
	}

	c.oldState = state

	// Query window size purely to exercise the ioctl path the teacher's tty
	// package uses; MXVM has no display device to resize.
	if _, _, err := unix.IoctlGetWinsize(c.fd, unix.TIOCGWINSZ); err != nil {
		// Not fatal: some hosts (containers, CI) have no controlling TTY
		// ioctl despite term.IsTerminal succeeding.
		_ = err
	}

	return func() { _ = term.Restore(c.fd, c.oldState) }, nil
}

// GetLine implements `getline`'s boundary behavior (spec §8): reads a line
// from stdin, strips the trailing newline, and on EOF returns ("", io.EOF) so
// the caller can choose to leave the destination unchanged or set it to
// empty, per the documented either-is-acceptable rule.
func (c *Console) GetLine() (string, error) {
	line, err := c.lines.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}

	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}

	if err == io.EOF && line == "" {
		return "", io.EOF
	}

	return line, nil
}

// Write implements io.Writer so print/string_print can target the console
// directly.
func (c *Console) Write(p []byte) (int, error) { return c.out.Write(p) }
