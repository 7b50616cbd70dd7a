package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const historyLimit = 500

// lineReader reads shell input with line editing and in-memory history on a
// terminal, and plain lines from a pipe. History is not written to disk.
type lineReader struct {
	rl      *readline.Instance
	scanner *bufio.Scanner
}

func newLineReader(prompt string) *lineReader {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return &lineReader{scanner: bufio.NewScanner(os.Stdin)}
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:                 prompt,
		HistoryLimit:           historyLimit,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return &lineReader{scanner: bufio.NewScanner(os.Stdin)}
	}
	return &lineReader{rl: rl}
}

// ReadLine returns io.EOF on end of input and on interrupt.
func (r *lineReader) ReadLine() (string, error) {
	if r.rl == nil {
		if !r.scanner.Scan() {
			if err := r.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return r.scanner.Text(), nil
	}

	line, err := r.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		r.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (r *lineReader) Close() error {
	if r.rl == nil {
		return nil
	}
	return r.rl.Close()
}

// readPassword prompts for a password without echo. It returns an empty
// password when stdin is not a terminal.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}

	os.Stderr.WriteString(prompt)
	b, err := term.ReadPassword(fd)
	os.Stderr.WriteString("\n")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
