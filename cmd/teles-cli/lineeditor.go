package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	historyFileName = ".teles_history"
	historySize     = 500
)

// lineEditor reads REPL input. Terminals get readline editing and history;
// piped input is read line by line.
type lineEditor struct {
	rl      *readline.Instance
	scanner *bufio.Scanner
	out     io.Writer
}

func newLineEditor() *lineEditor {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return newPipedEditor(os.Stdin, os.Stdout)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyPath(),
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newPipedEditor(os.Stdin, os.Stdout)
	}

	return &lineEditor{rl: rl}
}

func newPipedEditor(in io.Reader, out io.Writer) *lineEditor {
	return &lineEditor{scanner: bufio.NewScanner(in), out: out}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFileName)
}

// interactive reports whether input comes from a terminal.
func (e *lineEditor) interactive() bool {
	return e.rl != nil
}

// getLine returns the next input line, or io.EOF at end of input.
// Ctrl-C counts as end of input.
func (e *lineEditor) getLine(prompt string) (string, error) {
	if e.rl == nil {
		fmt.Fprint(e.out, prompt)
		if !e.scanner.Scan() {
			if err := e.scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return e.scanner.Text(), nil
	}

	e.rl.SetPrompt(prompt)
	line, err := e.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		e.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (e *lineEditor) close() {
	if e.rl != nil {
		e.rl.Close()
		e.rl = nil
	}
}
