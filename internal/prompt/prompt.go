// Package prompt reads validated answers from an interactive terminal or a pipe.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/0xPuncker/cronmail/internal/validate"
)

// ErrNoInput is returned when the input stream ends before a valid answer is read.
var ErrNoInput = errors.New("no more input")

type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Acquire returns preset when it passes v. Otherwise it prints prompt and keeps
// reading lines until one passes, printing v's invalid message after each rejection.
func (p *Prompter) Acquire(prompt, preset string, v validate.Validator) (string, error) {
	if preset != "" {
		if v.Check(preset) {
			return preset, nil
		}
		p.reject(v)
	}

	for {
		fmt.Fprint(p.out, prompt)

		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		if v.Check(line) {
			return line, nil
		}
		p.reject(v)
	}
}

// Confirm asks a yes/no question until the answer is Y, YES, N or NO.
func (p *Prompter) Confirm(question string) (bool, error) {
	for {
		fmt.Fprint(p.out, question)

		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToUpper(strings.TrimSpace(line)) {
		case "Y", "YES":
			return true, nil
		case "N", "NO":
			return false, nil
		}
	}
}

func (p *Prompter) reject(v validate.Validator) {
	fmt.Fprintf(p.out, "\n%s\n", v.InvalidMessage())
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			// A final line without a trailing newline is still an answer.
			if line != "" {
				return strings.TrimRight(line, "\r"), nil
			}
			fmt.Fprintln(p.out)
			return "", ErrNoInput
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
