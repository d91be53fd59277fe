package pvctl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter does line-oriented interactive input. It works both on a TTY and
// when the installer is piped from a remote fetch; secrets fall back to a
// plain line read in the piped case.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter() *Prompter {
	return &Prompter{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask prompts once and returns the default when the operator hits enter.
func (p *Prompter) Ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	val, err := p.readLine()
	if err != nil {
		return "", err
	}
	if val == "" {
		return def, nil
	}
	return val, nil
}

// AskRequired re-prompts until the operator gives a non-empty value.
func (p *Prompter) AskRequired(label string) (string, error) {
	for {
		val, err := p.Ask(label, "")
		if err != nil {
			return "", err
		}
		if val != "" {
			return val, nil
		}
		fmt.Fprintln(p.out, "a value is required")
	}
}

// AskSecret reads a value without echoing it on a TTY; elsewhere the line is
// read as-is. Re-prompts until non-empty.
func (p *Prompter) AskSecret(label string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: ", label)
		var val string
		if term.IsTerminal(int(os.Stdin.Fd())) {
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(p.out)
			if err != nil {
				return "", fmt.Errorf("read secret: %w", err)
			}
			val = strings.TrimSpace(string(b))
		} else {
			line, err := p.readLine()
			if err != nil {
				return "", err
			}
			val = line
		}
		if val != "" {
			return val, nil
		}
		fmt.Fprintln(p.out, "a value is required")
	}
}

// AskChoice renders a numbered menu and returns the selected index.
func (p *Prompter) AskChoice(label string, options []string, def int) (int, error) {
	fmt.Fprintln(p.out, label)
	for i, opt := range options {
		marker := " "
		if i == def {
			marker = "*"
		}
		fmt.Fprintf(p.out, "  %s %d) %s\n", marker, i+1, opt)
	}
	for {
		val, err := p.Ask("choice", fmt.Sprintf("%d", def+1))
		if err != nil {
			return 0, err
		}
		var n int
		if _, err := fmt.Sscanf(val, "%d", &n); err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(p.out, "enter a number between 1 and %d\n", len(options))
	}
}

// AskYesNo prompts y/n with a default.
func (p *Prompter) AskYesNo(label string, def bool) (bool, error) {
	hint := "Y/n"
	if !def {
		hint = "y/N"
	}
	val, err := p.Ask(fmt.Sprintf("%s [%s]", label, hint), "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(val) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
