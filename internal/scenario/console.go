// SPDX-License-Identifier: MPL-2.0

package scenario

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type (
	// Console is the interactive surface of a running scenario. It reads
	// operator input line by line and renders output, whether attached to
	// a local terminal or a remote session.
	Console struct {
		in  *bufio.Scanner
		out io.Writer
	}

	// MenuOption is one operator-selectable action of a scenario menu.
	MenuOption struct {
		Key   string
		Label string
		Run   func(ctx context.Context) error
	}
)

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// Prompt prints a label and reads one line of input. io.EOF is returned
// when the input stream is exhausted.
func (c *Console) Prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// PrintJSON renders a value as indented JSON, for the list commands.
func (c *Console) PrintJSON(label string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		c.Printf("%s: %v", label, err)
		return
	}
	c.Printf("%s:\n%s", label, data)
}

// RunMenu drives the scenario menu loop: print the options, read a
// selection, dispatch. Option errors are reported and the loop continues;
// "x" or end of input exits.
func (c *Console) RunMenu(ctx context.Context, options []MenuOption) error {
	for {
		var menu strings.Builder
		for _, opt := range options {
			fmt.Fprintf(&menu, "    (%s) %s\n", opt.Key, opt.Label)
		}
		menu.WriteString("    (X) Exit?\n[] ")

		choice, err := c.Prompt(menu.String())
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if choice == "" {
			continue
		}
		if strings.EqualFold(choice, "x") {
			return nil
		}

		opt, ok := findOption(options, choice)
		if !ok {
			c.Printf("Unknown option %q", choice)
			continue
		}
		if err := opt.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Printf("Error: %v", err)
		}
	}
}

func findOption(options []MenuOption, key string) (MenuOption, bool) {
	for _, opt := range options {
		if strings.EqualFold(opt.Key, key) {
			return opt, true
		}
	}
	return MenuOption{}, false
}
