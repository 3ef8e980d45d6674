package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	promptLength   = "How many words should be generated? "
	promptContinue = "Continue with this Markov chain? (y/n) "
)

// repl keeps generating from the same chain until the user declines, input
// ends or ctx is cancelled. An empty length answer reuses the last length.
func (a *app) repl(ctx context.Context, stdin io.Reader) error {
	scanner := bufio.NewScanner(stdin)
	length := a.opts.length

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		_, _ = fmt.Fprint(a.stdout, "\n"+promptLength)
		if !scanner.Scan() {
			return scanner.Err()
		}
		if answer := strings.TrimSpace(scanner.Text()); answer != "" {
			n, err := strconv.Atoi(answer)
			if err != nil || n < a.chain.Order() {
				_, _ = fmt.Fprintf(a.stdout, "Please enter a whole number of at least %d.\n", a.chain.Order())
				continue
			}
			length = n
		}

		text, err := a.generate(ctx, length)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(a.stdout, "\n%s\n\n", text)

		_, _ = fmt.Fprint(a.stdout, promptContinue)
		if !scanner.Scan() {
			return scanner.Err()
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
		default:
			return nil
		}
	}
}
