package cli

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"
)

func (a *App) getStatus() string {
	return fmt.Sprintf("(%s, notifications: %s)", a.monitor.State(), a.subs.Status(context.Background()))
}

// Root greets the user when running interactively and hands control to the
// REPL. Entering the loop counts as the application becoming visible.
func (a *App) Root(ctx context.Context) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		printlnFn("Welcome to RemindSync (type 'help' for commands)")
	}

	a.Visible(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}
