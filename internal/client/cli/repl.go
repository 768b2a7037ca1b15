package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it
// with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Notify(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the RemindSync client.
//
// It reads a line from the provided reader, parses the first token as the
// command, and dispatches to methods on 'a'. The reader must be the same
// one interactive prompts read from, so commands and prompt answers come
// out of a single buffer. Unknown commands are reported back to the user.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Commands:
//
//	add            - create a reminder (interactive prompts)
//	list | l       - list reminders ascending by scheduled time
//	edit <id>      - edit a reminder's fields
//	delete <id>    - remove a reminder
//	sync           - trigger a manual sync
//	notify         - run the push notification setup sequence
//	status         - show connectivity and subscription status
//	exit | quit    - leave the program
//
// Any errors returned by command handlers are printed and the loop keeps
// going; no failure here may terminate the application.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("rs %s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn("Available commands: add, (l)ist, edit <id>, delete <id>, sync, notify, status, exit")

		case "add":
			err = a.Add(ctx)

		case "l", "list":
			err = a.List(ctx)

		case "edit":
			err = a.Edit(ctx, args)

		case "delete", "del":
			err = a.Delete(ctx, args)

		case "sync":
			err = a.Sync(ctx)

		case "notify":
			err = a.Notify(ctx)

		case "status":
			err = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
		if readErr != nil {
			return
		}
	}
}
