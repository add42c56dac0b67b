package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/mbelkin/geoauth/internal/client/session"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the minimal command surface the REPL needs. *App satisfies it;
// tests provide a lightweight stub.
type execIface interface {
	state() session.State
	Login(ctx context.Context)
	Register(ctx context.Context)
	Logout(ctx context.Context)
	Whoami(ctx context.Context)
	MyIP(ctx context.Context)
	Search(ctx context.Context, args []string)
	History(ctx context.Context, args []string)
	Delete(ctx context.Context, args []string)
}

// protectedCommands require an authenticated session.
var protectedCommands = map[string]struct{}{
	"whoami":  {},
	"myip":    {},
	"search":  {},
	"history": {},
	"delete":  {},
	"logout":  {},
}

// guard decides what to do with a protected command given the session state.
//
// While the session is still bootstrapping it prints a neutral placeholder
// (neither the command output nor the login hint) to avoid acting on a state
// that is about to change. Once settled, unauthenticated users are steered to
// the login entry point. Pure decision from state, no state of its own.
func guard(st session.State) (ok bool) {
	if st.IsLoading {
		printlnFn("Loading session…")
		return false
	}
	if !st.IsAuthenticated {
		printlnFn("Please log in first (type 'login').")
		return false
	}
	return true
}

// runREPL reads a line, parses the first token as the command, and dispatches
// to a. Unknown commands are reported back. The loop exits on scanner EOF or
// on "exit"/"quit".
//
// Command handlers print their own errors; the loop itself stays focused on
// I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("geoauth> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if _, protected := protectedCommands[cmd]; protected {
			if !guard(a.state()) {
				continue
			}
		}

		switch cmd {
		case "help":
			if a.state().IsAuthenticated {
				printlnFn("Available commands: whoami, myip, search <ip>, history [limit], delete <id...>, logout, exit")
			} else {
				printlnFn("Available commands: login, register, exit")
			}

		case "login":
			a.Login(ctx)

		case "register":
			a.Register(ctx)

		case "logout":
			a.Logout(ctx)

		case "whoami":
			a.Whoami(ctx)

		case "myip":
			a.MyIP(ctx)

		case "search":
			a.Search(ctx, args)

		case "history":
			a.History(ctx, args)

		case "delete":
			a.Delete(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
