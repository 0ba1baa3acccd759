package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/resumematch/internal/client/auth"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Guard(target string) auth.Decision
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	OAuth(ctx context.Context, token string) error
	Relogin(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Profile(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	RemoveResume(ctx context.Context) error
	JobDescription(ctx context.Context, text string) error
	Analyze(ctx context.Context) error
	Result(ctx context.Context) error
	Toggle(ctx context.Context, section string) error
}

const (
	helpAnonymous     = "Available commands: login, register, oauth [token], help, exit"
	helpAuthenticated = "Available commands: upload <path>, remove, jd [text], analyze, result, toggle <section>, profile, whoami, relogin, logout, help, exit"
)

// protected lists commands that need a session. They go through the route
// guard for the analyze screen.
var protected = map[string]bool{
	"upload": true, "remove": true, "jd": true, "analyze": true,
	"result": true, "toggle": true, "profile": true,
}

// runREPL reads commands line by line and dispatches them to a.
//
// The loop exits on EOF, on context cancellation, or when the user types
// "exit" or "quit". Errors returned by handlers are not fatal; handlers
// report them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("rm %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
		if cmd == "" {
			continue
		}
		rest = strings.TrimSpace(rest)

		if protected[cmd] && !allowed(ctx, a) {
			continue
		}

		switch cmd {
		case "help":
			if a.Guard(ScreenAnalyze).Action == auth.ActionAllow {
				printlnFn(helpAuthenticated)
			} else {
				printlnFn(helpAnonymous)
			}
		case "login":
			_ = a.Login(ctx)
		case "register":
			_ = a.Register(ctx)
		case "oauth":
			_ = a.OAuth(ctx, rest)
		case "relogin":
			_ = a.Relogin(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.Whoami(ctx)
		case "profile":
			_ = a.Profile(ctx)
		case "upload":
			_ = a.Upload(ctx, rest)
		case "remove":
			_ = a.RemoveResume(ctx)
		case "jd":
			_ = a.JobDescription(ctx, rest)
		case "analyze":
			_ = a.Analyze(ctx)
		case "result":
			_ = a.Result(ctx)
		case "toggle":
			_ = a.Toggle(ctx, rest)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

// allowed consults the route guard. An anonymous user is sent through
// login first and the command runs only if that succeeds.
func allowed(ctx context.Context, a execIface) bool {
	d := a.Guard(ScreenAnalyze)
	switch d.Action {
	case auth.ActionAllow:
		return true
	case auth.ActionWait:
		printlnFn("Loading...")
		return false
	}
	printlnFn("Please log in first")
	if err := a.Login(ctx); err != nil {
		return false
	}
	return a.Guard(ScreenAnalyze).Action == auth.ActionAllow
}
