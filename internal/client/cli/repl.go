package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// commander is the command surface the REPL dispatches to. App satisfies it;
// tests use a lightweight stub.
type commander interface {
	Help() string
	SetMode(ctx context.Context, mode string) error
	ListApartments(ctx context.Context) error
	CheckApartment(ctx context.Context, flat string) error
	SendOTP(ctx context.Context) error
	VerifyOTP(ctx context.Context, code string) error
	PasswordLogin(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Open(ctx context.Context, route string) error
	Reset(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Ping(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit". Command
// errors have already been shown to the user as notifications, so the loop
// ignores them and keeps going.
func runREPL(ctx context.Context, a commander, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("portal %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(a.Help())

		case "mode":
			if len(args) != 1 {
				printlnFn("Usage: mode otp|password")
				continue
			}
			_ = a.SetMode(ctx, args[0])

		case "apartments":
			_ = a.ListApartments(ctx)

		case "apartment":
			if len(args) != 1 {
				printlnFn("Usage: apartment <flat number>")
				continue
			}
			_ = a.CheckApartment(ctx, args[0])

		case "send", "resend":
			_ = a.SendOTP(ctx)

		case "otp":
			if len(args) == 0 {
				printlnFn("Usage: otp <code>")
				continue
			}
			_ = a.VerifyOTP(ctx, strings.Join(args, ""))

		case "login":
			_ = a.PasswordLogin(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "open":
			if len(args) != 1 {
				printlnFn("Usage: open <route>")
				continue
			}
			_ = a.Open(ctx, args[0])

		case "reset":
			_ = a.Reset(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "ping":
			_ = a.Ping(ctx)

		case "logout":
			_ = a.Logout(ctx)

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
