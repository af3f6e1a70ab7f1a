// Package main is accountctl, a command-line client for the accountd API.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/accountd/accountd/internal/client"
	"github.com/accountd/accountd/internal/handler/dto"
)

const usage = `accountctl - command-line client for the accountd API

Usage:
  accountctl [-server URL] <command> [arguments]

Commands:
  register <email> <name>   create an account (prompts for password)
  login <email>             sign in (prompts for password)
  whoami                    show the signed-in user
  update [-name N] [-email E]  update profile fields
  logout                    discard the stored session token
`

func main() {
	serverURL := flag.String("server", envOr("ACCOUNTD_SERVER", "http://localhost:8080"), "accountd server base URL")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*serverURL, args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(serverURL string, args []string) error {
	storePath, err := client.DefaultStorePath()
	if err != nil {
		return fmt.Errorf("resolve token path: %w", err)
	}

	sess := client.NewSession(
		client.NewAPIClient(serverURL),
		client.NewFileStore(storePath),
		client.NewStateStore(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch args[0] {
	case "register":
		return runRegister(ctx, sess, args[1:])
	case "login":
		return runLogin(ctx, sess, args[1:])
	case "whoami":
		return runWhoami(ctx, sess)
	case "update":
		return runUpdate(ctx, sess, args[1:])
	case "logout":
		return sess.Logout()
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runRegister(ctx context.Context, sess *client.Session, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: accountctl register <email> <name>")
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	user, err := sess.SignUp(ctx, args[0], args[1], password)
	if err != nil {
		return err
	}
	fmt.Printf("registered %s (%s)\n", user.Name, user.Email)
	return nil
}

func runLogin(ctx context.Context, sess *client.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: accountctl login <email>")
	}
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	user, err := sess.SignIn(ctx, args[0], password)
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", user.Name, user.Email)
	return nil
}

func runWhoami(ctx context.Context, sess *client.Session) error {
	user, err := sess.Restore(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("id:      %s\nemail:   %s\nname:    %s\ncreated: %s\n",
		user.ID, user.Email, user.Name, user.CreatedAt.Format(time.RFC3339))
	return nil
}

func runUpdate(ctx context.Context, sess *client.Session, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	name := fs.String("name", "", "new display name")
	email := fs.String("email", "", "new email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var upd dto.UpdateUserRequest
	if *name != "" {
		upd.Name = name
	}
	if *email != "" {
		upd.Email = email
	}
	if upd.Name == nil && upd.Email == nil {
		return fmt.Errorf("nothing to update: pass -name and/or -email")
	}

	if _, err := sess.Restore(ctx); err != nil {
		return err
	}
	user, err := sess.UpdateProfile(ctx, upd)
	if err != nil {
		return err
	}
	fmt.Printf("updated: %s (%s)\n", user.Name, user.Email)
	return nil
}

// readPassword prompts on stderr and reads without echo when stdin is a
// terminal, falling back to a plain line read otherwise (pipes, tests).
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
