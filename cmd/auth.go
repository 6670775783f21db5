package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/touchpos/touchpos/cmd/common"
	"github.com/touchpos/touchpos/internal/app"
	"github.com/touchpos/touchpos/pkg/posapi"
	"github.com/touchpos/touchpos/pkg/session"
	"github.com/urfave/cli"
	"golang.org/x/term"
)

var (
	stdin io.Reader = os.Stdin

	// readPassword reads without echo from a terminal and falls back to a
	// plain line when stdin is piped.
	readPassword = func(r *bufio.Reader) (string, error) {
		fd := int(os.Stdin.Fd())
		if term.IsTerminal(fd) {
			b, err := term.ReadPassword(fd)
			return string(b), err
		}
		return readLine(r)
	}
)

var loginFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "username, u",
		Usage: "user name; asked for when missing",
	},
	cli.StringFlag{
		Name:  "password, p",
		Usage: "password; read without echo when missing",
	},
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func login(ctx context.Context, c *cli.Context, e *env) error {
	username, password := c.String("username"), c.String("password")
	in := bufio.NewReader(stdin)
	if username == "" {
		fmt.Fprint(e.out, "Korisničko ime: ")
		u, err := readLine(in)
		if err != nil {
			return errors.New(app.MsgMissingCredentials)
		}
		username = u
	}
	if password == "" {
		fmt.Fprint(e.out, "Lozinka: ")
		p, err := readPassword(in)
		fmt.Fprintln(e.out)
		if err != nil {
			return errors.New(app.MsgMissingCredentials)
		}
		password = p
	}

	res, err := e.app.Login(ctx, username, password)
	if err != nil {
		return e.failure(err, posapi.MsgLoginRejected)
	}
	if !res.Success {
		return errors.New(res.Message)
	}
	fmt.Fprintln(e.out, res.Message)
	if me, err := e.app.Me(ctx); err == nil {
		fmt.Fprintf(e.out, "Prijavljen kao %s.\n", app.DisplayName(me))
	}
	return nil
}

func logout(ctx context.Context, _ *cli.Context, e *env) error {
	if !e.app.Session().Load() {
		return errNotLoggedIn
	}
	if e.app.Logout(ctx) {
		fmt.Fprintln(e.out, MsgLoggedOut)
	} else {
		fmt.Fprintln(e.out, MsgLogoutLocalOnly)
	}
	return nil
}

func whoami(ctx context.Context, _ *cli.Context, e *env) error {
	if err := e.requireSession(); err != nil {
		return err
	}
	me, err := e.app.Restore(ctx)
	switch {
	case errors.Is(err, app.ErrNoSession):
		return errNotLoggedIn
	case err != nil:
		return e.failure(err, MsgSessionExpired)
	}
	fmt.Fprintf(e.out, "%s (%s, #%d)\n", app.DisplayName(me), me.Username, me.ID)
	return nil
}

// sessionInfo describes the saved session. Cookie values are never shown.
func sessionInfo(_ context.Context, _ *cli.Context, e *env) error {
	row := func(k, v string) {
		fmt.Fprintf(e.out, "%s %s\n", common.Cell(k+":", 12), v)
	}
	s := e.app.Session()
	loaded := s.Load()
	row("Datoteka", e.cfg.SessionFile)
	row("Poslužitelj", s.Origin().String())
	if !loaded {
		row("Sesija", "nema spremljene sesije")
		return nil
	}
	row("Kolačići", fmt.Sprint(s.Jar().Len()))
	if _, ok := s.Cookie(session.SessionCookie); ok {
		row("Sesija", "prijavljen")
	} else {
		row("Sesija", "bez session cookieja")
	}
	if e.cfg.SealSession {
		row("Zaštita", "vrijednosti kolačića su šifrirane")
	}
	return nil
}
