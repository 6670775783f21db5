// Package app is what a front end calls: it strings the API client, the
// session and the image cache together into screen sized operations and
// turns failures into messages fit for the operator.
package app

import (
	"errors"
	"time"

	"github.com/spf13/afero"
	"github.com/touchpos/touchpos/pkg/imgcache"
	"github.com/touchpos/touchpos/pkg/logger"
	"github.com/touchpos/touchpos/pkg/posapi"
	"github.com/touchpos/touchpos/pkg/session"
)

// Messages shown to the operator.
const (
	MsgNetwork            = "Greška mreže. Provjeri vezu i pokušaj ponovo."
	MsgTimeout            = "Zahtjev je istekao. Pokušaj ponovo."
	MsgMissingCredentials = "Unesi korisničko ime i lozinku."
	MsgLoginOK            = "Prijava uspješna."
	MsgNoSessionCookie    = "Prijava je uspjela, ali session cookie nije spremljen."
	MsgNoWarehouse        = "Odaberi skladište."
	MsgNoReason           = "Odaberi razlog."
	MsgEmptyCart          = "Dodaj barem jedan artikl."
	MsgSaved              = "Spremljeno."
	MsgListFailed         = "Ne mogu dohvatiti listu."
	MsgArtikliFailed      = "Ne mogu dohvatiti artikle."
	MsgLoadTimeout        = "Učitavanje je isteklo."
	MsgDefaultUser        = "Korisnik"
)

// DefaultUserLookups bounds concurrent user lookups in LoadRepresentations.
const DefaultUserLookups = 4

type Options struct {
	// Fs receives the diagnostic dump of a rejected create. Defaults to the
	// OS filesystem.
	Fs       afero.Fs
	DumpFile string
	// Images may be nil; image prefetching is then a no-op.
	Images *imgcache.Cache
	// Location is used to display timestamps. Defaults to time.Local.
	Location    *time.Location
	UserLookups int
	Logger      logger.Logger
}

// App is bound to one session.
type App struct {
	client   *posapi.Client
	session  *session.Session
	images   *imgcache.Cache
	fs       afero.Fs
	dumpFile string
	loc      *time.Location
	lookups  int
	log      logger.Logger
}

func New(client *posapi.Client, s *session.Session, opts *Options) *App {
	if opts == nil {
		opts = &Options{}
	}
	a := &App{
		client:   client,
		session:  s,
		images:   opts.Images,
		fs:       opts.Fs,
		dumpFile: opts.DumpFile,
		loc:      opts.Location,
		lookups:  opts.UserLookups,
		log:      logger.OrNop(opts.Logger),
	}
	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	if a.loc == nil {
		a.loc = time.Local
	}
	if a.lookups <= 0 {
		a.lookups = DefaultUserLookups
	}
	return a
}

func (a *App) Session() *session.Session {
	return a.session
}

func (a *App) Client() *posapi.Client {
	return a.client
}

// Message maps err to an operator message. Timeouts and network failures
// get their own wording; anything else yields fallback.
func Message(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, posapi.ErrTimeout):
		return MsgTimeout
	case errors.Is(err, posapi.ErrNetwork):
		return MsgNetwork
	}
	return fallback
}

// LoadMessage is Message for screen loads, where a timeout reads
// "Učitavanje je isteklo."
func LoadMessage(err error, fallback string) string {
	if errors.Is(err, posapi.ErrTimeout) {
		return MsgLoadTimeout
	}
	return Message(err, fallback)
}

// DisplayName returns "First Last", else the username, else "Korisnik".
func DisplayName(u *posapi.User) string {
	if u == nil {
		return MsgDefaultUser
	}
	if name := fullName(u); name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return MsgDefaultUser
}
