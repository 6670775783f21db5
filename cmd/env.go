package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/afero"
	"github.com/touchpos/touchpos/cmd/common"
	"github.com/touchpos/touchpos/internal/app"
	"github.com/touchpos/touchpos/internal/config"
	"github.com/touchpos/touchpos/pkg/credman/encryption"
	"github.com/touchpos/touchpos/pkg/credman/keyring"
	"github.com/touchpos/touchpos/pkg/imgcache"
	"github.com/touchpos/touchpos/pkg/logger"
	"github.com/touchpos/touchpos/pkg/posapi"
	"github.com/touchpos/touchpos/pkg/session"
	"github.com/urfave/cli"
)

const (
	MsgNotLoggedIn     = "Nisi prijavljen. Pokreni \"touchpos login\"."
	MsgSessionExpired  = "Sesija je istekla. Prijavi se ponovo."
	MsgLoggedOut       = "Odjavljen."
	MsgLogoutLocalOnly = "Odjava na poslužitelju nije uspjela, lokalna sesija je obrisana."
)

var (
	errNotLoggedIn    = errors.New(MsgNotLoggedIn)
	errSessionExpired = errors.New(MsgSessionExpired)
)

// keyProviders returns where the session sealing key is looked up, in
// order. The OS keyring comes first; the key file is the fallback for
// machines without one.
var keyProviders = func(dir string) []keyring.Provider {
	return []keyring.Provider{keyring.NewKeyring(), keyring.NewFileKeyStore(dir)}
}

// displayLocation is the zone times are shown in.
var displayLocation = time.Local

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "base-url",
		Usage: "API origin (default: " + posapi.DefaultBaseURL + ")",
	},
	cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory for the session, logs and image cache",
	},
	cli.StringFlag{
		Name:  "proxy",
		Usage: "http, https or socks5 proxy URL",
	},
	cli.DurationFlag{
		Name:  "timeout",
		Usage: "limit for each API call",
		Value: posapi.DefaultTimeout,
	},
	cli.IntFlag{
		Name:  "slots",
		Usage: "concurrent image downloads",
		Value: config.DefaultDownloadSlots,
	},
	cli.BoolFlag{
		Name:  "seal-session",
		Usage: "encrypt saved cookie values with a key from the OS keyring",
	},
	cli.BoolFlag{
		Name:  "debug",
		Usage: "log debug detail and mirror the log to stderr",
	},
}

// loadConfig applies the global flags over the environment.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if ctx.GlobalIsSet("base-url") {
		cfg.BaseURL = ctx.GlobalString("base-url")
	}
	if ctx.GlobalIsSet("data-dir") {
		if err := cfg.SetDataDir(ctx.GlobalString("data-dir")); err != nil {
			return nil, err
		}
	}
	if ctx.GlobalIsSet("proxy") {
		cfg.Proxy = ctx.GlobalString("proxy")
	}
	if ctx.GlobalIsSet("timeout") {
		cfg.APITimeout = ctx.GlobalDuration("timeout")
	}
	if ctx.GlobalIsSet("slots") {
		cfg.DownloadSlots = ctx.GlobalInt("slots")
	}
	if ctx.GlobalBool("seal-session") {
		cfg.SealSession = true
	}
	if ctx.GlobalBool("debug") {
		cfg.Debug = true
	}
	return cfg, cfg.Validate()
}

// env is what a command runs against.
type env struct {
	cfg    *config.Config
	log    logger.Logger
	client *posapi.Client
	images *imgcache.Cache
	app    *app.App
	out    io.Writer
}

func newEnv(ctx *cli.Context) (*env, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, out: outWriter(ctx)}
	e.log = newLogger(ctx, cfg)

	var storeOpts []session.StoreOption
	if cfg.SealSession {
		sealer, err := newSealer(cfg)
		if err != nil {
			e.log.Close()
			return nil, err
		}
		storeOpts = append(storeOpts, session.WithSealer(sealer))
	}

	e.client, err = posapi.NewClient(cfg.BaseURL, &posapi.Options{
		Timeout:      cfg.APITimeout,
		MediaTimeout: cfg.ImageTimeout,
		Proxy:        cfg.Proxy,
		Logger:       e.log,
	})
	if err != nil {
		e.log.Close()
		return nil, err
	}

	fs := afero.NewOsFs()
	s := e.client.NewSession(session.NewStore(fs, cfg.SessionFile, storeOpts...))
	e.images = imgcache.New(fs, cfg.ImageDir, e.client.GetBytes, &imgcache.Options{
		Slots:  cfg.DownloadSlots,
		Logger: e.log,
	})
	e.app = app.New(e.client, s, &app.Options{
		Fs:       fs,
		DumpFile: cfg.DumpFile,
		Images:   e.images,
		Location: displayLocation,
		Logger:   e.log,
	})
	return e, nil
}

// newLogger opens the debug log. A log that cannot be opened is reported
// and logging goes nowhere; it never stops a command.
func newLogger(ctx *cli.Context, cfg *config.Config) logger.Logger {
	var l logger.Logger
	fl, err := logger.NewFile(cfg.LogFile, cfg.Debug)
	if err != nil {
		common.PrintRuntimeErr(ctx, "init", "open_log", err)
		l = logger.NewNopLogger()
	} else {
		l = fl
	}
	if cfg.Debug {
		l = logger.NewMultiLogger(l, logger.NewConsole(errWriter(ctx), true))
	}
	return l
}

func newSealer(cfg *config.Config) (*encryption.Sealer, error) {
	key, err := keyring.LoadOrCreate(keyProviders(cfg.KeyDir())...)
	if err != nil {
		return nil, fmt.Errorf("session key: %w", err)
	}
	return encryption.NewSealer(key)
}

func (e *env) Close() error {
	return e.log.Close()
}

// requireSession loads the saved session without asking the server.
func (e *env) requireSession() error {
	if !e.app.Session().Load() || !e.app.Session().LoggedIn() {
		return errNotLoggedIn
	}
	return nil
}

// failure turns err into the error a command returns. The cause goes to
// the log only.
func (e *env) failure(err error, fallback string) error {
	return e.fail(err, app.Message(err, fallback))
}

// loadFailure is failure for commands that load data for display.
func (e *env) loadFailure(err error, fallback string) error {
	return e.fail(err, app.LoadMessage(err, fallback))
}

func (e *env) fail(err error, msg string) error {
	if posapi.IsTransport(err) {
		e.log.Warning("cmd: %v", err)
	} else {
		e.log.Error("cmd: %v", err)
	}
	if errors.Is(err, posapi.ErrUnauthorized) {
		return errSessionExpired
	}
	return errors.New(msg)
}

func outWriter(ctx *cli.Context) io.Writer {
	if ctx.App.Writer != nil {
		return ctx.App.Writer
	}
	return os.Stdout
}

func errWriter(ctx *cli.Context) io.Writer {
	if ctx.App.ErrWriter != nil {
		return ctx.App.ErrWriter
	}
	return os.Stderr
}

// action builds a command action: "help" as the first argument shows the
// command help, otherwise fn runs with a fresh env and a context that is
// cancelled on interrupt.
func action(name string, fn func(context.Context, *cli.Context, *env) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		if ctx.Args().First() == "help" {
			return cli.ShowCommandHelp(ctx, ctx.Command.Name)
		}
		e, err := newEnv(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := e.Close(); err != nil {
				common.PrintRuntimeErr(ctx, name, "close_log", err)
			}
		}()
		sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		e.log.Debug("cmd: %s", name)
		return fn(sctx, ctx, e)
	}
}
