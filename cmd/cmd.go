package cmd

import (
	"fmt"
	"runtime"

	"github.com/touchpos/touchpos/cmd/common"
	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

func newApp(bArgs BuildArgs) *cli.App {
	app := cli.NewApp()
	app.Name = "touchpos"
	app.HelpName = "touchpos"
	app.Usage = "TouchScreenPOS inventory client."
	app.Version = fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType)
	app.UsageText = "touchpos [global options] <command> [arguments...]"
	app.Description = DESCRIPTION
	app.CustomAppHelpTemplate = HELP_TEMPL
	app.OnUsageError = common.UsageErrorCallback
	app.Flags = globalFlags
	app.HideHelp = true
	app.HideVersion = true
	app.Action = common.Help
	app.Commands = []cli.Command{
		{
			Name:               "login",
			Usage:              "log in and save the session",
			Description:        LoginDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             action("login", login),
			Flags:              loginFlags,
		},
		{
			Name:               "logout",
			Usage:              "end the session",
			Description:        LogoutDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             action("logout", logout),
		},
		{
			Name:               "whoami",
			Usage:              "show the logged in user",
			Description:        WhoamiDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             action("whoami", whoami),
		},
		{
			Name:               "session",
			Usage:              "show the saved session state",
			Description:        SessionDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             action("session", sessionInfo),
		},
		{
			Name:               "list",
			Aliases:            []string{"l"},
			Usage:              "list representations",
			Description:        ListDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             action("list", list),
		},
		{
			Name:               "show",
			Usage:              "show one representation",
			UsageText:          "<id>",
			Description:        ShowDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             action("show", show),
		},
		{
			Name:                   "catalog",
			Aliases:                []string{"c"},
			Usage:                  "show sellable articles by category",
			Description:            CatalogDescription,
			CustomHelpTemplate:     CMD_HELP_TEMPL,
			OnUsageError:           common.UsageErrorCallback,
			Action:                 action("catalog", catalogCmd),
			Flags:                  catalogFlags,
			UseShortOptionHandling: true,
		},
		{
			Name:               "prefetch",
			Usage:              "download article images into the cache",
			Description:        PrefetchDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             action("prefetch", prefetch),
			Flags:              prefetchFlags,
		},
		{
			Name:               "create",
			Usage:              "record a new representation",
			Description:        CreateDescription,
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action:             action("create", create),
			Flags:              createFlags,
		},
		{
			Name:    "help",
			Aliases: []string{"h"},
			Usage:   "prints the help message",
			Action:  common.Help,
		},
		{
			Name:               "version",
			Aliases:            []string{"v"},
			Usage:              "prints installed version of touchpos",
			UsageText:          " ",
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Action:             common.GetVersion,
		},
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app
}

func Execute(args []string, bArgs BuildArgs) error {
	return newApp(bArgs).Run(args)
}
