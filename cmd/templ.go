package cmd

import (
	"github.com/touchpos/touchpos/common"
	"github.com/touchpos/touchpos/internal/config"
)

// envHelp lists the variables read at start up; flags take precedence.
const envHelp = "Environment:\n" +
	"   " + common.BaseURLEnv + "\tAPI origin\n" +
	"   " + common.DataDirEnv + "\tdata directory\n" +
	"   " + common.ProxyEnv + "\tproxy URL\n" +
	"   " + common.APITimeoutEnv + "\tlimit for each API call, e.g. 30s\n" +
	"   " + common.DownloadSlotsEnv + "\tconcurrent image downloads\n" +
	"   " + common.SealSessionEnv + "\tencrypt the saved session (1/0)\n" +
	"   " + common.DebugEnv + "\tdebug logging (1/0)\n"

const filesHelp = "Files, under the data directory (default <user config dir>/" + config.AppDirName + "):\n" +
	"   session.json\tsaved session cookies\n" +
	"   session.key\tsealing key when no OS keyring is available\n" +
	"   logs/touch-debug.log\tdebug log\n" +
	"   cache/images/\tdownloaded article images\n" +
	"   last-create-representation.txt\tlast rejected create request and response\n"

const HELP_TEMPL = "{{.Name}} - {{.Usage}}\n\n" +
	"Usage:\n   {{.UsageText}}\n" +
	"{{.Description}}" +
	"\nCommands:{{range .VisibleCommands}}\n   {{index .Names 0}}\t{{.Usage}}{{end}}\n" +
	"{{if .VisibleFlags}}\nGlobal options:{{range .VisibleFlags}}\n   {{.}}{{end}}\n{{end}}" +
	"\n" + envHelp +
	"\n" + filesHelp +
	"\nRun \"{{.HelpName}} help <command>\" for the options of a command.\n\n"

const CMD_HELP_TEMPL = "{{.HelpName}} - {{.Usage}}\n\n" +
	"Usage:\n   {{.HelpName}}{{if .VisibleFlags}} [options]{{end}}{{if .UsageText}} {{.UsageText}}{{end}}\n" +
	"{{if .Aliases}}\nAliases: {{range $i, $a := .Aliases}}{{if $i}}, {{end}}{{$a}}{{end}}\n{{end}}" +
	"{{if .Description}}\n{{.Description}}{{else}}\n{{end}}" +
	"{{if .VisibleFlags}}Options:{{range .VisibleFlags}}\n   {{.}}{{end}}\n\n{{end}}"
