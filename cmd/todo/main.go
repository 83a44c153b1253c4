package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/todo-service/internal/cli"
	"github.com/idilsaglam/todo-service/internal/client"
	"github.com/idilsaglam/todo-service/internal/ui"
)

// serverEnv overrides the default server URL.
const serverEnv = "TODO_SERVER"

func main() {
	// Root flags (apply to every subcommand)
	defServer := os.Getenv(serverEnv)
	if defServer == "" {
		defServer = client.DefaultServer
	}
	groupPending := flag.Bool("group", false, "group output by pending/done")
	server := flag.String("server", defServer, "todo service URL (env "+serverEnv+")")
	theme := flag.String("theme", "classic", "color theme: classic, neon, mono")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	ui.SetTheme(*theme)

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		Group:  *groupPending,
		Server: *server,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
