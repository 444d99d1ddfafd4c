package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Kokonaut/todo-app-demo/internal/api"
	"github.com/Kokonaut/todo-app-demo/internal/cli"
	"github.com/Kokonaut/todo-app-demo/internal/config"
	"github.com/Kokonaut/todo-app-demo/internal/session"
	"github.com/Kokonaut/todo-app-demo/internal/tui"
)

func main() {
	flag.Usage = func() { cli.PrintHelp() }
	flag.Parse()

	cfg := config.ClientFromEnv()

	sess, err := session.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "auth setup: "+err.Error())
		os.Exit(1)
	}
	client := api.NewClient(cfg.APIBaseURL, sess)

	args := flag.Args()
	if len(args) == 0 {
		// No subcommand: open the interactive list.
		if err := tui.Run(client); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	os.Exit(cli.Run(args, cli.Deps{API: client, Session: sess}))
}
