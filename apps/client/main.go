package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/trezcool/shms/client"
	"github.com/trezcool/shms/core"
	logsvc "github.com/trezcool/shms/services/logger"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger("CLIENT : ", conf), conf)
	logger.Enable(false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cmds commands
	app := &cli.App{
		Name:  "shms",
		Usage: "smart hostel management client",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Value: conf.Client.BaseURL, Usage: "API base URL"},
			&cli.StringFlag{Name: "store", Value: conf.Client.StorePath, Usage: "local store file"},
		},
		Before: func(c *cli.Context) error {
			conf.Client.BaseURL = c.String("server")
			store, err := client.OpenStore(c.String("store"))
			if err != nil {
				return err
			}
			cmds = commands{ctl: client.New(conf, store, logger), store: store, out: os.Stdout}
			return nil
		},
		After: func(c *cli.Context) error {
			if cmds.store != nil {
				return cmds.store.Close()
			}
			return nil
		},
		Commands: cmds.list(),
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
