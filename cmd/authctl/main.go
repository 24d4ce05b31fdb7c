package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/blogauth/internal/client/cli"
	"github.com/dmitrijs2005/blogauth/internal/client/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	cfg, args, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 2
	}

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer app.Close()

	if err := app.Run(ctx, args); err != nil {
		if !errors.Is(err, cli.ErrUnknownCommand) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}
