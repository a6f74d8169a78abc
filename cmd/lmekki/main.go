package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/lmekki/internal/app"
	"github.com/matheus3301/lmekki/internal/tui"
	"go.uber.org/fx"
)

func main() {
	configFlag := flag.String("config", "", "config file (default ~/.lmekki/config.toml)")
	flag.Parse()

	var client app.Client
	fxApp := fx.New(
		app.Module(app.Params{ConfigPath: *configFlag}),
		fx.NopLogger,
		fx.Populate(&client),
	)
	if err := fxApp.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ui := tui.NewApp(tui.Deps{
		Directory: client.Directory,
		Convs:     client.Convs,
		Chat:      client.Chat,
		AI:        client.AI,
		Presenter: client.Presenter,
		Media:     client.Media,
		Speech:    client.Speech,
		Profile:   client.Profile,
		Bus:       client.Bus,
		Logger:    client.Logger.Named("tui"),
	})
	runErr := ui.Run()
	ui.Stop()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelStop()
	if err := fxApp.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}
