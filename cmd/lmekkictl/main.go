package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/matheus3301/lmekki/internal/ai"
	"github.com/matheus3301/lmekki/internal/config"
	"github.com/matheus3301/lmekki/internal/logging"
	"github.com/matheus3301/lmekki/internal/paths"
	"github.com/matheus3301/lmekki/internal/profile"
	"github.com/matheus3301/lmekki/internal/seed"
	"go.uber.org/zap"
)

func main() {
	configFlag := flag.String("config", "", "config file (default ~/.lmekki/config.toml)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	configPath := *configFlag
	if configPath == "" {
		configPath = paths.ConfigPath()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var err error
	switch args[0] {
	case "init":
		err = cmdInit(configPath, args[1:])
	case "contacts":
		err = cmdContacts(args[1:])
	case "ask":
		err = cmdAsk(ctx, configPath, args[1:])
	case "imagine":
		err = cmdImagine(ctx, configPath, args[1:])
	case "card":
		err = cmdCard(configPath)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: lmekkictl [--config <path>] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  init [--force]               Write a default config file")
	fmt.Fprintln(os.Stderr, "  contacts [--json]            Print the contact directory")
	fmt.Fprintln(os.Stderr, "  ask <text>                   Ask the assistant, streaming the reply")
	fmt.Fprintln(os.Stderr, "  imagine [-o file] <prompt>   Generate an image")
	fmt.Fprintln(os.Stderr, "  card                         Print your profile QR card")
}

func newLogger() (*zap.Logger, error) {
	return logging.New(logging.Options{
		Path:   paths.LogPath("lmekkictl"),
		App:    "lmekkictl",
		Stderr: true,
	})
}

func cmdInit(configPath string, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	force := fs.Bool("force", false, "overwrite an existing config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil && !*force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	if err := config.Save(configPath, config.Default()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Printf("Wrote %s\n", configPath)
	return nil
}

func cmdContacts(args []string) error {
	fs := flag.NewFlagSet("contacts", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "output in JSON format")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := seed.Load()
	if err != nil {
		return err
	}
	if *jsonOut {
		return outputJSON(s.Contacts)
	}
	for _, c := range s.Contacts {
		marker := " "
		if c.ID == s.AI.ContactID {
			marker = "✦"
		}
		fmt.Printf("%s %-12s %-20s %5s  %s\n", marker, c.ID, c.Name, c.LastMessageTime, c.LastMessage)
	}
	return nil
}

// newAdapter builds a one-shot AI adapter from config and the seeded persona.
func newAdapter(ctx context.Context, configPath string, logger *zap.Logger) (*ai.Adapter, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	s, err := seed.Load()
	if err != nil {
		return nil, err
	}
	adapter, err := ai.New(ctx, ai.Options{
		APIKey:     cfg.ResolveAPIKey(),
		Persona:    s.AI.Persona,
		ChatModel:  s.AI.ChatModel,
		ImageModel: s.AI.ImageModel,
	}, logger)
	if err != nil {
		return nil, err
	}
	if !adapter.Available() {
		return nil, fmt.Errorf("%w: set %s", ai.ErrUnavailable, config.EnvAPIKey)
	}
	return adapter, nil
}

func cmdAsk(ctx context.Context, configPath string, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return errors.New("usage: lmekkictl ask <text>")
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	adapter, err := newAdapter(ctx, configPath, logger)
	if err != nil {
		return err
	}
	for delta, err := range adapter.SendAndStream(ctx, text) {
		if err != nil {
			fmt.Println()
			return err
		}
		fmt.Print(delta)
	}
	fmt.Println()
	return nil
}

func cmdImagine(ctx context.Context, configPath string, args []string) error {
	fs := flag.NewFlagSet("imagine", flag.ContinueOnError)
	out := fs.String("o", "image.png", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	prompt := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if prompt == "" {
		return errors.New("usage: lmekkictl imagine [-o file] <prompt>")
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	adapter, err := newAdapter(ctx, configPath, logger)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	img, err := adapter.GenerateImage(ctx, prompt)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, img.Data, 0600); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	fmt.Printf("Wrote %s (%s, %d bytes)\n", *out, img.MIMEType, len(img.Data))
	return nil
}

func cmdCard(configPath string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	p := profile.FromConfig(cfg)
	card, err := p.QRCard()
	if err != nil {
		return err
	}
	fmt.Println(card)
	fmt.Printf("%s · %s\n", p.Name, p.Status)
	return nil
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
