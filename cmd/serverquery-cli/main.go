// Command serverquery-cli is an interactive ServerQuery shell.
//
// Usage:
//
//	serverquery-cli -addr 127.0.0.1:10011 -user serveradmin -sid 1
//
// The connection is opened on the first command that needs it. The server is
// selected and the login is sent right before that command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/pior/serverquery"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "serverquery-cli:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	password := cfg.Password
	if password == "" {
		if password, err = readPassword(fmt.Sprintf("Password for %s: ", cfg.Username)); err != nil {
			return err
		}
	}

	base := serverquery.NewClient(serverquery.Config{
		CommandTimeout: cfg.CommandTimeout,
		Logger:         &logger,
	})
	retrying := serverquery.NewRetryClient(base, serverquery.RetryConfig{
		Attempts: cfg.Attempts,
		Delay:    cfg.Delay,
		Logger:   &logger,
	})
	client := serverquery.NewLazyClient(retrying)
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := client.Connect(ctx, cfg.Addr); err != nil {
		return err
	}
	if cfg.ServerID > 0 {
		if _, err := client.Execute(ctx, serverquery.CmdUse, cfg.ServerID); err != nil {
			return err
		}
	}
	if password != "" {
		if _, err := client.Login(ctx, cfg.Username, password); err != nil {
			return err
		}
	}

	logger.Info().Str("addr", cfg.Addr).Int("sid", cfg.ServerID).Msg("ready, type help for usage")

	input := newLineReader("serverquery> ")
	defer input.Close()

	sh := &shell{client: client, base: base, retries: retrying, out: os.Stdout}
	for {
		line, err := input.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !sh.handle(ctx, line) {
			return nil
		}
	}
}

// parseFlags builds the configuration from defaults, the optional config
// file and the flags explicitly set, in that order.
func parseFlags(args []string) (config, error) {
	cfg := defaultConfig()

	fs := flag.NewFlagSet("serverquery-cli", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a TOML config file")
	addr := fs.String("addr", cfg.Addr, "server query address (host:port)")
	user := fs.String("user", cfg.Username, "login name")
	password := fs.String("password", "", "login password (prompted when empty)")
	sid := fs.Int("sid", cfg.ServerID, "virtual server id to select, 0 to skip")
	attempts := fs.Int("attempts", cfg.Attempts, "attempts per command, including the first")
	delay := fs.Duration("delay", cfg.Delay, "delay between attempts")
	timeout := fs.Duration("timeout", cfg.CommandTimeout, "command response timeout")
	verbose := fs.Bool("v", false, "log every line sent and received")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if *configPath != "" {
		var err error
		if cfg, err = loadConfig(*configPath, cfg); err != nil {
			return config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "user":
			cfg.Username = *user
		case "password":
			cfg.Password = *password
		case "sid":
			cfg.ServerID = *sid
		case "attempts":
			cfg.Attempts = *attempts
		case "delay":
			cfg.Delay = *delay
		case "timeout":
			cfg.CommandTimeout = *timeout
		case "v":
			cfg.Verbose = *verbose
		}
	})

	return cfg, nil
}
