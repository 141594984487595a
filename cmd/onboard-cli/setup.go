package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-onboard/internal/config"
	"github.com/goliatone/go-onboard/internal/ctxlog"
	"github.com/goliatone/go-onboard/internal/recordstore"
	"github.com/goliatone/go-onboard/pkg/flowdef"
	"github.com/goliatone/go-onboard/pkg/render"
)

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Config file (YAML)",
		EnvVars: []string{"ONBOARD_CONFIG"},
	},
	&cli.StringFlag{
		Name:    "flows",
		Usage:   "Directory holding flow definitions",
		EnvVars: []string{"ONBOARD_FLOWS_DIR"},
	},
	&cli.StringFlag{
		Name:    "store",
		Usage:   "SQLite database for recorded sessions",
		EnvVars: []string{"ONBOARD_STORE_PATH"},
	},
	&cli.BoolFlag{
		Name:  "no-store",
		Usage: "Do not record sessions",
	},
	&cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error)",
		EnvVars: []string{"ONBOARD_LOG_LEVEL"},
	},
	&cli.BoolFlag{
		Name:  "verbose",
		Usage: "Shorthand for --log-level debug",
	},
}

type configKey struct{}

// setup loads configuration, applies flag overrides and installs the
// logger on the command context.
func setup(c *cli.Context, e env) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("flows") {
		cfg.Flows.Dir = c.String("flows")
	}
	if c.IsSet("store") {
		cfg.Store.Path = c.String("store")
	}
	if c.Bool("no-store") {
		cfg.Store.Enabled = false
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.Bool("verbose") {
		cfg.Log.Level = "debug"
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(e.stderr, opts)
	if cfg.Log.JSON {
		handler = slog.NewJSONHandler(e.stderr, opts)
	}
	ctx := ctxlog.WithLogger(c.Context, slog.New(handler))
	c.Context = context.WithValue(ctx, configKey{}, cfg)
	return nil
}

func configFrom(c *cli.Context) config.Config {
	cfg, _ := c.Context.Value(configKey{}).(config.Config)
	return cfg
}

func loadFlow(c *cli.Context, cfg config.Config) (flowdef.Definition, error) {
	id := c.Args().First()
	if id == "" {
		return flowdef.Definition{}, fmt.Errorf("flow id is required")
	}
	store, err := flowdef.LoadFS(os.DirFS(cfg.Flows.Dir))
	if err != nil {
		return flowdef.Definition{}, err
	}
	def, ok := store.Flow(id)
	if !ok {
		return flowdef.Definition{}, fmt.Errorf("flow %q not found in %s (available: %v)", id, cfg.Flows.Dir, store.IDs())
	}
	return def, nil
}

func openStore(cfg config.Config) (*recordstore.Store, error) {
	if !cfg.Store.Enabled {
		return nil, nil
	}
	return recordstore.Open(cfg.Store.Path)
}

// loadStrings reads a YAML file of locale -> key -> text into a translator.
func loadStrings(path string) (render.Translator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strings: %w", err)
	}
	var table map[string]map[string]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse strings %s: %w", path, err)
	}
	return render.TranslatorFunc(func(locale, key string, _ ...any) (string, error) {
		if text, ok := table[locale][key]; ok {
			return text, nil
		}
		return "", fmt.Errorf("no %q translation for %q", locale, key)
	}), nil
}
