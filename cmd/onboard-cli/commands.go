package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-onboard/internal/ctxlog"
	"github.com/goliatone/go-onboard/internal/recordstore"
	"github.com/goliatone/go-onboard/pkg/flow"
	"github.com/goliatone/go-onboard/pkg/flowdef"
	"github.com/goliatone/go-onboard/pkg/openapi"
	"github.com/goliatone/go-onboard/pkg/orchestrator"
	"github.com/goliatone/go-onboard/pkg/render"
	"github.com/goliatone/go-onboard/pkg/renderers/html"
	"github.com/goliatone/go-onboard/pkg/renderers/tui"
)

var localeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "locale",
		Usage:   "Locale used to resolve titleKey/labelKey hints",
		EnvVars: []string{"ONBOARD_FLOWS_LOCALE"},
	},
	&cli.StringFlag{
		Name:  "strings",
		Usage: "YAML file of locale -> key -> text",
	},
	&cli.StringFlag{
		Name:  "preset",
		Usage: "JSON file of per-page overrides applied before the flow starts",
	},
}

func runCommand(e env) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run a flow interactively",
		ArgsUsage: "<flow-id>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format for collected data (json, form, pretty)",
				EnvVars: []string{"ONBOARD_OUTPUT_FORMAT"},
			},
		}, localeFlags...),
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			if c.IsSet("format") {
				cfg.Output.Format = c.String("format")
			}
			logger := ctxlog.FromContext(c.Context)

			def, err := loadFlow(c, cfg)
			if err != nil {
				return err
			}
			if err := flowdef.Lint(def).Err(); err != nil {
				return err
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			tuiOptions := []tui.Option{}
			if e.driver != nil {
				tuiOptions = append(tuiOptions, tui.WithPromptDriver(e.driver))
			} else {
				tuiOptions = append(tuiOptions, tui.WithPromptDriver(tui.NewSurveyDriver(e.stdout)))
			}
			backend, err := tui.New(tuiOptions...)
			if err != nil {
				return err
			}

			options, err := sessionOptions(c, cfg.Flows.Locale, def)
			if err != nil {
				return err
			}
			options = append(options, orchestrator.WithLogger(logger))

			var sessionID string
			if store != nil {
				sessionID, err = store.Begin(c.Context, "", def.ID)
				if err != nil {
					return err
				}
				options = append(options,
					orchestrator.WithSessionID(sessionID),
					orchestrator.WithOnSaveData(store.Callback(c.Context, sessionID, func(err error) {
						logger.Warn("record emission", "session", sessionID, "error", err)
					})),
				)
			}

			session, err := orchestrator.New(backend, def.Pages, options...)
			if err != nil {
				return err
			}

			runErr := session.Run(c.Context)
			if store != nil {
				status := recordstore.StatusCompleted
				if runErr != nil {
					status = recordstore.StatusAborted
				}
				if err := store.Finish(c.Context, sessionID, status); err != nil {
					logger.Warn("finish session", "session", sessionID, "error", err)
				}
			}
			if errors.Is(runErr, tui.ErrAborted) {
				return cli.Exit("aborted", 130)
			}
			if runErr != nil {
				return runErr
			}

			out, err := tui.Serialize(tui.OutputFormat(cfg.Output.Format), session.Snapshot().Data)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.stdout, strings.TrimRight(string(out), "\n"))
			return err
		},
	}
}

func previewCommand(e env) *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Render one page of a flow as HTML",
		ArgsUsage: "<flow-id>",
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page index to render",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output file (stdout if empty)",
			},
			&cli.StringFlag{
				Name:  "templates",
				Usage: "Directory of templates overriding the built-ins",
			},
		}, localeFlags...),
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			def, err := loadFlow(c, cfg)
			if err != nil {
				return err
			}

			var engineOptions []html.EngineOption
			if dir := c.String("templates"); dir != "" {
				engineOptions = append(engineOptions, html.WithTemplatesFS(os.DirFS(dir)))
			}
			if path := c.String("strings"); path != "" {
				translator, err := loadStrings(path)
				if err != nil {
					return err
				}
				engineOptions = append(engineOptions,
					html.WithTemplateFuncs(render.TemplateI18nFuncs(translator, render.TemplateI18nConfig{})),
					html.WithGlobalData(map[string]any{"locale": resolveLocale(c, cfg.Flows.Locale, def)}),
				)
			}
			htmlOptions := []html.Option{html.WithEngineOptions(engineOptions...)}
			backend, err := html.New(htmlOptions...)
			if err != nil {
				return err
			}

			options, err := sessionOptions(c, cfg.Flows.Locale, def)
			if err != nil {
				return err
			}
			options = append(options, orchestrator.WithInitialIndex(c.Int("page")))

			session, err := orchestrator.New(backend, def.Pages, options...)
			if err != nil {
				return err
			}
			markup, err := backend.Render(c.Context, session.View())
			if err != nil {
				return err
			}

			if path := c.String("out"); path != "" {
				if err := os.WriteFile(path, []byte(markup), 0o644); err != nil {
					return fmt.Errorf("write preview: %w", err)
				}
				fmt.Fprintf(e.stdout, "Preview written to %s\n", path)
				return nil
			}
			_, err = fmt.Fprintln(e.stdout, markup)
			return err
		},
	}
}

func lintCommand(e env) *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Check flow definitions for unknown tags and inconsistent pages",
		ArgsUsage: "[flow-id...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "field-type",
				Usage: "Additional field tag provided by the host",
			},
			&cli.StringSliceFlag{
				Name:  "page-type",
				Usage: "Additional page tag provided by the host",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			store, err := flowdef.LoadFS(os.DirFS(cfg.Flows.Dir))
			if err != nil {
				return err
			}

			ids := c.Args().Slice()
			if len(ids) == 0 {
				ids = store.IDs()
			}
			opts := []flowdef.LintOption{
				flowdef.WithFieldTypes(c.StringSlice("field-type")...),
				flowdef.WithPageTypes(c.StringSlice("page-type")...),
			}

			failed := 0
			for _, id := range ids {
				def, ok := store.Flow(id)
				if !ok {
					fmt.Fprintf(e.stdout, "%s: not found\n", id)
					failed++
					continue
				}
				report := flowdef.Lint(def, opts...)
				if report.Valid {
					fmt.Fprintf(e.stdout, "%s: ok\n", id)
					continue
				}
				failed++
				for _, issue := range report.Issues {
					fmt.Fprintf(e.stdout, "%s: %s\n", def.Source, issue)
				}
			}
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("%d flow(s) failed lint", failed), 1)
			}
			return nil
		},
	}
}

func openapiCommand(e env) *cli.Command {
	return &cli.Command{
		Name:      "openapi",
		Usage:     "Generate a flow definition from an OpenAPI schema",
		ArgsUsage: "<document>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "schema",
				Usage: "Component schema to turn into a page (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "operation",
				Usage: "Operation whose request body becomes a page (repeatable)",
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "ID of the generated flow",
				Value: "generated",
			},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("document path is required")
			}
			doc, err := openapi.NewLoader().Load(c.Context, openapi.SourceFromFile(path))
			if err != nil {
				return err
			}

			schemas := c.StringSlice("schema")
			operations := c.StringSlice("operation")
			if len(schemas) == 0 && len(operations) == 0 && doc.Components != nil {
				for name := range doc.Components.Schemas {
					schemas = append(schemas, name)
				}
				sort.Strings(schemas)
			}

			def := flowdef.Definition{ID: c.String("id")}
			for _, name := range schemas {
				page, err := openapi.PageFromSchema(doc, name)
				if err != nil {
					return err
				}
				def.Pages = append(def.Pages, page)
			}
			for _, id := range operations {
				page, err := openapi.PageFromOperation(doc, id)
				if err != nil {
					return err
				}
				def.Pages = append(def.Pages, page)
			}

			enc := yaml.NewEncoder(e.stdout)
			enc.SetIndent(2)
			if err := enc.Encode(def); err != nil {
				return fmt.Errorf("encode flow: %w", err)
			}
			return enc.Close()
		},
	}
}

func historyCommand(e env) *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "List recorded sessions, newest first",
		ArgsUsage: "[flow-id]",
		Action: func(c *cli.Context) error {
			store, err := openStore(configFrom(c))
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("session store is disabled")
			}
			defer store.Close()

			ids, err := store.List(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(e.stdout, id)
			}
			return nil
		},
	}
}

func showCommand(e env) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print the data collected by a recorded session",
		ArgsUsage: "<session-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (json, form, pretty)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			if c.IsSet("format") {
				cfg.Output.Format = c.String("format")
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("session store is disabled")
			}
			defer store.Close()

			sess, err := store.Get(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "# %s %s (%s)\n", sess.FlowID, sess.ID, sess.Status)
			out, err := tui.Serialize(tui.OutputFormat(cfg.Output.Format), sess.Data())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.stdout, strings.TrimRight(string(out), "\n"))
			return err
		},
	}
}

// sessionOptions collects the options shared by run and preview.
func sessionOptions(c *cli.Context, locale string, def flowdef.Definition) ([]orchestrator.Option, error) {
	var options []orchestrator.Option
	locale = resolveLocale(c, locale, def)
	if path := c.String("strings"); path != "" {
		translator, err := loadStrings(path)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithLocalizer(render.Localizer{Locale: locale, Translator: translator}))
	}
	if path := c.String("preset"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read preset: %w", err)
		}
		decorator, err := orchestrator.NewPresetDecorator(data)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithDecorators(decorator))
	}
	options = append(options, orchestrator.WithHooks(flow.Hooks{
		OnDone: func() {
			ctxlog.FromContext(c.Context).Info("flow completed", "flow", def.ID)
		},
	}))
	return options, nil
}

// resolveLocale prefers --locale, then the configured locale, then the
// flow's own.
func resolveLocale(c *cli.Context, configured string, def flowdef.Definition) string {
	if c.IsSet("locale") {
		return c.String("locale")
	}
	if configured != "" {
		return configured
	}
	return def.Locale
}
