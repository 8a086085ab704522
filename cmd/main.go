package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"agenda/internal/caldav"
	"agenda/internal/config"
	"agenda/internal/ics"
	"agenda/internal/models"
	"agenda/internal/planner"
	"agenda/internal/store"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "agenda",
		Usage: "Record events, list them and spot the ones that collide.",
		Commands: []*cli.Command{
			addCommand(),
			removeCommand(),
			listCommand(),
			exportCommand(),
			importCommand(),
			publishCommand(),
			clearCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

// openStore loads the event set through the backend the config selects.
func openStore(cfg *config.Config) (*store.Store, error) {
	var snapshot store.Snapshot
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		snapshot = store.NewSQLiteSnapshot(cfg.Storage.Path)
	default:
		snapshot = store.NewFileSnapshot(cfg.Storage.Path)
	}
	return store.Open(snapshot)
}

func setup() (*config.Config, *store.Store, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := setupLogger(cfg.LogLevel)
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, st, logger, nil
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a new event.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "Name of the event."},
			&cli.StringFlag{Name: "start", Aliases: []string{"s"}, Required: true, Usage: "Start date and time (format: YYYY-MM-DD HH:MM)."},
			&cli.StringFlag{Name: "end", Aliases: []string{"e"}, Required: true, Usage: "End date and time (format: YYYY-MM-DD HH:MM)."},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Optional description."},
		},
		Action: func(c *cli.Context) error {
			_, st, logger, err := setup()
			if err != nil {
				return err
			}

			start, err := models.ParseDateTime(c.String("start"))
			if err != nil {
				return err
			}
			end, err := models.ParseDateTime(c.String("end"))
			if err != nil {
				return err
			}
			event, err := models.New(c.String("name"), start, end, c.String("description"))
			if err != nil {
				return err
			}

			// The store accepts conflicting events; the user just gets told.
			if planner.HasConflict(event, st.List(models.Window{})) {
				logger.Warn("New event conflicts with an existing one, adding anyway.", "name", event.Name)
			}

			if err := st.Add(event); err != nil {
				return err
			}
			if err := st.Save(); err != nil {
				return err
			}

			fmt.Printf("Event '%s' added successfully (ID: %s)\n", event.Name, event.ID)
			return nil
		},
	}
}

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove an event by its ID.",
		ArgsUsage: "EVENT_ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one event ID argument")
			}
			id, err := uuid.Parse(c.Args().First())
			if err != nil {
				return fmt.Errorf("invalid event ID %q: %w", c.Args().First(), err)
			}

			_, st, _, err := setup()
			if err != nil {
				return err
			}
			if err := st.Remove(id); err != nil {
				return err
			}
			if err := st.Save(); err != nil {
				return err
			}

			fmt.Printf("Event %s removed successfully\n", id)
			return nil
		},
	}
}

func windowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "from", Usage: "Only consider events ending after this time (format: YYYY-MM-DD HH:MM)."},
		&cli.StringFlag{Name: "to", Usage: "Only consider events starting before this time (format: YYYY-MM-DD HH:MM)."},
	}
}

// parseWindow builds the optional [from, to) filter from CLI flags.
func parseWindow(c *cli.Context) (models.Window, error) {
	var window models.Window
	if s := c.String("from"); s != "" {
		from, err := models.ParseDateTime(s)
		if err != nil {
			return models.Window{}, err
		}
		window.From = &from
	}
	if s := c.String("to"); s != "" {
		to, err := models.ParseDateTime(s)
		if err != nil {
			return models.Window{}, err
		}
		window.To = &to
	}
	return window, nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List events, or show the ones that conflict.",
		Flags: append(windowFlags(),
			&cli.BoolFlag{Name: "conflicts", Aliases: []string{"c"}, Usage: "Show only conflicting events."},
		),
		Action: func(c *cli.Context) error {
			_, st, _, err := setup()
			if err != nil {
				return err
			}
			window, err := parseWindow(c)
			if err != nil {
				return err
			}
			events := st.List(window)

			if c.Bool("conflicts") {
				printConflicts(st, events)
				return nil
			}

			if len(events) == 0 {
				fmt.Println("No events found")
				return nil
			}
			fmt.Println("Events:")
			for _, e := range events {
				fmt.Printf("\nID: %s\n", e.ID)
				fmt.Printf("Name: %s\n", e.Name)
				fmt.Printf("Start: %s\n", e.Start.Format(models.DateTimeLayout))
				fmt.Printf("End: %s\n", e.End.Format(models.DateTimeLayout))
				if e.Description != "" {
					fmt.Printf("Description: %s\n", e.Description)
				}
			}
			return nil
		},
	}
}

// printConflicts renders the conflict report, grouped by event and
// ordered like the listing.
func printConflicts(st *store.Store, events []models.Event) {
	conflicts := planner.Conflicts(events)
	if len(conflicts) == 0 {
		fmt.Println("No conflicts found")
		return
	}

	fmt.Println("Conflicts detected:")
	for _, e := range events {
		conflicting, ok := conflicts[e.ID.String()]
		if !ok {
			continue
		}
		fmt.Printf("\nEvent: %s (ID: %s)\n", e.Name, e.ID)
		fmt.Println("Conflicts with:")
		for _, other := range conflicting {
			fmt.Printf("  - %s (ID: %s)\n", other.Name, other.ID)
		}
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export events as an iCalendar (.ics) document.",
		Flags: append(windowFlags(),
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to this file instead of stdout."},
		),
		Action: func(c *cli.Context) error {
			_, st, _, err := setup()
			if err != nil {
				return err
			}
			window, err := parseWindow(c)
			if err != nil {
				return err
			}
			events := st.List(window)

			out := os.Stdout
			if path := c.String("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return ics.Export(out, events)
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import events from an iCalendar (.ics) file.",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one .ics file argument")
			}
			f, err := os.Open(c.Args().First())
			if err != nil {
				return fmt.Errorf("open ics file: %w", err)
			}
			defer f.Close()

			events, err := ics.Import(f)
			if err != nil {
				return err
			}

			_, st, logger, err := setup()
			if err != nil {
				return err
			}

			added := 0
			for _, e := range events {
				if err := st.Add(e); err != nil {
					if errors.Is(err, store.ErrDuplicateID) {
						logger.Warn("Skipping already imported event.", "name", e.Name, "id", e.ID)
						continue
					}
					return err
				}
				added++
			}
			if err := st.Save(); err != nil {
				return err
			}

			fmt.Printf("Imported %d event(s)\n", added)
			return nil
		},
	}
}

func publishCommand() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Upload the agenda to the configured CalDAV calendar.",
		Flags: windowFlags(),
		Action: func(c *cli.Context) error {
			cfg, st, logger, err := setup()
			if err != nil {
				return err
			}
			window, err := parseWindow(c)
			if err != nil {
				return err
			}

			client, err := caldav.NewClient(c.Context, logger,
				cfg.CalDAV.URL, cfg.CalDAV.Username, cfg.CalDAV.Password, cfg.CalDAV.Calendar)
			if err != nil {
				return fmt.Errorf("failed to create caldav client: %w", err)
			}
			return client.Publish(c.Context, st.List(window))
		},
	}
}

func clearCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Remove all events and the backing storage.",
		Action: func(c *cli.Context) error {
			_, st, _, err := setup()
			if err != nil {
				return err
			}
			if err := st.Clear(); err != nil {
				return err
			}
			fmt.Println("All events removed")
			return nil
		},
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
