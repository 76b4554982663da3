package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"caldavclient/davclient"
	"caldavclient/ics"
)

func main() {
	// Load .env first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "caldavcli",
		Usage: "Exercise a CalDAV server: probe, discover calendars, manage events.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Usage: "CalDAV base URL", EnvVars: []string{"CALDAV_SERVER_URL"}, Required: true},
			&cli.StringFlag{Name: "username", EnvVars: []string{"CALDAV_USERNAME"}},
			&cli.StringFlag{Name: "password", EnvVars: []string{"CALDAV_PASSWORD"}},
			&cli.StringFlag{Name: "token", Usage: "Bearer token (instead of username/password)", EnvVars: []string{"CALDAV_TOKEN"}},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Enable request/response tracing."},
		},
		Commands: []*cli.Command{
			testCommand(),
			calendarsCommand(),
			eventsCommand(),
			createCommand(),
			updateCommand(),
			deleteCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func newClient(c *cli.Context) (*davclient.Client, error) {
	cred := davclient.Credential{
		BaseURL:  c.String("server"),
		Username: c.String("username"),
		Password: c.String("password"),
		Token:    c.String("token"),
	}
	if cred.Token != "" {
		cred.Kind = davclient.AuthBearer
	}

	opts := []davclient.Option{}
	if c.Bool("verbose") {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		opts = append(opts, davclient.WithLogger(logger))
	}
	return davclient.New(cred, opts...)
}

func testCommand() *cli.Command {
	return &cli.Command{
		Name:  "test",
		Usage: "Probe the server and report whether it is reachable.",
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			if !client.TestConnection(c.Context) {
				return fmt.Errorf("server %s is not reachable with the given credentials", client.BaseURL())
			}
			fmt.Println("connection ok")
			return nil
		},
	}
}

func calendarsCommand() *cli.Command {
	return &cli.Command{
		Name:  "calendars",
		Usage: "Discover the calendar collections available to this account.",
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			calendars, err := client.DiscoverCalendars(c.Context)
			if err != nil {
				return err
			}
			for _, cal := range calendars {
				fmt.Printf("%s\t%s\t%s\n", cal.Color, cal.Name, cal.URL)
			}
			return nil
		},
	}
}

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "List the events of a calendar, optionally within a time range.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "calendar", Usage: "Calendar collection URL", Required: true},
			&cli.TimestampFlag{Name: "from", Layout: time.RFC3339},
			&cli.TimestampFlag{Name: "to", Layout: time.RFC3339},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			var from, to time.Time
			if t := c.Timestamp("from"); t != nil {
				from = *t
			}
			if t := c.Timestamp("to"); t != nil {
				to = *t
			}
			events, err := client.GetEvents(c.Context, c.String("calendar"), from, to)
			if err != nil {
				return err
			}
			for _, ev := range events {
				layout := time.RFC3339
				if ev.AllDay {
					layout = "2006-01-02"
				}
				fmt.Printf("%s\t%s - %s\t%s\n", ev.Title, ev.Start.Format(layout), ev.End.Format(layout), ev.ResourceURL)
			}
			return nil
		},
	}
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create an event in a calendar.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "calendar", Usage: "Calendar collection URL", Required: true},
			&cli.StringFlag{Name: "title", Required: true},
			&cli.StringFlag{Name: "description"},
			&cli.StringFlag{Name: "location"},
			&cli.TimestampFlag{Name: "start", Layout: time.RFC3339, Required: true},
			&cli.TimestampFlag{Name: "end", Layout: time.RFC3339, Required: true},
			&cli.BoolFlag{Name: "all-day"},
			&cli.StringFlag{Name: "rrule", Usage: "Raw RRULE value, e.g. FREQ=WEEKLY;BYDAY=MO"},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			if rule := c.String("rrule"); rule != "" {
				if err := ics.ValidateRecurrenceRule(rule); err != nil {
					return err
				}
			}
			ev := ics.Event{
				Title:          c.String("title"),
				Description:    c.String("description"),
				Location:       c.String("location"),
				Start:          *c.Timestamp("start"),
				End:            *c.Timestamp("end"),
				AllDay:         c.Bool("all-day"),
				RecurrenceRule: c.String("rrule"),
			}
			created, err := client.CreateEvent(c.Context, c.String("calendar"), ev)
			if err != nil {
				return err
			}
			fmt.Printf("created %s at %s\n", created.UID, created.ResourceURL)
			return nil
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: "Replace an event at its resource URL.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Usage: "Event resource URL", Required: true},
			&cli.StringFlag{Name: "uid", Usage: "Event UID", Required: true},
			&cli.StringFlag{Name: "title", Required: true},
			&cli.StringFlag{Name: "description"},
			&cli.StringFlag{Name: "location"},
			&cli.TimestampFlag{Name: "start", Layout: time.RFC3339, Required: true},
			&cli.TimestampFlag{Name: "end", Layout: time.RFC3339, Required: true},
			&cli.BoolFlag{Name: "all-day"},
			&cli.StringFlag{Name: "rrule", Usage: "Raw RRULE value, e.g. FREQ=WEEKLY;BYDAY=MO"},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			if rule := c.String("rrule"); rule != "" {
				if err := ics.ValidateRecurrenceRule(rule); err != nil {
					return err
				}
			}
			ev := ics.Event{
				UID:            c.String("uid"),
				ResourceURL:    c.String("url"),
				Title:          c.String("title"),
				Description:    c.String("description"),
				Location:       c.String("location"),
				Start:          *c.Timestamp("start"),
				End:            *c.Timestamp("end"),
				AllDay:         c.Bool("all-day"),
				RecurrenceRule: c.String("rrule"),
			}
			if _, err := client.UpdateEvent(c.Context, ev); err != nil {
				return err
			}
			fmt.Println("updated")
			return nil
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete an event by its resource URL.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Usage: "Event resource URL", Required: true},
		},
		Action: func(c *cli.Context) error {
			client, err := newClient(c)
			if err != nil {
				return err
			}
			if err := client.DeleteEvent(c.Context, c.String("url")); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
}
