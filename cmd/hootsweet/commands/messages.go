package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/hootsweet"
	"github.com/florianilch/hootsweet/internal/app"
)

func messagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "messages",
		Usage: "Schedule and manage messages",
		Commands: []*cli.Command{
			messagesScheduleCommand(),
			messagesListCommand(),
			{
				Name:      "get",
				Usage:     "Show a message",
				ArgsUsage: "<message-id>",
				Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					id, err := requireArg(cmd, "message-id")
					if err != nil {
						return err
					}
					resp, err := a.Client().GetMessage(ctx, id)
					if err != nil {
						return err
					}
					return printJSON(cmd, resp)
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete a message",
				ArgsUsage: "<message-id>",
				Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					id, err := requireArg(cmd, "message-id")
					if err != nil {
						return err
					}
					if _, err := a.Client().DeleteMessage(ctx, id); err != nil {
						return err
					}
					fmt.Fprintf(cmd.Root().Writer, "Message %s deleted\n", id)
					return nil
				}),
			},
		},
	}
}

func messagesScheduleCommand() *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "Schedule a message on one or more social profiles",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "text", Usage: "message text", Required: true},
			&cli.StringSliceFlag{Name: "profile", Usage: "social profile id (repeatable)", Required: true},
			&cli.StringFlag{Name: "at", Usage: "send time in RFC 3339, e.g. 2026-01-02T15:04:05+01:00", Required: true},
			&cli.BoolFlag{Name: "email-notification", Usage: "email the member once the message is sent"},
		},
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			sendTime, err := parseTime(cmd.String("at"))
			if err != nil {
				return err
			}
			resp, err := a.Client().ScheduleMessage(ctx, hootsweet.ScheduleMessageRequest{
				Text:              cmd.String("text"),
				SocialProfileIDs:  cmd.StringSlice("profile"),
				SendTime:          sendTime,
				EmailNotification: cmd.Bool("email-notification"),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		}),
	}
}

func messagesListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List outbound messages in a time range",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "start", Usage: "range start in RFC 3339 (default: now)"},
			&cli.StringFlag{Name: "end", Usage: "range end in RFC 3339 (default: start + 7 days)"},
			&cli.StringFlag{Name: "state", Usage: "only messages in this state, e.g. SCHEDULED"},
			&cli.StringSliceFlag{Name: "profile", Usage: "social profile id (repeatable)"},
			&cli.IntFlag{Name: "limit", Usage: "maximum number of messages", Value: hootsweet.DefaultMessageLimit},
		},
		Action: withApp(func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			start := time.Now()
			if cmd.IsSet("start") {
				t, err := parseTime(cmd.String("start"))
				if err != nil {
					return err
				}
				start = t
			}
			end := start.Add(7 * 24 * time.Hour)
			if cmd.IsSet("end") {
				t, err := parseTime(cmd.String("end"))
				if err != nil {
					return err
				}
				end = t
			}

			resp, err := a.Client().GetOutboundMessages(ctx, hootsweet.OutboundMessagesQuery{
				StartTime:        start,
				EndTime:          end,
				State:            hootsweet.MessageState(cmd.String("state")),
				SocialProfileIDs: cmd.StringSlice("profile"),
				Limit:            cmd.Int("limit"),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		}),
	}
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected RFC 3339): %w", value, err)
	}
	return t, nil
}
