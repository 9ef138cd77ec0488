package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/sonnes/bellhop/reader/hotelzify"
)

func fetchCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Fetch raw conversation data from the chatbot API",
		Description: `Prints one page of messages wrapped with a total count and fetch time,
or the conversation details record with --details. Useful for checking
credentials and paging before rendering.`,
		Flags: flags(
			[]cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Usage:    "Conversation ID",
					Required: true,
				},
				&cli.BoolFlag{
					Name:  "details",
					Usage: "Fetch conversation details instead of messages",
				},
				&cli.IntFlag{
					Name:  "page",
					Usage: "Page number",
					Value: hotelzify.DefaultOptions().Page,
				},
				&cli.IntFlag{
					Name:  "page-size",
					Usage: "Messages per page",
					Value: hotelzify.DefaultOptions().PageSize,
				},
				&cli.StringFlag{
					Name:  "sort",
					Usage: "Timestamp order: asc, desc",
					Value: string(hotelzify.SortAsc),
				},
			},
			sourceFlags(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client := newAPIClient(cmd)
			id := cmd.String("id")

			var out any
			if cmd.Bool("details") {
				details, err := client.FetchDetails(ctx, id)
				if err != nil {
					return err
				}
				out = details
			} else {
				order := hotelzify.SortOrder(cmd.String("sort"))
				if order != hotelzify.SortAsc && order != hotelzify.SortDesc {
					return fmt.Errorf("unknown sort order %q", order)
				}
				resp, err := client.FetchMessages(ctx, id, hotelzify.Options{
					Page:      int(cmd.Int("page")),
					PageSize:  int(cmd.Int("page-size")),
					SortOrder: order,
				})
				if err != nil {
					return err
				}
				out = hotelzify.FormatResponse(resp, time.Now())
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
