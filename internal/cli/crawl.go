package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/nypl-labs/menufeed/internal/crawler"
	"github.com/nypl-labs/menufeed/internal/logging"
)

func newCrawlCmd(opts *options) *cobra.Command {
	var (
		maxPages int
		delay    time.Duration
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "crawl URL",
		Short: "Walk a served feed by its pagination links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(logging.Config{Level: opts.logLevel, Output: cmd.ErrOrStderr()})

			c := crawler.New(&http.Client{Timeout: timeout}, logging.Component(logger, "crawler"))
			c.MaxPages = maxPages
			c.Delay = delay

			res, err := c.Crawl(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range res.Pages {
				fmt.Fprintf(out, "%s\t%d entries\t%d with dishes\n", p.URL, p.Entries, p.WithDishes)
			}
			fmt.Fprintf(out, "%d pages, %d entries", len(res.Pages), res.Entries)
			if res.Truncated {
				fmt.Fprint(out, " (stopped at --max-pages)")
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxPages, "max-pages", crawler.DefaultMaxPages, "stop after this many pages")
	cmd.Flags().DurationVar(&delay, "delay", crawler.DefaultDelay, "pause between requests")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout")
	return cmd
}
