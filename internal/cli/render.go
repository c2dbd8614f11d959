package cli

import (
	"github.com/spf13/cobra"
)

func newRenderCmd(opts *options) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write one page of the feed to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.close()

			out, err := a.builder.Render(cmd.Context(), page)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number; out of range values are clamped")
	return cmd
}
