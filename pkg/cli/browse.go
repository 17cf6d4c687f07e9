package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/tui"
)

func newBrowseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "browse [uri]",
		Short: "Browse the datasets in the terminal",
		Long: `Browse the datasets in the terminal.

When a dataset URI is given the browser opens at its location, otherwise at
the list of dataset types.`,
		Example: "  dsxplorer browse -f config.yaml s3://datasets/global/datasets/census/",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			// the terminal belongs to the interface
			log := slog.New(slog.DiscardHandler)

			svc, err := newServices(cmd.Context(), cfg, log, true)
			if err != nil {
				return err
			}
			defer svc.close()

			events := tui.NewEvents()
			id := svc.identity()
			b := browser.New(browserConfig(cfg), svc.lister(), browser.FilterCatalog(svc.datasets(), id), id, events)
			b.SetLogger(log)
			defer b.Close()

			if len(args) == 1 {
				b.SetResource(args[0])
			}
			return tui.Run(b, events)
		},
	}
}
