package cli

import (
	"github.com/spf13/cobra"

	"github.com/sgaunet/dsxplorer/pkg/dbinit"
)

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the pending catalog migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			if !cfg.CatalogEnabled() {
				return ErrCatalogDisabled
			}
			return dbinit.Migrate(cfg.Database.URL, log)
		},
	}
}
