package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sgaunet/dsxplorer/pkg/scanner"
)

func newSyncCmd(opts *options) *cobra.Command {
	var deletionSync bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Scan the bucket once and sync the dataset catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			if !cfg.CatalogEnabled() {
				return ErrCatalogDisabled
			}
			if cmd.Flags().Changed("deletion-sync") {
				cfg.Scan.DeletionSync = deletionSync
			}
			// the catalog is only reachable through the bucket
			cfg.API.BaseURL = ""

			svc, err := newServices(cmd.Context(), cfg, log, true)
			if err != nil {
				return err
			}
			defer svc.close()

			scan := scanner.NewService(cfg.Scan, svc.s3, svc.catalog)
			scan.SetLogger(log)
			stats, err := scan.ScanBucket(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "found %d, created %d, deleted %d\n", stats.Found, stats.Created, stats.Deleted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&deletionSync, "deletion-sync", false, "Remove the catalog entries of datasets no longer in the bucket")
	return cmd
}
