package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

// ErrNotDataset is returned for URIs that do not designate a dataset.
var ErrNotDataset = errors.New("not a dataset URI")

const lsDateFormat = "2006-01-02 15:04:05"

func newLsCmd(opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "ls <uri>",
		Short: "List the content of a dataset location",
		Long: `List the entries directly under a dataset location.

Only the first page of the listing is printed unless --all is given.`,
		Example: "  dsxplorer ls -f config.yaml s3://datasets/private/jdoe/datasets/notes/raw/",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			svc, err := newServices(cmd.Context(), cfg, log, false)
			if err != nil {
				return err
			}
			defer svc.close()
			return listDataset(cmd.Context(), cmd.OutOrStdout(), svc.lister(), svc.identity(), args[0], cfg.Browser.ListPageSize, all)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Follow the continuation tokens and list every entry")
	return cmd
}

// listDataset prints the entries under the location of uri, one per line:
// prefixes first as "PRE name/", then objects with their date and size.
func listDataset(ctx context.Context, w io.Writer, lister browser.Lister, id browser.Identity, uri string, pageSize int, all bool) error {
	target := dataset.Decode(uri)
	if target == nil || !target.Type.Known() {
		return fmt.Errorf("ls: %q: %w", uri, ErrNotDataset)
	}

	req := browser.ListRequest{
		Type:        target.Type,
		Scope:       dataset.ResolveScope(target, browser.PrincipalOf(id)),
		DatasetName: target.Name,
		Prefix:      dataset.PrefixForPath(target.Location),
		PageSize:    pageSize,
	}

	var rows [][]string
	for {
		res, err := lister.ListDatasetContents(ctx, req)
		if err != nil {
			return fmt.Errorf("ls: %w", err)
		}
		for _, r := range res.Contents {
			rows = append(rows, resourceRow(r))
		}
		if res.NextToken == "" {
			break
		}
		if !all {
			writeRows(w, rows)
			fmt.Fprintln(w, "(more entries, use --all to list them)")
			return nil
		}
		req.NextToken = res.NextToken
	}
	writeRows(w, rows)
	return nil
}

const sizeColumn = 1

// writeRows prints the rows as borderless aligned columns.
func writeRows(w io.Writer, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		StyleFunc(func(_, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingRight(1)
			if col == sizeColumn {
				return style.Align(lipgloss.Right)
			}
			return style
		}).
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}

// resourceRow returns the date, size and name columns of a resource.
// Prefixes show PRE in place of the size.
func resourceRow(r dataset.Resource) []string {
	name := dataset.LastComponent(r.Path())
	if r.Type == dataset.ResourcePrefix {
		return []string{"", "PRE", name}
	}
	modified := ""
	if r.LastModified != nil {
		modified = r.LastModified.Format(lsDateFormat)
	}
	size := "-"
	if r.Size != nil && *r.Size >= 0 {
		size = humanize.IBytes(uint64(*r.Size))
	}
	return []string{modified, size, name}
}
