package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/sgaunet/dsxplorer/pkg/browser"
	"github.com/sgaunet/dsxplorer/pkg/config"
	"github.com/sgaunet/dsxplorer/pkg/dataset"
	"github.com/sgaunet/dsxplorer/pkg/upload"
)

func newUploadCmd(opts *options) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "upload <uri> <file> [file...]",
		Short: "Upload local files into a dataset",
		Long: `Upload local files into a dataset location.

Directories are uploaded recursively and keep their structure below the
location. Files are sent with presigned requests, through the API server
when api.baseurl is configured.`,
		Example: "  dsxplorer upload -f config.yaml s3://datasets/private/jdoe/datasets/notes/raw/ a.csv results/",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			files, err := collectLocalFiles(args[1:])
			if err != nil {
				return err
			}
			svc, err := newServices(cmd.Context(), cfg, log, true)
			if err != nil {
				return err
			}
			defer svc.close()

			u := upload.New(svc.presigner(), cfg.API.RetryMax)
			u.SetLogger(log)
			if rec := svc.recorder(); rec != nil {
				u.SetRecorder(rec, cfg.S3.Scheme, cfg.S3.Bucket)
			}
			var progress io.Writer = io.Discard
			if !quiet {
				progress = cmd.ErrOrStderr()
			}

			keys, err := uploadFiles(cmd.Context(), cfg, u, svc.identity(), args[0], files, progress)
			for _, key := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not display the progress bar")
	return cmd
}

// uploadFiles queues files in a manage mode browser opened at uri and hands
// the queue to the uploader. It returns the uploaded object keys.
func uploadFiles(ctx context.Context, cfg config.Config, u *upload.Uploader, id browser.Identity, uri string, files []browser.LocalFile, progress io.Writer) ([]string, error) {
	bcfg := browserConfig(cfg)
	bcfg.ManageMode = true
	b := browser.New(bcfg, nil, nil, id, nil)
	defer b.Close()

	b.SetResource(uri)
	state := b.State()
	if state.Mode() != browser.ModeResource {
		return nil, fmt.Errorf("upload: %q: %w", uri, ErrNotDataset)
	}
	b.AddLocalFiles(files)
	queued := b.UploadFiles()

	var total int64
	for _, f := range queued {
		total += f.Size
	}
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(fmt.Sprintf("uploading %d file(s)", len(queued))),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(progress, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	u.SetProgress(bar)

	scope := dataset.ResolveScope(state.Context, browser.PrincipalOf(id))
	keys, err := u.Upload(ctx, *state.Context, scope, queued)
	if err != nil {
		return keys, err
	}
	_ = bar.Finish()
	return keys, nil
}

// collectLocalFiles expands the paths given on the command line. Files keep
// their base name, files found in a directory are relative to the parent of
// that directory.
func collectLocalFiles(paths []string) ([]browser.LocalFile, error) {
	var files []browser.LocalFile
	for _, p := range paths {
		root := filepath.Dir(filepath.Clean(p))
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, browser.LocalFile{LocalPath: path, RelPath: rel, Size: info.Size()})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("upload: %w", err)
		}
	}
	return files, nil
}
