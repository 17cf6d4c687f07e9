package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/sgaunet/dsxplorer/pkg/dataset"
)

// decoded is the output of the decode command.
type decoded struct {
	Type     dataset.Type `yaml:"type"`
	Scope    string       `yaml:"scope,omitempty"`
	Name     string       `yaml:"name"`
	Location string       `yaml:"location"`
	Prefix   string       `yaml:"prefix"`
	Object   string       `yaml:"object"`
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "decode <uri>",
		Short:   "Print the dataset components of a storage URI",
		Example: "  dsxplorer decode s3://datasets/project/p1/datasets/survey/raw/a.csv",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := dataset.DecodeComponents(args[0])
			if c.IsZero() {
				return fmt.Errorf("decode: %q: %w", args[0], ErrNotDataset)
			}
			out, err := yaml.Marshal(decoded(c))
			if err != nil {
				return fmt.Errorf("decode: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
