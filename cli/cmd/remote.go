package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jahlborn/jackcessgo/host"
)

var (
	remoteCmd = &cobra.Command{
		Use:   "remote",
		Short: "Lists the passthrough-query remotes named in jackcessgo.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			for name, r := range cfg.Remotes {
				dialect := host.ClassifyDialect(r.ConnectionType)
				fmt.Printf("%s\t%s\t%s\n", name, dialect, r.Path)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(remoteCmd)
}
