package cmd

import (
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "jackcessctl",
		Short:        "jackcessctl",
		SilenceUsage: true,
		Long:         `CLI tool for exercising jackcessgo's SCSU codec, query reconstructor and expression evaluator against fixture files. See DESIGN.md.`,
	}

	directory string
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&directory, "directory", "d", ".", "directory holding jackcessgo.yaml and any fixtures")
	return rootCmd.Execute()
}

func init() {
}
