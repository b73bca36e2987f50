package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jahlborn/jackcessgo/internal/lint"
)

var (
	lintCmd = &cobra.Command{
		Use:   "lint [dir]",
		Short: "Scan a Go module for expr.MustParse(...) literals that fail to parse",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				_ = cmd.Help()
				return errors.New("too many arguments")
			}
			dir := directory
			if len(args) == 1 {
				dir = args[0]
			}

			pkgs, err := lint.LoadPackages(dir)
			if err != nil {
				return err
			}
			diags := lint.CheckMustParseCalls(pkgs)
			if len(diags) == 0 {
				fmt.Println("no invalid expr.MustParse literals found")
				return nil
			}
			for _, d := range diags {
				fmt.Println(d.String())
			}
			return fmt.Errorf("%d invalid expr.MustParse literal(s) found", len(diags))
		},
	}
)

func init() {
	rootCmd.AddCommand(lintCmd)
}
