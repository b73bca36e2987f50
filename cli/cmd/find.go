package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jahlborn/jackcessgo/expr"
)

var (
	findCmd = &cobra.Command{
		Use:   "find [dir]",
		Short: "Walk a directory tree for *.expr fixtures and report which parse",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				_ = cmd.Help()
				return errors.New("too many arguments")
			}

			dir := directory
			if len(args) == 1 {
				dir = args[0]
			}

			failures := 0
			err := filepath.Walk(dir, func(path string, info fs.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() || !strings.HasSuffix(info.Name(), ".expr") {
					return nil
				}
				content, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if _, parseErr := expr.Parse(expr.DefaultValue, string(content)); parseErr != nil {
					failures++
					fmt.Printf("%s: %v\n", path, parseErr)
					return nil
				}
				fmt.Printf("%s: ok\n", path)
				return nil
			})
			if err != nil {
				return err
			}
			if failures > 0 {
				return fmt.Errorf("%d fixture(s) failed to parse", failures)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(findCmd)
}
