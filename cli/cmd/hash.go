package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jahlborn/jackcessgo/expr"
)

var (
	hashCmd = &cobra.Command{
		Use:   "hash <expression>",
		Short: "Compute a stable hash of a parsed expression's debug tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				_ = cmd.Help()
				return errors.New("need to specify argument <expression>")
			}

			e, err := expr.Parse(expr.DefaultValue, args[0])
			if err != nil {
				return err
			}

			sum := sha256.Sum256([]byte(e.DebugString()))
			fmt.Println(hex.EncodeToString(sum[:]))
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(hashCmd)
}
