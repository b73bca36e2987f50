package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jahlborn/jackcessgo/query"
)

// rowSetFixture is the on-disk JSON shape a "render" fixture takes: the
// saved query's name, its owning object flag, and the denormalized rows
// Access stores for it in MSysQueries.
type rowSetFixture struct {
	Name       string          `json:"name"`
	ObjectFlag query.ObjectFlag `json:"objectFlag"`
	Rows       query.RowSet     `json:"rows"`
}

var (
	renderCmd = &cobra.Command{
		Use:   "render <fixture.json>",
		Short: "Reconstruct the SQL string for a query row-set fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				_ = cmd.Help()
				return errors.New("need to specify argument <fixture.json>")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var fixture rowSetFixture
			if err := json.Unmarshal(data, &fixture); err != nil {
				return fmt.Errorf("render: decoding fixture: %w", err)
			}

			result := query.Render(fixture.Name, fixture.ObjectFlag, fixture.Rows)
			if result.Unknown {
				fmt.Printf("%s: could not be reconstructed, %d raw row(s) retained\n", fixture.Name, len(result.Rows))
				return nil
			}
			fmt.Println(result.SQL)
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(renderCmd)
}
