package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jahlborn/jackcessgo/scsu"
)

var (
	roundtripCmd = &cobra.Command{
		Use:   "roundtrip <text>",
		Short: "Encode text to SCSU and decode it back, reporting byte size and fidelity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				_ = cmd.Help()
				return errors.New("need to specify argument <text>")
			}
			text := args[0]

			encoded, err := scsu.Encode(text)
			if err != nil {
				return fmt.Errorf("roundtrip: encode: %w", err)
			}
			decoded, err := scsu.Decode(encoded)
			if err != nil {
				return fmt.Errorf("roundtrip: decode: %w", err)
			}

			fmt.Printf("input:   %d rune(s), %d UTF-8 byte(s)\n", len([]rune(text)), len(text))
			fmt.Printf("encoded: %d byte(s)\n", len(encoded))
			if decoded != text {
				return fmt.Errorf("roundtrip mismatch: got %q, want %q", decoded, text)
			}
			fmt.Println("roundtrip ok")
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(roundtripCmd)
}
