package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nvandessel/tilelens/internal/mjai"
	"github.com/spf13/cobra"
)

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Identify whether a file is an mjai log or a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			format := mjai.DetectFormat(string(data))

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
					"file":   args[0],
					"format": string(format),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], format)
			return nil
		},
	}
}
