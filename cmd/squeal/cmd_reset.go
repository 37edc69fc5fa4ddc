package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default tabs and preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv("squeal-cli")
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.kv.Clear(); err != nil {
				return fmt.Errorf("failed to clear saved state: %w", err)
			}
			st := e.wb.Reset()

			if history {
				if err := e.history.Clear(cmd.Context()); err != nil {
					return fmt.Errorf("failed to clear history: %w", err)
				}
			}
			fmt.Printf("Restored %d default tabs\n", st.Session.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "also delete query history")
	return cmd
}
