package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-entity-cache/stats"
)

func newResetCmd() *cobra.Command {
	var flags redisFlags

	cmd := &cobra.Command{
		Use:   "reset <type>",
		Short: "Reset hit/miss counters for an entity type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.open()
			if err != nil {
				return err
			}
			defer store.Close()

			tracker := stats.New(store, flags.prefix)
			if err := tracker.Reset(context.Background(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Reset statistics for %s\n", args[0])
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
