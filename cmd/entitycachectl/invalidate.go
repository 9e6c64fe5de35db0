package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-entity-cache/cache"
)

func newInvalidateCmd() *cobra.Command {
	var (
		flags redisFlags
		id    string
	)

	cmd := &cobra.Command{
		Use:   "invalidate <type>",
		Short: "Drop cached entries for an entity type",
		Long: `Drop cached entries for an entity type.

With --id a single entry is removed; without it the whole type namespace
is cleared. Statistics are left untouched either way.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.open()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := context.Background()
			typeName := args[0]

			if id != "" {
				key := cache.EntityKey(flags.prefix, typeName, id)
				if err := store.Delete(ctx, key); err != nil {
					return err
				}
				fmt.Printf("Invalidated %s\n", key)
				return nil
			}

			prefix := cache.TypePrefix(flags.prefix, typeName)
			if err := store.DeleteByPrefix(ctx, prefix); err != nil {
				return err
			}
			fmt.Printf("Invalidated all entries under %s\n", prefix)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&id, "id", "", "invalidate a single entity id")

	return cmd
}
