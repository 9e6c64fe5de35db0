package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-entity-cache/stats"
)

func newStatsCmd() *cobra.Command {
	var (
		flags    redisFlags
		typeName string
		baseTTL  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show hit/miss statistics per entity type",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.open()
			if err != nil {
				return err
			}
			defer store.Close()

			tracker := stats.New(store, flags.prefix)
			ctx := context.Background()

			// Single-type detail view
			if typeName != "" {
				snapshot, ok := tracker.Snapshot(ctx, typeName)
				if !ok {
					fmt.Println("No statistics recorded for type.")
					return nil
				}
				printStats(ctx, tracker, map[string]stats.Stats{typeName: snapshot}, baseTTL)
				return nil
			}

			all, err := tracker.All(ctx)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Println("No statistics recorded.")
				return nil
			}
			printStats(ctx, tracker, all, baseTTL)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&typeName, "type", "", "show a single entity type")
	cmd.Flags().DurationVar(&baseTTL, "base-ttl", 5*time.Minute, "base TTL used for the adaptive TTL column")

	return cmd
}

func printStats(ctx context.Context, tracker *stats.Tracker, all map[string]stats.Stats, baseTTL time.Duration) {
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tHITS\tMISSES\tHIT RATE\tADAPTIVE TTL\tLAST HIT")
	for _, name := range names {
		s := all[name]
		lastHit := "-"
		if !s.LastHitAt.IsZero() {
			lastHit = s.LastHitAt.Format("2006-01-02T15:04:05")
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.4f\t%s\t%s\n",
			name, s.Hits, s.Misses, s.HitRate(), tracker.AdaptiveTTL(ctx, name, baseTTL), lastHit)
	}
	w.Flush()
}
