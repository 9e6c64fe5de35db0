package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-entity-cache/internal/cacheinfra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "entitycachectl",
		Short:   "Inspect and manage entity cache state in Redis",
		Version: version,
	}

	root.AddCommand(
		newStatsCmd(),
		newResetCmd(),
		newInvalidateCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// redisFlags holds the connection flags shared by every subcommand.
type redisFlags struct {
	addr     string
	password string
	db       int
	prefix   string
}

func (f *redisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.addr, "addr", "127.0.0.1:6379", "Redis server address")
	cmd.Flags().StringVar(&f.password, "password", "", "Redis password")
	cmd.Flags().IntVar(&f.db, "db", 0, "Redis logical database")
	cmd.Flags().StringVar(&f.prefix, "prefix", "entity_cache", "cache key prefix")
}

func (f *redisFlags) open() (*cacheinfra.RedisStore, error) {
	cfg := cacheinfra.DefaultRedisConfig()
	cfg.Addr = f.addr
	cfg.Password = f.password
	cfg.DB = f.db
	return cacheinfra.NewRedisStore(cfg)
}
