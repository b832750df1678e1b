package main

import (
	"context"
	"time"

	"github.com/fatih/color"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/karadeck/karadeck/internal/config"
	"github.com/karadeck/karadeck/internal/remote"
)

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
	cyan  = color.New(color.FgCyan)
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify configuration and connectivity",
	Long:  `Load the configuration, authenticate against the remote bookmark store and ping Redis. Exits non-zero when anything is unreachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			red.Println("✗ configuration:", err)
			return err
		}
		green.Println("✓ configuration loaded")

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		client := remote.NewClient(remote.Options{
			BaseURL:   cfg.KarakeepURL,
			APIKey:    cfg.KarakeepAPIKey,
			PageLimit: cfg.PageLimit,
			Timeout:   cfg.RequestTimeout,
		})
		user, err := client.Me(ctx)
		if err != nil {
			red.Println("✗ remote store:", err)
			return err
		}
		green.Print("✓ remote store reachable")
		cyan.Printf(" (signed in as %s)\n", user.Name)

		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Username: cfg.RedisUser,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			red.Println("✗ redis:", err)
			return err
		}
		green.Println("✓ redis reachable")

		return nil
	},
}
