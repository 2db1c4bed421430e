// Command cardctl manages cards through the cards API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alovak/cardflow-cards/internal/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultServer = "http://localhost:3000"

var cfg = viper.New()

var rootCmd = &cobra.Command{
	Use:          "cardctl",
	Short:        "Register, list and edit cards on a cards server",
	SilenceUsage: true,
}

func init() {
	cfg.SetEnvPrefix("CARDCTL")
	cfg.AutomaticEnv()
	cfg.SetDefault("server", defaultServer)

	flags := rootCmd.PersistentFlags()
	flags.String("server", defaultServer,
		"Base URL of the cards server. Can also be set with CARDCTL_SERVER.")
	_ = cfg.BindPFlag("server", flags.Lookup("server"))

	rootCmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, generateCmd)
}

func newClient() *client.Client {
	return client.New(cfg.GetString("server"), nil)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
