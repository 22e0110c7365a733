package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/vcverify/internal/config"
)

var (
	rootCmd = &cobra.Command{
		Use:               "vcverify",
		Short:             "Resolve DIDs and verify the credentials held in their Identity Hubs",
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}

	cfg *config.Config
)

func Execute() error {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase verbosity")
	viper.BindPFlag(config.Cfg_verbose, rootCmd.PersistentFlags().Lookup("verbose"))

	regCommands()

	return rootCmd.Execute()
}

func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.GetConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	cfg = c

	return nil
}

func waitExit(ctx context.Context) <-chan os.Signal {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	return sigs
}
