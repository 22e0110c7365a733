package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcfw/vcverify/internal/config"
	"github.com/tcfw/vcverify/internal/utils/logging"
	"github.com/tcfw/vcverify/pkg/identityhub/hubtest"
)

var (
	hubCmd = &cobra.Command{
		Use:   "hub",
		Short: "Identity Hub commands",
	}

	hub_serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "run an in-memory Identity Hub for local testing",
		RunE:  runHubServe,
	}
)

func init() {
	hub_serveCmd.Flags().StringP("listen", "l", "", "listen address")
	viper.BindPFlag(config.Cfg_hub_listenAddr, hub_serveCmd.Flags().Lookup("listen"))
}

func runHubServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var opts []hubtest.Option
	if tok := cfg.Hub().AuthToken; tok != "" {
		opts = append(opts, hubtest.WithToken(tok))
	}

	srv := &http.Server{
		Addr:              cfg.Hub().ListenAddr,
		Handler:           hubtest.NewHub(opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logging.Entry().WithField("addr", srv.Addr).Info("serving identity hub at /hubs/{hub}/credentials")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-waitExit(ctx):
		shutdownCtx, done := context.WithTimeout(ctx, 5*time.Second)
		defer done()
		return srv.Shutdown(shutdownCtx)
	}
}
