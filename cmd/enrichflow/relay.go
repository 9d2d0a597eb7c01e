package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calebhart/enrichflow/internal/relay"
)

func relayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Run the local relay that signs requests to the enrichment service",
		Long: `Start the relay HTTP server. The relay holds the API key and forwards
envelope requests from the CLI to the remote enrichment service, so the key
never has to live on the client side of the wire.`,
		RunE: runRelay,
	}

	cmd.Flags().String("listen", "localhost:8477", "Address to listen on")
	cmd.Flags().String("upstream", "", "Remote service base URL")
	cmd.Flags().String("api-key", "", "Remote service API key")

	_ = viper.BindPFlag("relay.listen", cmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("audiencelab.base_url", cmd.Flags().Lookup("upstream"))
	_ = viper.BindPFlag("audiencelab.api_key", cmd.Flags().Lookup("api-key"))

	return cmd
}

func runRelay(cmd *cobra.Command, _ []string) error {
	server, err := relay.NewServer(relay.Config{
		ListenAddr:  viper.GetString("relay.listen"),
		UpstreamURL: viper.GetString("audiencelab.base_url"),
		APIKey:      viper.GetString("audiencelab.api_key"),
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              viper.GetString("relay.listen"),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Relay listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("relay server failed: %w", err)
	case <-cmd.Context().Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("relay shutdown failed: %w", err)
	}
	slog.Info("Relay stopped")
	return nil
}
