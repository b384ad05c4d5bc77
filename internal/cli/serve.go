package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"snekctl/internal/system"
	"snekctl/internal/webui/server"
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1:8787", "address to bind (host:port)")
	serveCmd.Flags().BoolP("open", "o", false, "open the browser after start")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local web dashboard",
	Long:  "Serves a JSON API over the dev shell state plus a browser terminal running inside the activated shell.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The API's probes must see the host environment, not an already
		// activated shell's.
		if os.Getenv(system.NestGuardVar) != "" {
			return fmt.Errorf("already inside a snekctl shell; exit it before starting the dashboard")
		}
		addr, _ := cmd.Flags().GetString("addr")
		open, _ := cmd.Flags().GetBool("open")
		srv := &server.Server{Addr: addr}

		// Handle Ctrl+C
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		url := fmt.Sprintf("http://%s/", addr)
		system.Logger.Info("starting dashboard", "url", url)
		if open {
			if err := server.OpenBrowser(url); err != nil {
				system.Logger.Warn("failed to open browser", "err", err)
			}
		}
		if err := srv.Start(ctx); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
		return nil
	},
}
