package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zalepa/orderdesk/web"
)

var webAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the jobs on a password-protected web page",
	Long: `Starts an HTTP server with one button per job. The password is read
from the environment variable named by web.password_env.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		r, done, err := newRunner(ctx, true)
		if err != nil {
			return err
		}
		defer done()

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		srv, err := web.NewServer(r, cfg.Web.Password(), cfg.Web.SessionTTL, logger)
		if err != nil {
			return fmt.Errorf("%w (set $%s)", err, cfg.Web.PasswordEnv)
		}

		addr := cfg.Web.Addr
		if webAddr != "" {
			addr = webAddr
		}
		hs := &http.Server{Addr: addr, Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
		errc := make(chan error, 1)
		go func() { errc <- hs.ListenAndServe() }()
		fmt.Fprintf(cmd.OutOrStdout(), "serving on http://localhost%s\n", addr)
		logger.Info("web server started", zap.String("addr", addr))

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-ctx.Done():
		}
		shutdown, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return hs.Shutdown(shutdown)
	},
}

func init() {
	webCmd.Flags().StringVar(&webAddr, "addr", "", "listen address (default web.addr)")
}
