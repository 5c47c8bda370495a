package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"animeta/internal/httpapi"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog as a read-only JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			address := strings.TrimSpace(bind)
			if address == "" {
				address = cfg.Server.Bind
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := httpapi.New(address, svc, ctx.logger)
			if err := server.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", server.Addr())
			<-runCtx.Done()
			server.Stop()
			return nil
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to server.bind)")
	return cmd
}
