package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/budgetmon/internal/config"
	"github.com/theirongolddev/budgetmon/internal/server"

	"github.com/spf13/cobra"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP evaluation API and browser form",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config or BUDGETMON_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := flagServeAddr
	if addr == "" {
		addr = config.ListenAddr(cfg)
	}

	svc, err := server.New(server.Config{
		Addr:   addr,
		Rates:  rates,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  budgetmon listening on http://%s\n", addr)
	}
	return svc.Run(ctx)
}

