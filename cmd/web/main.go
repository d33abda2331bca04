package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yigit/coursecatalog/internal/bootstrap"
	"github.com/yigit/coursecatalog/internal/pkg/logger"
	"github.com/yigit/coursecatalog/internal/server"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "web",
		Short:         "Serve the local course catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.NewServer(configPath)
			if err != nil {
				return err
			}
			// Run blocks until a shutdown signal arrives
			return srv.Run()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", bootstrap.DefaultConfigPath, "path to the YAML config file")
	return cmd
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn().Err(err).Msg("Failed to read .env file")
	}

	if err := newRootCmd().Execute(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
