package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cartCmd "github.com/prasetyo/storefront/cart/cmd"
	"github.com/prasetyo/storefront/internal/constants"
	"github.com/prasetyo/storefront/internal/log"
)

func Start() {
	logger := log.InitLogger("/var/log/storefront.log").
		With().
		Str(log.KEY_APP_NAME, constants.APP_MAIN_STOREFRONT).
		Str(log.KEY_TAG, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: constants.APP_MAIN_STOREFRONT}
	rootCmd.AddCommand(&cobra.Command{
		Use:   "cart",
		Short: "Run cart service",
		Run: func(cmd *cobra.Command, args []string) {
			cartCmd.RunCartService(cmd.Context())
		},
	})
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
