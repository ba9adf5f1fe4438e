package main

import (
	"os"

	"weather-widget/config"
	"weather-widget/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "weather-widget",
	Short:         "weather-widget looks up a 3-day city forecast and renders it",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load environment variables from .env file
		if err := config.LoadDotEnv(".env"); err != nil {
			log.Warn().Err(err).Msg("Error loading .env file")
		}

		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if err := config.Setup(viper.GetViper(), viper.GetString("config")); err != nil {
			return err
		}

		if err := logging.InitLogger(&logging.Config{
			Level:      viper.GetString("log-level"),
			LogFile:    viper.GetString("log-file"),
			LogFormat:  viper.GetString("log-format"),
			WithCaller: viper.GetBool("with-caller"),
		}); err != nil {
			return err
		}

		log.Debug().Str("config", viper.ConfigFileUsed()).Msg("Loaded configuration")
		return nil
	},
}

func init() {
	logging.AddFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./weather-widget.yaml)")
	config.AddFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newServeCommand(), newLookupCommand())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
