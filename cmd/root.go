package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wasched/wasched/config"
	"github.com/wasched/wasched/pkg/utils"
)

var rootCmd = &cobra.Command{
	Use:   "wasched",
	Short: "WhatsApp group-message scheduler dashboard",
	Long: `Dashboard service for composing, scheduling and tracking WhatsApp
group messages against a whatsapp-web.js backend.`,
}

func init() {
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if _, err := config.Load(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	if config.Global.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}
