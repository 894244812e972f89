// Package cli provides the bridgerun command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AFDudley/briefcase-test-sub000/pkg/logger"
)

var (
	cfgFile  string
	logLevel string
	version  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bridgerun",
	Short: "Run playbooks over goroutine-backed workers",
	Long: `bridgerun executes YAML playbooks against an inventory of hosts.
Each host runs on its own worker; results stream back over a shared queue
with stall detection, so a wedged host never hangs the run.`,

	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("bridgerun v%s\n", version)
			return
		}
		cmd.Help()
	},
}

// Execute runs the CLI
func Execute(v string) error {
	version = v
	initializeRootCommand()
	return rootCmd.Execute()
}

// initializeRootCommand sets up the root command and its flags. Explicit
// instead of init() so tests can rebuild the command tree.
func initializeRootCommand() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: bridgerun.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.Flags().Bool("version", false, "Print version information and quit")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newKeygenCmd())
	rootCmd.AddCommand(newEnvsCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("bridgerun")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BRIDGERUN")
	viper.AutomaticEnv()

	// A missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()

	if viper.IsSet("log_level") && !rootCmd.PersistentFlags().Changed("log-level") {
		logLevel = viper.GetString("log_level")
	}
}

func newLogger() logger.Logger {
	return logger.New(logLevel)
}
