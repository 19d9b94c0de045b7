package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bridgelog-cli/internal/config"
)

var cfgFile string
var jsonOutput bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bridgelog-cli",
	Short: "A CLI for pulling Eagle Eye Networks bridge and archiver logs",
	Long: `Authenticate against the Eagle Eye Networks VMS, look up a bridge's
archiver topology, and download archiver log streams to local files.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bridgelog-cli.yaml)")

	// Add the persistent flag here
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
}
