package cmd

import (
	"fmt"
	"github.com/ValentinKolb/tinycfg/cmd/cfg"
	"github.com/ValentinKolb/tinycfg/cmd/serve"
	"github.com/ValentinKolb/tinycfg/cmd/util"
	"github.com/ValentinKolb/tinycfg/lib/common"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "tinycfg",
		Short: "persistent key-value configuration store",
		Long: fmt.Sprintf(`tinycfg (v%s)

A small persistent key-value configuration store. All settings live in a
single JSON document that is loaded, changed and written back on every
operation, so the file on disk is always the current configuration.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of tinycfg",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tinycfg v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(cfg.ConfigCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	err := RootCmd.Execute()
	common.Sync()
	if err != nil {
		os.Exit(1)
	}
}
