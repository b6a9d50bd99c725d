package cfg

import (
	"github.com/ValentinKolb/tinycfg/cmd/util"
	"github.com/ValentinKolb/tinycfg/lib/common"
	"github.com/ValentinKolb/tinycfg/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var Logger = logger.GetLogger("cli")

var (
	cfgStore store.IConfigStore

	// ConfigCommands represents the cfg command group
	ConfigCommands = &cobra.Command{
		Use:               "cfg",
		Short:             "Read and modify the configuration document",
		PersistentPreRunE: openStore,
	}
)

func init() {
	// Add common store flags to the cfg command
	util.SetupStoreFlags(ConfigCommands, "warn")

	// Add subcommands
	ConfigCommands.AddCommand(setCmd)
	ConfigCommands.AddCommand(getCmd)
	ConfigCommands.AddCommand(dumpCmd)
	ConfigCommands.AddCommand(keysCmd)
	ConfigCommands.AddCommand(delCmd)
	ConfigCommands.AddCommand(resetCmd)

	for _, c := range ConfigCommands.Commands() {
		c.RunE = withStore(c.RunE)
	}
}

// openStore creates the store from the configuration and starts it
func openStore(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	conf := util.GetStoreConfig()
	if err := common.InitLoggers(conf.LogLevel); err != nil {
		return err
	}
	Logger.Debugf("%s", conf.String())

	cfgStore = util.NewStore(conf, nil)
	if err := util.ApplyMaxSize(cfgStore, conf); err != nil {
		return err
	}
	if !cfgStore.Start() {
		return cfgStore.Err()
	}
	return nil
}

// withStore wraps the RunE of a subcommand so the store is stopped after it
// returns, whether it failed or not
func withStore(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			err = multierr.Append(err, closeStore())
		}()
		return run(cmd, args)
	}
}

// closeStore stops the store opened by openStore
func closeStore() error {
	if cfgStore == nil {
		return nil
	}
	if !cfgStore.Stop() {
		return cfgStore.Err()
	}
	return nil
}

// failed returns the error of the last store operation
func failed() error {
	return cfgStore.Err()
}
