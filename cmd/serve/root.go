package serve

import (
	"github.com/ValentinKolb/tinycfg/cmd/util"
	"github.com/ValentinKolb/tinycfg/lib/common"
	"github.com/ValentinKolb/tinycfg/lib/stats"
	"github.com/ValentinKolb/tinycfg/rpc/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// metricsPrefix is the prefix of all metric names exported on /metrics
const metricsPrefix = "tinycfg"

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the tinycfg http server",
		Long:    `Start the tinycfg http server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is TINYCFG_<flag> (e.g. TINYCFG_MAX_SIZE=4096)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// add flags
	util.SetupStoreFlags(ServeCmd, "info")

	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, common.DefaultEndpoint, util.WrapString("The address on which the API will listen (e.g. localhost:8080)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	serveCmdConfig.Store = util.GetStoreConfig()
	serveCmdConfig.Endpoint = viper.GetString("endpoint")

	return common.InitLoggers(serveCmdConfig.Store.LogLevel)
}

// run starts the tinycfg server
func run(_ *cobra.Command, _ []string) error {
	if serveCmdConfig.Store.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	collector := stats.NewCollector(metricsPrefix)
	s := util.NewStore(serveCmdConfig.Store, collector)
	if err := util.ApplyMaxSize(s, serveCmdConfig.Store); err != nil {
		return err
	}

	return server.NewConfigServer(*serveCmdConfig, s, collector).Serve()
}
