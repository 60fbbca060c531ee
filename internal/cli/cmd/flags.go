package cmd

import (
	"time"

	humane "github.com/sierrasoftworks/humane-errors-go"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/quansight/conda-store-operator/internal/cli/pretty_print"
	"github.com/quansight/conda-store-operator/pkg/client/k8s"
	"github.com/quansight/conda-store-operator/pkg/token"
)

var configFileName string

// bindFlag wires a pflag into its viper key. Binding failures are
// programming errors, not runtime conditions.
func bindFlag(flags *pflag.FlagSet, key, name string) {
	if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(humane.Wrap(err, "fatal binding flag", "check that the flag name matches the viper key"))
	}
}

func addCommonFlags(cmd *cobra.Command) {
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
	viper.SetDefault("operator.namespace", k8s.DefaultNamespace)
	viper.SetDefault("operator.shareName", k8s.DefaultShareName)
	viper.SetDefault("operator.serviceName", k8s.DefaultServiceName)
	viper.SetDefault("operator.tokenLength", token.DefaultLength)
	viper.SetDefault("api.retryAfterSeconds", 1)

	cmd.PersistentFlags().StringVarP(&configFileName, "config", "c", "", "Name of the config file")
	_ = cmd.RegisterFlagCompletionFunc("config", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "yaml", "yaml"}, cobra.ShellCompDirectiveDefault
	})

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	viper.SetDefault("debug", false)
	bindFlag(cmd.PersistentFlags(), "debug", "debug")

	cmd.PersistentFlags().StringP("namespace", "n", k8s.DefaultNamespace, "Namespace the conda-store share lives in")
	bindFlag(cmd.PersistentFlags(), "operator.namespace", "namespace")

	cmd.PersistentFlags().StringP("theme", "t", string(pretty_print.DefaultTheme), "theme to use for CLI output")
	viper.SetDefault("output.theme", string(pretty_print.DefaultTheme))
	bindFlag(cmd.PersistentFlags(), "output.theme", "theme")
	_ = cmd.RegisterFlagCompletionFunc("theme", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return pretty_print.AllThemeNames(), cobra.ShellCompDirectiveDefault
	})

	cmd.PersistentFlags().BoolP("quiet", "q", false, "Show no output (where available)")
	viper.SetDefault("output.quiet", false)
	bindFlag(cmd.PersistentFlags(), "output.quiet", "quiet")
}

func addServerFlags(cmd *cobra.Command) {
	addCommonFlags(cmd)

	viper.SetDefault("server.readTimeout", 10*time.Second)
	viper.SetDefault("server.readHeaderTimeout", 5*time.Second)
	viper.SetDefault("server.writeTimeout", 20*time.Second)
	viper.SetDefault("server.idleTimeout", 120*time.Second)

	cmd.PersistentFlags().IntP("port", "p", 8123, "Port of the outputs API server")
	viper.SetDefault("api.port", 8123)
	bindFlag(cmd.PersistentFlags(), "api.port", "port")

	cmd.PersistentFlags().Int("health-port", 8080, "Port of the health and metrics server")
	viper.SetDefault("health.port", 8080)
	bindFlag(cmd.PersistentFlags(), "health.port", "health-port")

	cmd.PersistentFlags().Int("token-length", token.DefaultLength, "Length of freshly minted service tokens")
	bindFlag(cmd.PersistentFlags(), "operator.tokenLength", "token-length")
}
