package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdcore "github.com/projecteru2/preload/cmd/core"
	cmdfetch "github.com/projecteru2/preload/cmd/fetch"
	cmdothers "github.com/projecteru2/preload/cmd/others"
	"github.com/projecteru2/preload/config"
)

var (
	cfgFile string
	conf    *config.Config
)

var rootCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "preload",
		Short:         "preload - fetch images into memory with a progress overlay",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(commandContext(cmd))
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	configureEnv(viper.GetViper())

	base := cmdcore.BaseHandler{ConfProvider: func() *config.Config { return conf }}

	cmd.AddCommand(cmdfetch.Command(cmdfetch.Handler{BaseHandler: base}))
	for _, c := range cmdothers.Commands(cmdothers.Handler{BaseHandler: base}) {
		cmd.AddCommand(c)
	}

	return cmd
}()

func initConfig(ctx context.Context) error {
	var err error
	if conf, err = loadConfig(viper.GetViper(), cfgFile); err != nil {
		return err
	}
	return log.SetupLog(ctx, &conf.Log, "")
}

// configureEnv maps PRELOAD_<SECTION>_<KEY> onto config keys, e.g.
// PRELOAD_FETCH_MAX_BYTES onto fetch.max_bytes.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("PRELOAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfig layers env and the optional config file over the defaults.
// AutomaticEnv only resolves keys viper knows about, so every default is
// registered first.
func loadConfig(v *viper.Viper, path string) (*config.Config, error) {
	def := config.DefaultConfig()
	v.SetDefault("preload.loading_message", def.Preload.LoadingMessage)
	v.SetDefault("preload.loading_failure_message", def.Preload.LoadingFailureMessage)
	v.SetDefault("preload.complete_idle_time", def.Preload.CompleteIdleTime)
	v.SetDefault("fetch.max_bytes", def.Fetch.MaxBytes)
	v.SetDefault("fetch.timeout", def.Fetch.Timeout)
	v.SetDefault("fetch.user_agent", def.Fetch.UserAgent)
	v.SetDefault("log.level", def.Log.Level)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	c := config.DefaultConfig()
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.Normalize()
	return c, nil
}

// Execute is the main entry point called from main.go.
func Execute() error {
	ctx, cancel := newCommandContext()
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}
