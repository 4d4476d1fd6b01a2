package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"hack-or-snooze/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	profile string
	appCfg  config.Config
)

// rootCmd is the base command called without any subcommands.
var rootCmd = &cobra.Command{
	Use:          "hack-or-snooze",
	Short:        "Hack-or-Snooze CLI",
	Long:         "Read, submit and favorite stories on a Hack-or-Snooze server.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "stored-login profile (default: session.profile)")
}

// envKeys can be set as HOS_<KEY>, e.g. HOS_API_BASE_URL.
var envKeys = []string{
	"app.log_level",
	"api.base_url", "api.timeout",
	"session.backend", "session.profile", "session.sqlite_path", "session.ttl",
	"redis.addr", "redis.username", "redis.password", "redis.db",
	"watch.interval", "watch.seen_ttl",
	"openai.api_key", "openai.model", "openai.base_url", "openai.language",
}

func initConfig() {
	v := viper.GetViper()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/hack-or-snooze")
		v.AddConfigPath("configs")
	}
	v.SetEnvPrefix("HOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Unmarshal only sees env vars for keys viper knows about.
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
			os.Exit(1)
		}
	}

	if err := v.Unmarshal(&appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "error parsing config: %v\n", err)
		os.Exit(1)
	}

	appCfg.FillDefaults()
	if profile != "" {
		appCfg.Session.Profile = profile
	}
	setupLogging(appCfg.App.LogLevel)
	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("config: using file", "path", used)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// GetConfig exposes the loaded configuration to subcommands.
func GetConfig() config.Config {
	return appCfg
}
