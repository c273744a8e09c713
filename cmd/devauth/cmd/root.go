package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/storagegate/devauth/config"
)

var (
	cfg    config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "devauth",
	Short: "Token gate for storage requests",
	Long: `devauth checks the auth token of every storage request against a token
authority, caching positive verdicts for as long as the authority allows.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadViper(cmd)
		if err != nil {
			return err
		}
		cfg, err = config.Load(v)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger, err = newLogger(cfg.LogLevel)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Configuration file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("ip", "", "Authority host (env: DEVAUTH_IP)")
	rootCmd.PersistentFlags().Int("port", 0, "Authority port (env: DEVAUTH_PORT)")
	rootCmd.PersistentFlags().String("ssl", "", "Use https towards the authority (env: DEVAUTH_SSL)")
	rootCmd.PersistentFlags().String("node-timeout", "", "Authority timeout in seconds (env: DEVAUTH_NODE_TIMEOUT)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (env: DEVAUTH_LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}

// flagKeys maps persistent flags onto configuration keys.
var flagKeys = map[string]string{
	"ip":           config.KeyIP,
	"port":         config.KeyPort,
	"ssl":          config.KeySSL,
	"node-timeout": config.KeyNodeTimeout,
	"log-level":    config.KeyLogLevel,
}

func loadViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := config.NewViper()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}
	return v, nil
}

func newLogger(level string) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	l.SetLevel(lvl)
	return l, nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
