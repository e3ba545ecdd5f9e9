package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	alan "github.com/LawrenceCirillo/Alan"
	"github.com/LawrenceCirillo/Alan/internal/config"
	"github.com/LawrenceCirillo/Alan/pkg/log"
)

type options struct {
	configFile string
	envFiles   []string
	logLevel   string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           alan.Name,
		Short:         "Turn plain-language goals into automation workflows",
		SilenceUsage:  true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "",
		"configuration file (yaml, json or toml)")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil,
		"dotenv files to load before reading the environment")
	flags.StringVarP(&opts.logLevel, "log-level", "l", "",
		"log level: debug, info, warn or error")

	root.AddCommand(
		newServeCommand(opts),
		newClassifyCommand(opts),
		newGenerateCommand(opts),
		newChatCommand(opts),
		newVersionCommand(),
	)
	return root
}

// load builds the configuration from defaults, dotenv files, the optional
// configuration file and the environment, in increasing precedence
func (o *options) load() (*config.Config, error) {
	if err := config.LoadDotEnv(o.envFiles...); err != nil {
		return nil, err
	}

	cfg := config.NewDefaultConfig()
	if o.configFile != "" {
		if err := cfg.LoadFile(o.configFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	level, ok := log.ParseLevel(cfg.LogLevel)
	if !ok {
		level = slog.LevelInfo
	}

	env := os.Getenv("ENV")
	logger := log.NewWithLevel(alan.Name, env, alan.Version, level)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				alan.Name, alan.Version)
		},
	}
}
