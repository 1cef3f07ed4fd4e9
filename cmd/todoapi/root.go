package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"todoapi/internal/config"
	todolog "todoapi/internal/log"
)

const envPrefix = "TODOAPI"

// app carries what every subcommand needs once flags and environment are
// resolved.
type app struct {
	getenv func(string) string
	stdout io.Writer
	stderr io.Writer

	// v layers flags over TODOAPI_* variables. Keys are the variable name
	// without the prefix, lower-cased and dash separated.
	v *viper.Viper
}

func newApp(getenv func(string) string, stdout, stderr io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &app{getenv: getenv, stdout: stdout, stderr: stderr, v: v}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "todoapi",
		Short: "Todo list REST API",
		Long: `todoapi serves a small todo list API backed by memory, SQLite or
PostgreSQL, and can snapshot the list to filesystem, S3 or memory blob storage.

Settings come from TODOAPI_* environment variables; flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.String("addr", "", "listen address (env TODOAPI_ADDR)")
	flags.String("log-level", "", "error|warn|info|debug (env TODOAPI_LOG_LEVEL)")
	flags.String("storage", "", "memory|sqlite|postgres (env TODOAPI_STORAGE_DRIVER)")
	flags.Bool("trace", false, "write a JSON span per service operation to stderr (env TODOAPI_TRACE)")

	_ = a.v.BindPFlag("addr", flags.Lookup("addr"))
	_ = a.v.BindPFlag("log-level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("storage-driver", flags.Lookup("storage"))
	_ = a.v.BindPFlag("trace", flags.Lookup("trace"))

	root.AddCommand(newServeCmd(a), newExportCmd(a))
	return root
}

// lookup resolves a configuration variable. TODOAPI_* names go through
// viper first so a set flag wins; anything viper leaves empty falls back to
// the injected environment.
func (a *app) lookup(key string) string {
	if rest, ok := strings.CutPrefix(key, envPrefix+"_"); ok {
		if v := a.v.GetString(strings.ReplaceAll(strings.ToLower(rest), "_", "-")); v != "" {
			return v
		}
	}
	return a.getenv(key)
}

func (a *app) load() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(a.lookup)
	if err != nil {
		return config.Config{}, nil, err
	}
	level, err := todolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, todolog.New(a.stderr, level), nil
}
