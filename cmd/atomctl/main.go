// Команда atomctl обслуживает базу клуба: миграции, истечение абонементов,
// ручной прогон напоминаний и создание первого super_admin.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/atom-backoffice/internal/config"
)

// Version подставляется при сборке.
var Version = "dev"

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:           "atomctl",
		Short:         "ATOM back-office maintenance tool",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: $CONFIG_PATH)")

	env := &env{
		cfgPath: &cfgPath,
		logger:  slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}

	rootCmd.AddCommand(migrateCmd(env))
	rootCmd.AddCommand(expireCmd(env))
	rootCmd.AddCommand(remindCmd(env))
	rootCmd.AddCommand(bootstrapAdminCmd(env))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type env struct {
	cfgPath *string
	logger  *slog.Logger
}

func (e *env) config() (*config.Config, error) {
	if *e.cfgPath != "" {
		return config.Load(*e.cfgPath)
	}
	return config.MustLoad(), nil
}
