package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"tasklog/internal/config"
	"tasklog/internal/logging"
	"tasklog/internal/tasks"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "tasklog error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	a := &app{v: config.New()}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	return root.Execute()
}

// app opens the store on first use so help and usage output never touch the
// database.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        config.Config
	logger     *zap.Logger
	store      *tasks.SQLiteStore
	service    *tasks.Service
}

func (a *app) tasks() (*tasks.Service, error) {
	if a.service != nil {
		return a.service, nil
	}

	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, err
	}

	store, err := tasks.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite task store: %w", err)
	}
	logger.Debug("task store opened", zap.String("db", cfg.DBPath))

	a.cfg = cfg
	a.logger = logger
	a.store = store
	a.service = tasks.NewService(store, logger, tasks.WithListOptions(tasks.ListOptions{
		NullsLast: cfg.List.NullsLast,
	}))
	return a.service, nil
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tasklog",
		Short:         "Personal task tracker with tags",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "Path to a YAML config file")
	flags.String("db", config.DefaultDBPath(), "Path to sqlite database (:memory: for a throwaway store)")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console, json)")
	flags.Bool("nulls-last", false, "List tasks without a due date after dated ones")

	_ = a.v.BindPFlag("db", flags.Lookup("db"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = a.v.BindPFlag("list.nulls_last", flags.Lookup("nulls-last"))

	root.AddCommand(
		newAddCmd(a),
		newShowCmd(a),
		newListCmd(a),
		newDoneCmd(a),
		newStatusCmd(a),
		newDeleteCmd(a),
		newTagCmd(a),
		newBoardCmd(a),
	)
	return root
}
