package main

import (
	"context"
	"io"
	"os"

	"imgbench/internal/config"
	"imgbench/internal/log"
	"imgbench/internal/workbench"

	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	cfgFile string
	server  string
	debug   bool
	logJSON bool

	cfg     *config.Config
	logFile *os.File
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "imgbench",
		Short: "Pick, preview, upload and browse images on an image server",
		Long: `imgbench is a small workbench for an image server: pick a local image,
preview it, save it to the server and browse the images already stored there.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			opts.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(commandContext(cmd), opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.config/imgbench/config.yaml)")
	flags.StringVar(&opts.server, "server", "", "image server base URL (overrides the config)")
	flags.BoolVar(&opts.debug, "debug", false, "log debug output to stderr")
	flags.BoolVar(&opts.logJSON, "log-json", false, "write logs as JSON")

	rootCmd.AddCommand(newTUICmd(opts))
	rootCmd.AddCommand(newGUICmd(opts))
	rootCmd.AddCommand(newUploadCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newViewCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

func (o *options) configPath() (string, error) {
	if o.cfgFile != "" {
		return o.cfgFile, nil
	}
	return config.DefaultPath()
}

func (o *options) load(cmd *cobra.Command) error {
	path, err := o.configPath()
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfigFile(path)
	if err != nil {
		return err
	}
	if o.server != "" {
		cfg.Server.BaseURL = o.server
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("debug") {
		cfg.Log.Debug = o.debug
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = o.logJSON
	}
	o.cfg = cfg
	o.setupLogging()
	log.LogWithFields(log.F("config", path), log.F("server", cfg.Server.BaseURL)).Debug("configuration loaded")
	return nil
}

// setupLogging sends logs to the log file, and to stderr as well in
// debug mode. The TUI owns the terminal, so stderr is opt-in.
func (o *options) setupLogging() {
	var out io.Writer = io.Discard
	if f, err := os.OpenFile(o.cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
		o.logFile = f
		out = f
	}
	if o.cfg.Log.Debug {
		out = io.MultiWriter(out, os.Stderr)
	}

	logOpts := []log.Option{log.WithOutput(out)}
	if o.cfg.Log.JSON {
		logOpts = append(logOpts, log.WithJSON())
	}
	log.Configure(logOpts...)
	log.SetDebug(o.cfg.Log.Debug)
}

func (o *options) close() {
	if o.logFile != nil {
		o.logFile.Close()
		o.logFile = nil
	}
}

func (o *options) workbench() (*workbench.Workbench, error) {
	return workbench.New(o.cfg)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
