package cmd

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leizi-shell/leizi/commands"
	"github.com/leizi-shell/leizi/core/config"
	"github.com/leizi-shell/leizi/core/logger"
	"github.com/leizi-shell/leizi/core/proc"
	"github.com/leizi-shell/leizi/core/signals"
)

var (
	cfgPath     string
	commandLine string
	showVersion bool

	// exitCode is the status the process exits with once the shell returns.
	exitCode int
)

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "leizi")
}

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(cfgPath), nil
	}

	return configuration, err
}

// openEventLog returns the session event logger and a function to close it.
func openEventLog(configuration *config.Configuration) (*logger.SessionLogger, func(), error) {
	if configuration.EventLog == "" {
		return logger.NewNopLogger().Sessionless(), func() {}, nil
	}

	fd, err := configuration.OpenEventLog()
	if err != nil {
		return nil, nil, err
	}

	return logger.NewJsonLinesLogRecorder(fd).NewSession(), func() { fd.Close() }, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "leizi",
	Short: "Leizi Shell",
	Long:  `An interactive shell with pipelines, I/O redirection, job control and ZSH-style arrays.`,
	Args:  cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(cmd.ErrOrStderr())
		log.SetPrefix("[leizi] ")
		log.SetFlags(0)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		if showVersion {
			return versionCmd.RunE(cmd, args)
		}

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		events, closeEvents, err := openEventLog(configuration)
		if err != nil {
			return err
		}
		defer closeEvents()

		procs := proc.OS{}
		coordinator := signals.Install(procs.Signal)
		defer coordinator.Stop()

		shell := commands.NewShell(commands.Options{
			Config:  configuration,
			Procs:   procs,
			Signals: coordinator,
			Events:  events,
		})

		if cmd.Flags().Changed("command") {
			exitCode = shell.RunOnce(commandLine)
		} else {
			exitCode = shell.RunInteractive()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
	os.Exit(exitCode)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigDir(), "config path")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "show version information")
}
