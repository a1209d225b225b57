package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/loga/internal"
	"codeberg.org/snonux/loga/internal/command"
	"codeberg.org/snonux/loga/internal/config"
	"codeberg.org/snonux/loga/internal/home"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "loga",
		Short: "Personal glossary manager",
		Long: `loga manages bilingual glossaries for your projects.

Glossaries are identified by a name and a language pair. Projects register
their glossary so that lookups search every registered glossary at once.

Examples:
  loga new spec en ja             # Create a project glossary in the current directory
  loga add spec スペック          # Add a term
  loga lookup spec                # Search all registered glossaries
  loga batch terms.txt            # Add "source = target # note" lines from a file`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(createSubcommands(flags)...)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "settings", "", "CLI settings file (default is $HOME/.loga.yaml)")
	cmd.PersistentFlags().StringVar(&flags.Home, "home", "", "loga home directory (default is $LOGALING_HOME or $HOME/.logaling.d)")
	cmd.PersistentFlags().StringVar(&flags.Dir, "dir", "", "Project directory (default is the current directory)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log debug output to stderr")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")

	// Glossary options
	cmd.PersistentFlags().StringVarP(&flags.Glossary, config.KeyGlossary, "g", "", "Glossary name")
	cmd.PersistentFlags().StringVarP(&flags.SourceLanguage, config.KeySourceLanguage, "S", "", "Source language code")
	cmd.PersistentFlags().StringVarP(&flags.TargetLanguage, config.KeyTargetLanguage, "T", "", "Target language code")
	cmd.PersistentFlags().BoolVar(&flags.NoRegister, config.KeyNoRegister, false, "Do not register the project on 'new'")
	cmd.PersistentFlags().BoolVar(&flags.Force, config.KeyForce, false, "Delete all terms matching the source term")
	cmd.PersistentFlags().BoolVar(&flags.Global, config.KeyGlobal, false, "Write the global config with 'config'")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("home", cmd.PersistentFlags().Lookup("home"))
	viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))
}

func createSubcommands(flags *Flags) []*cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add SOURCE_TERM TARGET_TERM [NOTE]",
		Short: "Add a term to the project glossary",
		Args:  cobra.RangeArgs(2, 3),
		RunE: withFacade(flags, func(cmd *cobra.Command, f *command.Facade, args []string) error {
			note := flags.Note
			if len(args) == 3 {
				note = args[2]
			}
			return f.Add(args[0], args[1], note)
		}),
	}
	addCmd.Flags().StringVarP(&flags.Note, "note", "n", "", "Note for the term")

	updateCmd := &cobra.Command{
		Use:   "update SOURCE_TERM TARGET_TERM NEW_TARGET_TERM [NOTE]",
		Short: "Change the target term of an entry",
		Args:  cobra.RangeArgs(3, 4),
		RunE: withFacade(flags, func(cmd *cobra.Command, f *command.Facade, args []string) error {
			var note *string
			if len(args) == 4 {
				note = &args[3]
			} else if cmd.Flags().Changed("note") {
				note = &flags.Note
			}
			return f.Update(args[0], args[1], args[2], note)
		}),
	}
	updateCmd.Flags().StringVarP(&flags.Note, "note", "n", "", "New note for the term")

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Refresh the lookup index",
		Args:  cobra.NoArgs,
		RunE: withFacade(flags, func(cmd *cobra.Command, f *command.Facade, args []string) error {
			return f.Index(flags.Rebuild)
		}),
	}
	indexCmd.Flags().BoolVar(&flags.Rebuild, "rebuild", false, "Drop the index and build it from scratch")

	return []*cobra.Command{
		{
			Use:   "new GLOSSARY SOURCE_LANGUAGE [TARGET_LANGUAGE]",
			Short: "Create a project glossary in the current directory",
			Args:  cobra.RangeArgs(2, 3),
			RunE: withFacade(flags, func(cmd *cobra.Command, f *command.Facade, args []string) error {
				target := ""
				if len(args) == 3 {
					target = args[2]
				}
				return f.New(args[0], args[1], target)
			}),
		},
		{
			Use:   "register",
			Short: "Register the current project",
			Args:  cobra.NoArgs,
			RunE: withFacade(flags, func(cmd *cobra.Command, f *command.Facade, args []string) error {
				return f.Register()
			}),
		},
		{
			Use:   "unregister",
			Short: "Unregister the current project or the one named with -g",
			Args:  cobra.NoArgs,
			RunE: withFacade(flags, func(cmd *cobra.Command, f *command.Facade, args []string) error {
				return f.Unregister()
			}),
		},
		{
			Use:   "config KEY VALUE",
			Short: "Set a project option, or a global one with --global",
			Args:  cobra.ExactArgs(2),
			RunE: withFacade(flags, func(cmd *cobra.Command, f *command.Facade, args []string) error {
				return f.Config(args[0], args[1])
			}),
		},
		addCmd,
		updateCmd,
		{
			Use:   "delete SOURCE_TERM [TARGET_TERM]",
			Short: "Delete terms from the project glossary",
			Args:  cobra.RangeArgs(1, 2),
			RunE: withFacade(flags, func(cmd *cobra.Command, f *command.Facade, args []string) error {
				var target *string
				if len(args) == 2 {
					target = &args[1]
				}
				return f.Delete(args[0], target)
			}),
		},
		{
			Use:   "lookup TERM",
			Short: "Search all registered glossaries",
			Args:  cobra.ExactArgs(1),
			RunE: withFacade(flags, func(cmd *cobra.Command, f *command.Facade, args []string) error {
				return f.Lookup(args[0])
			}),
		},
		{
			Use:   "show",
			Short: "Print the project glossary",
			Args:  cobra.NoArgs,
			RunE: withFacade(flags, func(cmd *cobra.Command, f *command.Facade, args []string) error {
				return f.Show()
			}),
		},
		{
			Use:   "list",
			Short: "List registered glossaries",
			Args:  cobra.NoArgs,
			RunE: withFacade(flags, func(cmd *cobra.Command, f *command.Facade, args []string) error {
				return f.List()
			}),
		},
		{
			Use:   "batch FILE",
			Short: "Add terms from a file of 'source = target # note' lines",
			Args:  cobra.ExactArgs(1),
			RunE: withFacade(flags, func(cmd *cobra.Command, f *command.Facade, args []string) error {
				return f.AddBatch(args[0])
			}),
		},
		{
			Use:   "import FILE",
			Short: "Copy the terms of a CSV or TSV file into the project glossary",
			Args:  cobra.ExactArgs(1),
			RunE: withFacade(flags, func(cmd *cobra.Command, f *command.Facade, args []string) error {
				return f.Import(args[0])
			}),
		},
		{
			Use:   "archive",
			Short: "Move the project glossary file into the archive",
			Args:  cobra.NoArgs,
			RunE: withFacade(flags, func(cmd *cobra.Command, f *command.Facade, args []string) error {
				return f.Archive()
			}),
		},
		indexCmd,
	}
}

type facadeFunc func(cmd *cobra.Command, f *command.Facade, args []string) error

// withFacade builds the facade for one invocation and runs fn with it
func withFacade(flags *Flags, fn facadeFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		h, err := ResolveHome(flags)
		if err != nil {
			return err
		}
		if err := h.Init(); err != nil {
			return err
		}

		dir := flags.Dir
		if dir == "" {
			if dir, err = os.Getwd(); err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}
		if dir, err = filepath.Abs(dir); err != nil {
			return fmt.Errorf("failed to resolve %s: %w", flags.Dir, err)
		}

		f := command.NewFacade(h, dir, ExplicitOptions(cmd), cmd.OutOrStdout())
		defer f.Close()

		log.Debug().Str("command", cmd.Name()).Str("home", h.Dir).Str("dir", dir).Msg("running")
		return fn(cmd, f, args)
	}
}

// ExplicitOptions collects the glossary options set on the command line
func ExplicitOptions(cmd *cobra.Command) config.Options {
	opts := config.Options{}
	cmd.Flags().Visit(func(fl *pflag.Flag) {
		for _, key := range config.Keys {
			if fl.Name == key {
				opts[key] = fl.Value.String()
			}
		}
	})
	return opts
}

// ResolveHome picks the home directory from --home, the settings file or
// $LOGALING_HOME, falling back to ~/.logaling.d
func ResolveHome(flags *Flags) (*home.Home, error) {
	if flags.Home != "" {
		return home.New(flags.Home), nil
	}
	if dir := viper.GetString("home"); dir != "" {
		return home.New(dir), nil
	}
	return home.Default()
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		userHome, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".loga" (without extension)
		viper.AddConfigPath(userHome)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".loga")
	}

	// Environment variables, LOGALING_HOME maps to "home"
	viper.SetEnvPrefix("LOGALING")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using settings file")
	}
}

// SetupLogging configures the global zerolog logger. Debug output is
// enabled by --verbose, otherwise the log_level setting applies.
func SetupLogging() {
	level := zerolog.WarnLevel
	if lv, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(viper.GetString("log_level")))); err == nil && lv != zerolog.NoLevel {
		level = lv
	}
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
