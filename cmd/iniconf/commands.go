// FILE: lixenwraith/iniconf/cmd/iniconf/commands.go
package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	config "github.com/lixenwraith/iniconf"
)

// globalOptions holds the persistent flags shared by every command
type globalOptions struct {
	file           string
	defaultSection string
	culture        string
	verbose        bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "iniconf",
		Short:         "Inspect and edit INI configuration files",
		SilenceUsage:  true,
		SilenceErrors: false,
		Long: `Inspect and edit INI configuration files while keeping comments and order.

Without --file, the file is discovered as iniconf.ini/.conf/.cfg in the current
directory, $XDG_CONFIG_HOME/iniconf and /etc/iniconf, or from $INICONF_CONFIG.

Examples:
  iniconf -f mail.ini sections
  iniconf -f mail.ini get mailer sender
  iniconf -f mail.ini get mailer port --type int
  iniconf -f mail.ini set mailer port 587 --comment "submission port"
  iniconf -f mail.ini export --format yaml`,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.file, "file", "f", "", "INI file to operate on")
	flags.StringVar(&opts.defaultSection, "default-section", config.DefaultSectionName, "section for pairs before any header")
	flags.StringVar(&opts.culture, "culture", "", "BCP 47 tag for number formatting (e.g. de-DE)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug events to stderr")

	rootCmd.AddCommand(
		newGetCmd(opts),
		newSetCmd(opts),
		newUnsetCmd(opts),
		newSectionsCmd(opts),
		newKeysCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newFmtCmd(opts),
		newValidateCmd(opts),
	)
	return rootCmd
}

// load builds the Config for a command. A missing file is fatal unless
// allowMissing is set.
func (o *globalOptions) load(allowMissing bool) (*config.Config, error) {
	builder := config.NewBuilder().
		WithDefaultSection(o.defaultSection).
		WithCulture(o.culture).
		WithLogger(newLogger(o.verbose))

	if o.file != "" {
		builder = builder.WithFile(o.file)
	} else {
		builder = builder.WithArgs(nil).WithFileDiscovery(config.DefaultDiscoveryOptions("iniconf"))
	}

	cfg, err := builder.Build()
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && allowMissing {
			return cfg, nil
		}
		return nil, err
	}
	if cfg.Path() == "" {
		return nil, fmt.Errorf("no configuration file given and none discovered; use --file")
	}
	return cfg, nil
}

func newGetCmd(opts *globalOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "get <section> <key>",
		Short: "Print a value, optionally converted to a type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(false)
			if err != nil {
				return err
			}

			section, key := args[0], args[1]
			if !cfg.Has(section, key) {
				return fmt.Errorf("%s.%s is not set", section, key)
			}

			var value any
			switch strings.ToLower(kind) {
			case "string", "":
				value, err = config.Get[string](cfg, section, key)
			case "bool":
				value, err = config.Get[*bool](cfg, section, key)
			case "int":
				value, err = config.Get[*int](cfg, section, key)
			case "double", "float":
				value, err = config.Get[*float64](cfg, section, key)
			case "decimal":
				value, err = config.Get[*decimal.Decimal](cfg, section, key)
			default:
				return fmt.Errorf("unknown type %q (want string, bool, int, double or decimal)", kind)
			}
			if err != nil {
				return err
			}
			if reflect.ValueOf(value).Kind() == reflect.Ptr && reflect.ValueOf(value).IsNil() {
				return fmt.Errorf("%s.%s cannot be read as %s", section, key, kind)
			}

			out, err := config.NewConverter(cfg.Culture()).Format(value)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "type", "t", "string", "convert to string, bool, int, double or decimal")
	return cmd
}

func newSetCmd(opts *globalOptions) *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "set <section> <key> <value>",
		Short: "Set a value and save the file",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := opts.load(true)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1], args[2], comment); err != nil {
				return err
			}
			return cfg.Save()
		},
	}
	cmd.Flags().StringVarP(&comment, "comment", "c", "", "trailing comment for the pair")
	return cmd
}

func newUnsetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <section> <key>",
		Short: "Remove a pair and save the file",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := opts.load(false)
			if err != nil {
				return err
			}
			if !cfg.Unset(args[0], args[1]) {
				return fmt.Errorf("%s.%s is not set", args[0], args[1])
			}
			return cfg.Save()
		},
	}
}

func newSectionsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List sections in file order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(false)
			if err != nil {
				return err
			}
			for _, name := range cfg.Sections() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newKeysCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys <section>",
		Short: "List the keys of a section in file order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(false)
			if err != nil {
				return err
			}
			for _, key := range cfg.Keys(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Convert the file to TOML, JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(false)
			if err != nil {
				return err
			}
			if output != "" {
				return cfg.ExportFile(output, format)
			}
			return cfg.Export(cmd.OutOrStdout(), format)
		},
	}
	cmd.Flags().StringVar(&format, "format", config.FormatJSON, "ini, toml, json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func newImportCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a TOML, JSON, YAML or INI file into the file and save it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := opts.load(true)
			if err != nil {
				return err
			}
			if err := cfg.Import(args[0]); err != nil {
				return err
			}
			return cfg.Save()
		},
	}
}

func newFmtCmd(opts *globalOptions) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Rewrite the file in canonical form, dropping malformed lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load(false)
			if err != nil {
				return err
			}

			dropped := cfg.Document().DroppedLines()
			if check {
				if len(dropped) > 0 {
					return fmt.Errorf("%s: malformed lines %v", cfg.Path(), dropped)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", cfg.Path())
				return nil
			}

			if len(dropped) > 0 {
				fmt.Fprintf(os.Stderr, "Warning: dropping malformed lines %v\n", dropped)
			}
			return cfg.Save()
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "only report malformed lines")
	return cmd
}

func newValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <section.key>...",
		Short: "Fail unless every given key holds a non-empty value",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(false)
			if err != nil {
				return err
			}
			if err := cfg.Validate(args...); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
