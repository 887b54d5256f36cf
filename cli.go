package regmv

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X github.com/sokinpui/regmv.version=...".
var version = "1.0.0-dev"

type CLIConfig struct {
	All         bool
	Recursive   bool
	Symlinks    bool
	Directories bool
	Path        bool
	Execute     bool
	Bypass      bool
	Verbosity   Level
	NoColor     bool
	Copy        bool
	ChangeLog   string
	Root        string
	ConfigFile  string
	Completion  string
}

// Streams are the process streams the command talks to.
type Streams struct {
	In  *os.File
	Out io.Writer
	Err io.Writer
}

func DefaultStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// levelValue lets -v take either a number or a level name.
type levelValue struct{ p *Level }

func (v *levelValue) String() string { return fmt.Sprintf("%d", int(*v.p)) }
func (v *levelValue) Type() string   { return "level" }
func (v *levelValue) Set(s string) error {
	level, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*v.p = level
	return nil
}

// NewRootCommand builds the regmv command. fsys is the filesystem the
// batch runs against.
func NewRootCommand(fsys afero.Fs, streams Streams) *cobra.Command {
	cli := &CLIConfig{Verbosity: LevelInfo, ChangeLog: DefaultChangeLogPath, Root: "./"}

	cmd := &cobra.Command{
		Use:   "regmv [flags] MATCH REPLACE",
		Short: "Move or rename files using regular expressions.",
		Long: `Move or rename files using regular expressions.

The changes are only listed unless -E is given. See "regmv manual" for details.

Example: regmv -r '^(.*)\.jpeg$' '$1.jpg'`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if cli.Completion != "" {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cli.Completion != "" {
				return handleCompletion(cmd, cli.Completion, streams.Out)
			}

			cfg, err := buildConfig(cmd, fsys, cli, args)
			if err != nil {
				return err
			}

			msg := NewMessenger(MessengerOptions{
				MinLevel: cfg.Verbosity,
				Colored:  useColor(cfg.NoColor, streams.Out),
				Stdout:   streams.Out,
				Stderr:   streams.Err,
			})

			app := NewApp(&cfg,
				WithFS(fsys),
				WithMessenger(msg),
				WithPrompter(NewPrompter(streams.In, streams.Out)),
				WithClipboard(SystemClipboard()),
			)
			if _, err := app.Run(); err != nil {
				if cfg.Verbosity == LevelTrace {
					fmt.Fprintln(streams.Err, ErrorStack(err))
				}
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&cli.All, "all", "a", false, "Also move/rename hidden files (and recurse in hidden directories if recursive flag is set)")
	flags.BoolVarP(&cli.Recursive, "recursive", "r", false, "Move/rename files recursively")
	flags.BoolVarP(&cli.Symlinks, "symlinks", "s", false, "Follow symbolic links during recursion (can lead into infinite recursion)")
	flags.BoolVarP(&cli.Directories, "directories", "d", false, "Work on directories instead of files")
	flags.BoolVarP(&cli.Path, "path", "p", false, "Match the complete path instead of just the basename (paths begin with './')")
	flags.BoolVarP(&cli.Execute, "execute", "E", false, "CAUTION! Really EXECUTE the changes")
	flags.BoolVarP(&cli.Bypass, "bypass", "B", false, "CAUTION! Bypass the checks, can cause IRREVERSIBLE damage")
	flags.VarP(&levelValue{&cli.Verbosity}, "verbosity", "v", "Minimum message level, 0-6 or a name (see 'regmv manual verbosity')")
	flags.BoolVar(&cli.NoColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&cli.Copy, "copy", false, "Copy the listed changes to the clipboard")
	flags.StringVar(&cli.ChangeLog, "changelog", cli.ChangeLog, "File the applied renames are appended to when a batch aborts")
	flags.StringVar(&cli.Root, "root", cli.Root, "Directory to work in")
	flags.StringVar(&cli.ConfigFile, "config", "", "Config file with defaults (default $XDG_CONFIG_HOME/regmv/config.json)")
	flags.StringVar(&cli.Completion, "completion", "", "Generate completion script (bash, zsh, fish, powershell)")

	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.AddCommand(newManualCommand(streams))
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)
	return cmd
}

// buildConfig layers defaults, the config file and explicitly set flags.
func buildConfig(cmd *cobra.Command, fsys afero.Fs, cli *CLIConfig, args []string) (Config, error) {
	cfg := DefaultConfig()

	path := cli.ConfigFile
	if path == "" {
		if p, err := DefaultConfigPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		loaded, err := LoadConfigFile(fsys, path, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("all") {
		cfg.IncludeHidden = cli.All
	}
	if changed("recursive") {
		cfg.Recursive = cli.Recursive
	}
	if changed("symlinks") {
		cfg.FollowSymlinks = cli.Symlinks
	}
	if changed("verbosity") {
		cfg.Verbosity = cli.Verbosity
	}
	if changed("no-color") {
		cfg.NoColor = cli.NoColor
	}
	if changed("changelog") {
		cfg.ChangeLogPath = cli.ChangeLog
	}
	if cli.Directories {
		cfg.TargetKind = TargetDirectories
	}
	cfg.Root = cli.Root
	cfg.MatchFullPath = cli.Path
	cfg.Execute = cli.Execute
	cfg.BypassChecks = cli.Bypass
	cfg.Copy = cli.Copy
	cfg.Match, cfg.Replace = args[0], args[1]

	return cfg, cfg.Validate()
}

// useColor follows --no-color, NO_COLOR (https://no-color.org), TERM=dumb
// and whether out is a terminal.
func useColor(noColor bool, out io.Writer) bool {
	if noColor || os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func handleCompletion(cmd *cobra.Command, shell string, out io.Writer) error {
	switch shell {
	case "bash":
		return cmd.Root().GenBashCompletion(out)
	case "zsh":
		return cmd.Root().GenZshCompletion(out)
	case "fish":
		return cmd.Root().GenFishCompletion(out, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(out)
	default:
		return fmt.Errorf("unsupported shell for completion: %s", shell)
	}
}

func newManualCommand(streams Streams) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "manual [SECTION]",
		Short: "Show the manual, or one section of it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markdown := Manual()
			if len(args) == 1 {
				section, err := ManualSectionByTitle(args[0])
				if err != nil {
					return err
				}
				markdown = section.Body
			}
			if raw {
				_, err := io.WriteString(streams.Out, markdown)
				return err
			}
			out, err := RenderMarkdown(markdown, useColor(false, streams.Out))
			if err != nil {
				return err
			}
			_, err = io.WriteString(streams.Out, out)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source")
	return cmd
}

// Execute runs regmv against the real filesystem and process streams.
func Execute() error {
	return NewRootCommand(NewOSFS(), DefaultStreams()).Execute()
}
