package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thinkglobalschool/spot-cli/internal/api"
	"github.com/thinkglobalschool/spot-cli/internal/debug"
	"github.com/thinkglobalschool/spot-cli/internal/dryrun"
	"github.com/thinkglobalschool/spot-cli/internal/iocontext"
	"github.com/thinkglobalschool/spot-cli/internal/outfmt"
	"github.com/thinkglobalschool/spot-cli/internal/validation"
)

const envOutput = "SPOT_OUTPUT"

// rootFlags holds global CLI flags
type rootFlags struct {
	Output       string
	JSON         bool
	Debug        bool
	Quiet        bool
	DryRun       bool
	AllowPrivate bool
	Query        string
	ConfigFile   string
	EnvFile      string
	APIEndpoint  string
	APIKey       string
	Encoding     string
	Timeout      time.Duration
}

// flags holds the global command flags. It is package-level mutable state
// that MUST be reset at the start of every Execute() call; tests run many
// Execute() calls in one process.
var flags = defaultFlags()

func defaultFlags() rootFlags {
	return rootFlags{
		Output:  defaultOutput(),
		Timeout: api.DefaultTimeout,
	}
}

func defaultOutput() string {
	if value := strings.TrimSpace(os.Getenv(envOutput)); value != "" {
		return value
	}
	return "text"
}

func parseBoolEnv(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	flags = defaultFlags()

	root := &cobra.Command{
		Use:                "spot",
		Short:              "Command-line client for the Spot social network API",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // enhanceUnknownError suggests instead
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if flags.JSON {
				if cmd.Flags().Changed("output") && flags.Output != "json" {
					return fmt.Errorf("--json conflicts with --output %s", flags.Output)
				}
				flags.Output = "json"
			}
			if flags.Query != "" && flags.Output != "json" {
				if cmd.Flags().Changed("output") {
					return fmt.Errorf("--jq requires --output json (or --json)")
				}
				flags.Output = "json"
			}
			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			ctx = outfmt.WithMode(ctx, mode)
			if flags.Query != "" {
				ctx = outfmt.WithQuery(ctx, flags.Query)
			}

			if flags.Timeout < 0 {
				return fmt.Errorf("--timeout must be >= 0")
			}

			ioStreams := iocontext.DefaultIO()
			if flags.Quiet && mode == outfmt.Text {
				ioStreams.Out = io.Discard
			}
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			allowPrivate := parseBoolEnv("SPOT_ALLOW_PRIVATE") || flags.AllowPrivate
			validation.SetAllowPrivate(allowPrivate)

			debug.SetupLogger(flags.Debug)
			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json (env SPOT_OUTPUT)")
	pf.BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	pf.StringVarP(&flags.Query, "jq", "q", "", "JQ expression to filter JSON output")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-essential output")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Print the posts that would be sent without sending them")
	pf.BoolVar(&flags.AllowPrivate, "allow-private", false, "Allow private/localhost API endpoints (env SPOT_ALLOW_PRIVATE)")
	pf.StringVar(&flags.ConfigFile, "config", "", "Managed config file (env SPOT_CONFIG)")
	pf.StringVar(&flags.EnvFile, "env-file", "", "Load SPOT_* settings from a .env file")
	pf.StringVar(&flags.APIEndpoint, "api-endpoint", "", "Spot API endpoint (env SPOT_API_ENDPOINT)")
	pf.StringVar(&flags.APIKey, "api-key", "", "Spot API key (env SPOT_API_KEY)")
	pf.StringVar(&flags.Encoding, "encoding", "", "Request encoding: url|json (env SPOT_API_ENCODING)")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newPingCmd())
	root.AddCommand(newProfileCmd())
	root.AddCommand(newBookmarkCmd())
	root.AddCommand(newWireCmd())
	root.AddCommand(newPhotosCmd())
	root.AddCommand(newAlbumsCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanceUnknownError(err, root, targetCmd))
		}
		return err
	}
	return nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
// targetCmd is the command Cobra resolved before the error (may be root itself).
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			var names []string
			for _, c := range root.Commands() {
				if c.IsAvailableCommand() || c.Name() == "help" {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestCommand(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
		return msg
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		unknown := extractFlag(msg)
		if unknown == "" {
			return msg
		}
		seen := make(map[string]bool)
		var flagNames []string
		addFlags := func(fs *pflag.FlagSet) {
			fs.VisitAll(func(f *pflag.Flag) {
				if name := "--" + f.Name; !seen[name] {
					seen[name] = true
					flagNames = append(flagNames, name)
				}
			})
		}
		cmd := root
		if targetCmd != nil {
			cmd = targetCmd
		}
		addFlags(cmd.Flags())
		addFlags(cmd.InheritedFlags())

		helpCmd := strings.TrimSpace(cmd.CommandPath()) + " --help"
		if suggestion := suggestFlag(unknown, flagNames); suggestion != "" {
			return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, helpCmd)
		}
		return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, helpCmd)
	}

	return msg
}

// extractQuoted extracts the first double-quoted substring from s.
func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

// extractFlag extracts a flag name (e.g., "--foo") from an error message.
func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		// shorthand errors look like "unknown shorthand flag: 'a' in -a"
		idx = strings.LastIndex(s, " -")
		if idx < 0 {
			return ""
		}
		rest := strings.TrimSpace(s[idx+1:])
		if end := strings.IndexByte(rest, ' '); end >= 0 {
			rest = rest[:end]
		}
		rest = strings.TrimRight(rest, ".,;:!?\"'")
		if strings.HasPrefix(rest, "-") && len(rest) > 1 {
			return rest
		}
		return ""
	}
	rest := s[idx:]
	end := strings.IndexByte(rest, ' ')
	if end < 0 {
		end = len(rest)
	}
	return strings.TrimRight(rest[:end], ".,;:!?\"'")
}
