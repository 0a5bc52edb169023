package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "0.1.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// rootOptions holds the flags shared by the root command and its children
type rootOptions struct {
	configFile string
	logLevel   string
	quiet      bool

	output     string
	completion string
	workers    int
	retry      int
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "everia [url]",
		Short: "Download every image of a paginated gallery listing",
		Long: `everia walks a paginated gallery listing, visits every post it links to and
downloads the post's images into one folder per post.

Listing pages are fetched as <url>, <url>page/2/, <url>page/3/, ... until the
site answers with a redirect or an error. Posts are then downloaded by a fixed
number of workers; each image is retried immediately until its budget runs out.`,
		Example: `  # Download a category into ./gravure
  everia https://everia.club/category/gravure/

  # Choose the output directory and use fewer workers
  everia https://everia.club/category/gravure/ -o ./photos --workers 4

  # Generate a shell completion script
  everia -c zsh > "${fpath[1]}/_everia"`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.completion != "" {
				return writeCompletion(cmd, opts.completion)
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			return runCrawl(cmd, opts, strings.TrimSpace(args[0]))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ./.everia.yaml or $HOME/.everia.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress all output except errors")

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory (default: derived from the url)")
	cmd.Flags().StringVarP(&opts.completion, "completion", "c", "", "print a completion script for "+strings.Join(completionShells, ", "))
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "number of posts downloaded in parallel (default 8)")
	cmd.Flags().IntVar(&opts.retry, "retry", 0, "retries per image after the first attempt (default 30)")

	_ = cmd.RegisterFlagCompletionFunc("completion", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return completionShells, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.SetVersionTemplate(`everia {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}

// writeCompletion prints the completion script for shell
func writeCompletion(cmd *cobra.Command, shell string) error {
	out := cmd.OutOrStdout()
	root := cmd.Root()

	switch strings.ToLower(shell) {
	case "bash":
		return root.GenBashCompletionV2(out, true)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(out)
	default:
		return fmt.Errorf("unsupported shell %q (expected one of %s)", shell, strings.Join(completionShells, ", "))
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "everia %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit:     %s\n", gitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:      %s\n", buildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "  go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "  os/arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
