package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mimecast/urlgrep/internal/config"
	"github.com/mimecast/urlgrep/internal/constants"
	"github.com/mimecast/urlgrep/internal/discovery"
	"github.com/mimecast/urlgrep/internal/errors"
	"github.com/mimecast/urlgrep/internal/grep"
	"github.com/mimecast/urlgrep/internal/io/dlog"
	"github.com/mimecast/urlgrep/internal/io/signal"
	"github.com/mimecast/urlgrep/internal/profiling"
	"github.com/mimecast/urlgrep/internal/report"
	"github.com/mimecast/urlgrep/internal/source"
	"github.com/mimecast/urlgrep/internal/version"
)

// streams is the process environment a command runs against.
type streams struct {
	in          io.Reader
	out         io.Writer
	err         io.Writer
	outTerminal bool
	lookupEnv   func(string) (string, bool)
}

// exitError carries the process exit status of a failed run.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

type rootFlags struct {
	args        config.Args
	prof        profiling.Flags
	sourcesFile string
	showVersion bool
}

// execute runs urlgrep with argv and returns the exit status.
func execute(ctx context.Context, argv []string, s streams) int {
	cmd := newRootCmd(s)
	cmd.SetArgs(argv)
	cmd.SetIn(s.in)
	cmd.SetOut(s.out)
	cmd.SetErr(s.err)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintf(s.err, "%s: %v\n", version.Name, err)

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return constants.ExitConfigError
}

func newRootCmd(s streams) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   version.Name + " [flags] [source...]",
		Short: "Concurrent grep over URLs, files and remote files",
		Long: "urlgrep fetches every source concurrently and prints each line containing\n" +
			"the substring as source:lineNumber:text, followed by the match count.\n\n" +
			"Sources are http(s):// URLs, file:// URLs or paths, and\n" +
			"ssh://[user@]host[:port]/path. Sources ending in .zst or .gz are\n" +
			"decompressed. The source \"-\" reads further sources from stdin, one per\n" +
			"line; stdin is never read otherwise. Without positional sources,\n" +
			"--sourcesFile is read (\"-\" for stdin), then the configured sources are\n" +
			"used, then the defaults. A given but empty source list fetches nothing.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, positional []string) error {
			return run(cmd, s, &flags, positional)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.args.Grep, "grep", "g", config.DefaultGrep, "Literal, case-sensitive substring to search for")
	f.BoolVar(&flags.args.Invert, "invert", false, "Print lines not containing the substring")
	f.IntVarP(&flags.args.Consumers, "consumers", "n", config.DefaultConsumers, "Number of consumers filtering lines")
	f.StringVar(&flags.args.ConfigFile, "cfg", "", "Config file path")
	f.StringVar(&flags.args.LogLevel, "logLevel", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	f.StringVar(&flags.args.LogFormat, "logFormat", config.DefaultLogFormat, "Log format (text, json)")
	f.DurationVar(&flags.args.Timeout, "timeout", config.DefaultTimeout, "Overall timeout of one HTTP fetch, 0 to disable")
	f.StringVar(&flags.args.SSHPrivateKeyPath, "key", "", "Path to private key for ssh:// sources")
	f.StringVar(&flags.args.KnownHostsPath, "knownHosts", "", "Path to known_hosts file for ssh:// sources")
	f.BoolVar(&flags.args.TrustAllHosts, "trustAllHosts", false, "Trust all SSH host keys")
	f.BoolVar(&flags.args.Sort, "sort", false, "Sort matches by source and line number")
	f.BoolVar(&flags.args.Stats, "stats", false, "Print a per-source statistics table")
	f.BoolVar(&flags.args.NoColor, "noColor", false, "Disable ANSI terminal colors")
	f.StringVar(&flags.sourcesFile, "sourcesFile", "", "File listing one source per line, - for stdin")
	f.BoolVar(&flags.showVersion, "version", false, "Display version")
	profiling.AddFlags(f, &flags.prof)

	return cmd
}

func run(cmd *cobra.Command, s streams, flags *rootFlags, positional []string) error {
	if flags.showVersion {
		fmt.Fprintln(s.out, version.String())
		return nil
	}

	args := &flags.args
	cmd.Flags().Visit(func(f *pflag.Flag) { args.Set(f.Name) })
	sources, given, err := sourcesOf(positional, flags.sourcesFile, s.in)
	if err != nil {
		return &exitError{code: constants.ExitConfigError, err: err}
	}
	args.Sources = sources
	if given {
		args.Set("sources")
	}

	cfg, err := config.Setup(args, s.lookupEnv)
	if err != nil {
		return &exitError{code: constants.ExitConfigError, err: err}
	}

	level, _ := dlog.ParseLevel(cfg.LogLevel)
	dlog.Start(level, cfg.LogFormat, s.err)
	logger := dlog.New("main")
	logger.Debug("Configuration", "config", cfg.String())

	profiler := profiling.NewProfiler(flags.prof.ToConfig(version.Name))
	defer profiler.Stop()

	ctx, stop := signal.CancelOnSignal(cmd.Context())
	defer stop()

	coordinator, err := grep.New(grep.Config{
		Substring: cfg.Grep,
		Invert:    cfg.Invert,
		Sources:   cfg.Sources,
		Consumers: cfg.Consumers,
	}, newResolver(cfg))
	if err != nil {
		return &exitError{code: constants.ExitConfigError, err: err}
	}

	result, runErr := coordinator.Run(ctx)
	reporter := report.New(s.out, report.Options{
		Sort:      cfg.Output.Sort,
		Stats:     cfg.Output.Stats,
		Color:     !cfg.Output.NoColor && s.outTerminal,
		Substring: cfg.Grep,
		Invert:    cfg.Invert,
	})
	if err := reporter.Report(result); err != nil {
		logger.Error("Unable to write report", "error", err)
	}
	profiler.LogMetrics("run")

	if runErr != nil {
		return &exitError{code: constants.ExitInterrupted, err: runErr}
	}
	return nil
}

// sourcesOf returns the sources named on the command line and whether any
// were named at all. Positional sources win over the sources file. A "-"
// source, or "-" as the sources file, reads the list from stdin.
func sourcesOf(positional []string, sourcesFile string, in io.Reader) ([]string, bool, error) {
	switch {
	case len(positional) > 0:
		var sources []string
		for _, src := range positional {
			if src != stdinSource {
				sources = append(sources, src)
				continue
			}
			stdinSources, err := discovery.FromReader(in)
			if err != nil {
				return nil, true, errors.Wrap(err, "reading sources from stdin")
			}
			sources = append(sources, stdinSources...)
		}
		return sources, true, nil
	case sourcesFile == stdinSource:
		sources, err := discovery.FromReader(in)
		if err != nil {
			return nil, true, errors.Wrap(err, "reading sources from stdin")
		}
		return sources, true, nil
	case sourcesFile != "":
		sources, err := discovery.FromFile(sourcesFile)
		return sources, true, err
	}
	return nil, false, nil
}

const stdinSource = "-"

func newResolver(cfg *config.Config) *source.Mux {
	return &source.Mux{
		Files: source.Files{},
		HTTP:  source.NewHTTP(cfg.Timeout),
		SSH: source.NewSSH(source.SSHOptions{
			User:           cfg.SSH.User,
			PrivateKeyPath: cfg.SSH.PrivateKeyPath,
			KnownHostsPath: cfg.SSH.KnownHostsPath,
			TrustAllHosts:  cfg.SSH.TrustAllHosts,
		}),
	}
}
