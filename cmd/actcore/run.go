package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brindlewood/actcore/core/redact"
	"github.com/brindlewood/actcore/core/value"
	"github.com/brindlewood/actcore/runtime/manifest"
	"github.com/brindlewood/actcore/runtime/sched"
	"github.com/brindlewood/actcore/runtime/session"
)

type runOptions struct {
	workflowPath string
	job          string
	actionsDir   string
	cacheDir     string
	stateDir     string
	runnerOS     string
	serverURL    string
	token        string
	shell        string
	set          []string
	debug        bool
	noColor      bool
	logFormat    string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one job of a workflow manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.workflowPath, "workflow", "f", "", "path to the workflow YAML manifest (required)")
	flags.StringVarP(&opts.job, "job", "j", "", "job name to run (required)")
	flags.StringVar(&opts.actionsDir, "actions-dir", ".actcore/actions", "directory to materialise resolved actions into")
	flags.StringVar(&opts.cacheDir, "cache-dir", envOrDefault("ACTCORE_CACHE_DIR", ".actcore/cache"), "local action cache (<owner>/<name>/<ref> checkouts)")
	flags.StringVar(&opts.stateDir, "state-dir", ".actcore/state", "directory for the GITHUB_ENV/GITHUB_PATH/GITHUB_OUTPUT file contract")
	flags.StringVar(&opts.runnerOS, "runner-os", envOrDefault("RUNNER_OS", "Linux"), "RUNNER_OS value exposed to steps")
	flags.StringVar(&opts.serverURL, "server-url", envOrDefault("GITHUB_SERVER_URL", "https://github.com"), "GITHUB_SERVER_URL value exposed to steps")
	flags.StringVar(&opts.token, "token", envOrDefault("GITHUB_TOKEN", ""), "token exposed as GITHUB_TOKEN and scrubbed from output")
	flags.StringVar(&opts.shell, "shell", "bash", "default shell for steps that omit shell:")
	flags.StringArrayVar(&opts.set, "set", nil, "seed a tree value as dotted.path=value (repeatable)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log output format: text or json")

	cobra.CheckErr(cmd.MarkFlagRequired("workflow"))
	cobra.CheckErr(cmd.MarkFlagRequired("job"))
	return cmd
}

func runRun(ctx context.Context, opts *runOptions) error {
	logger := newLogger(opts.logFormat, opts.debug)

	data, err := os.ReadFile(opts.workflowPath)
	if err != nil {
		return fmt.Errorf("actcore: reading workflow: %w", err)
	}
	wf, err := manifest.ParseWorkflow(data)
	if err != nil {
		return fmt.Errorf("actcore: parsing workflow: %w", err)
	}

	fileEnv := sched.NewFileEnv(opts.stateDir, "")
	baseEnv := sched.BaseEnv(fileEnv, opts.runnerOS, opts.serverURL, opts.token)
	baseEnv["PATH"] = os.Getenv("PATH")

	stdout := redact.NewScrubber(os.Stdout)
	stderr := redact.NewScrubber(os.Stderr)
	if opts.token != "" {
		stdout.Register(opts.token)
		stderr.Register(opts.token)
	}

	fetcher := &localFetcher{cacheDir: opts.cacheDir}
	reader := localObjectReader{}
	colors := session.ColorScheme{Enabled: !opts.noColor}

	sess := session.New(fetcher, reader, fileEnv, opts.actionsDir, baseEnv, stdout, stderr, logger, opts.shell, colors)

	tree := value.NewTree()
	for _, kv := range opts.set {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("actcore: --set %q must be dotted.path=value", kv)
		}
		tree.Insert(value.ParsePath(k), value.NewString(v))
	}

	if err := sess.RunWorkflow(ctx, wf, opts.job, tree); err != nil {
		if printErr := sess.PrintRemediations(os.Stderr); printErr != nil {
			logger.Debug("remediation print failed", "error", printErr)
		}
		return fmt.Errorf("actcore: %w", err)
	}
	return nil
}
