package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spance/concise-go/constants"
	"github.com/spance/concise-go/shortener"
	"github.com/spance/concise-go/shortener/definitions"
	"github.com/spance/concise-go/utils"
	"github.com/spf13/cobra"
)

const (
	exitOK      = 0
	exitFailure = 1
)

// options holds raw command line values
type options struct {
	Model    string
	Endpoint string
	Ratio    float64
	Timeout  time.Duration
	EnvFile  string
	Debug    bool
}

func newRootCmd(env definitions.LookupFunc, stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "concise",
		Short: "Concise - shorten text with an OpenAI-compatible model",
		Long: `Concise reads text from stdin, asks a chat completion model for a shorter
rewrite and writes the result to stdout. It is meant to be called by editor plugins.

The API key is read from ` + constants.EnvAPIKey + `.`,
		Example: `  # Shorten a paragraph to about 75% of its length
  echo "some long text" | concise

  # Aim for half the length with another model
  concise --ratio 0.5 --model gpt-4o < draft.txt

  # Use a self-hosted endpoint
  concise --endpoint http://localhost:8000/v1/chat/completions < draft.txt`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.WarnLevel
			if opts.Debug {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
				Level(level).
				With().Timestamp().Logger()
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return shorten(cmd, opts, env)
		},
	}

	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVar(&opts.Model, "model", "",
		fmt.Sprintf("Model name (env %s, default %q)", constants.EnvModel, constants.DefaultModel))

	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "",
		fmt.Sprintf("Chat completions endpoint URL (env %s, default %q)", constants.EnvEndpoint, constants.DefaultEndpoint))

	cmd.Flags().Float64Var(&opts.Ratio, "ratio", constants.DefaultRatio,
		"Target length ratio relative to the original text")

	cmd.Flags().DurationVar(&opts.Timeout, "timeout", constants.DefaultTimeout,
		"Request timeout")

	cmd.Flags().StringVar(&opts.EnvFile, "env-file", "",
		fmt.Sprintf("Optional dotenv file read below the process environment (env %s)", constants.EnvEnvFile))

	cmd.Flags().BoolVar(&opts.Debug, "debug", false,
		"Enable debug logging on stderr (default: false)")

	return cmd
}

func shorten(cmd *cobra.Command, opts *options, env definitions.LookupFunc) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	cfg, err := definitions.Resolve(definitions.Flags{
		Model:    opts.Model,
		Endpoint: opts.Endpoint,
		EnvFile:  opts.EnvFile,
		Ratio:    opts.Ratio,
		Timeout:  opts.Timeout,
	}, env)
	if err != nil {
		return err
	}
	if encoded, err := utils.JsonString(cfg); err != nil {
		logger.Debug().Err(err).Msg("encode configuration")
	} else {
		logger.Debug().Str("config", encoded).Msg("resolved configuration")
	}

	revised, err := shortener.NewShortener(cfg, logger).Run(ctx, cmd.InOrStdin())
	if err != nil {
		return err
	}

	if _, err := io.WriteString(cmd.OutOrStdout(), revised); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// exitCode maps a run result to the process exit status. Every failure kind
// is terminal and exits with the same status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	return exitFailure
}

func run(ctx context.Context, args []string, env definitions.LookupFunc, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(env, stdin, stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err)
	}
	return exitCode(err)
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Getenv, os.Stdin, os.Stdout, os.Stderr))
}
