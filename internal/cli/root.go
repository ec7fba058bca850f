package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"minutemic/internal/bootstrap"
	"minutemic/internal/domain"
	"minutemic/internal/output"
	"minutemic/internal/ports"
)

// Dependencies are resolved once before any subcommand runs.
type Dependencies struct {
	Services  bootstrap.Services
	Terminal  *Terminal
	Out       *output.Formatter
	Clipboard ports.Clipboard
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "minutemic-cli",
		Short:         "Record meetings and summarize them from the terminal",
		Long:          "Records the microphone to WAV and sends recordings or text to the meeting summary service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if deps.Out == nil {
				deps.Out = output.NewFormatter(cmd.OutOrStdout())
			}
			if deps.Terminal == nil {
				deps.Terminal = NewTerminal(deps.Out)
			}
			if deps.Clipboard == nil {
				deps.Clipboard = systemClipboard{}
			}

			var console io.Writer = io.Discard
			if verbose {
				console = os.Stderr
			}
			services, err := bootstrap.Build(bootstrap.Adapters{
				Events:     deps.Terminal,
				Confirmer:  deps.Terminal,
				LogConsole: console,
			})
			if err != nil {
				return fmt.Errorf("initializing: %w", err)
			}
			deps.Services = services
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if deps.Services.Logger != nil {
				_ = deps.Services.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to stderr as well as the log file")

	rootCmd.AddCommand(NewRecordCmd(deps))
	rootCmd.AddCommand(NewTranscribeCmd(deps))
	rootCmd.AddCommand(NewSummarizeCmd(deps))
	rootCmd.AddCommand(NewSummarizeAudioCmd(deps))
	rootCmd.AddCommand(NewStatusCmd(deps))
	rootCmd.AddCommand(NewPrefsCmd(deps))

	return rootCmd
}

// resultFlags are the post-processing options shared by result commands.
type resultFlags struct {
	copy   bool
	export bool
}

func (r *resultFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&r.copy, "copy", false, "Copy the result to the clipboard")
	cmd.Flags().BoolVar(&r.export, "export", false, "Write the result as JSON into the export directory")
}

func (r *resultFlags) apply(ctx context.Context, deps *Dependencies, workflow domain.Workflow) error {
	if r.copy {
		text, err := deps.Services.Submitter.ResultText(workflow)
		if err != nil {
			return err
		}
		if err := deps.Clipboard.SetText(ctx, text); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		deps.Out.Success("Copied to clipboard")
	}
	if r.export {
		path, err := deps.Services.Submitter.ExportResult(workflow, deps.Services.Config.Storage.ExportDir)
		if err != nil {
			return fmt.Errorf("export result: %w", err)
		}
		deps.Out.Success("Exported: " + path)
	}
	return nil
}
