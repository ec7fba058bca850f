package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"minutemic/internal/domain"
)

func NewSummarizeCmd(deps *Dependencies) *cobra.Command {
	var textFile, title, participants string
	var result resultFlags

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a transcript",
		Long:  "Summarize transcript text read from --text-file, or from stdin when the file is '-'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd.InOrStdin(), textFile)
			if err != nil {
				return err
			}
			deps.Out.Info("Generating summary...")
			view, err := deps.Services.Submitter.SummarizeText(cmd.Context(), title, participants, text)
			if err != nil {
				return err
			}
			deps.Out.Summary(view)
			return result.apply(cmd.Context(), deps, domain.WorkflowTextToSummary)
		},
	}

	cmd.Flags().StringVarP(&textFile, "text-file", "f", "-", "Transcript file, '-' for stdin")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Meeting title")
	cmd.Flags().StringVarP(&participants, "participants", "p", "", "Comma-separated participants")
	result.register(cmd)
	return cmd
}

func NewSummarizeAudioCmd(deps *Dependencies) *cobra.Command {
	var title, participants string
	var result resultFlags

	cmd := &cobra.Command{
		Use:   "summarize-audio FILE",
		Short: "Summarize an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps.Out.Info("Generating summary from " + args[0] + "...")
			view, err := deps.Services.Submitter.SummarizeFile(cmd.Context(), args[0], title, participants)
			if err != nil {
				return err
			}
			deps.Out.Summary(view)
			return result.apply(cmd.Context(), deps, domain.WorkflowAudioToSummary)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Meeting title")
	cmd.Flags().StringVarP(&participants, "participants", "p", "", "Comma-separated participants")
	result.register(cmd)
	return cmd
}

func readText(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return string(data), nil
}
