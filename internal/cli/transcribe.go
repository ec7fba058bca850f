package cli

import (
	"github.com/spf13/cobra"

	"minutemic/internal/domain"
)

func NewTranscribeCmd(deps *Dependencies) *cobra.Command {
	var result resultFlags

	cmd := &cobra.Command{
		Use:   "transcribe FILE",
		Short: "Transcribe an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps.Out.Info("Transcribing " + args[0] + "...")
			transcript, err := deps.Services.Submitter.TranscribeFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			deps.Out.Transcript(transcript)
			return result.apply(cmd.Context(), deps, domain.WorkflowAudioToText)
		},
	}

	result.register(cmd)
	return cmd
}
