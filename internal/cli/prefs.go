package cli

import (
	"github.com/spf13/cobra"

	"minutemic/internal/usecase"
)

func NewPrefsCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show the credential preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := deps.Services.Preferences
			prefs, err := store.Load()
			if err != nil {
				return err
			}
			deps.Out.Preferences(prefs, store.Path())
			return nil
		},
	}

	cmd.AddCommand(newPrefsSetCmd(deps))
	return cmd
}

func newPrefsSetCmd(deps *Dependencies) *cobra.Command {
	var useDefault bool
	var credential string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the credential preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := deps.Services.Preferences
			prefs, err := store.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("use-default") {
				prefs.UseDefaultCredential = useDefault
			}
			if cmd.Flags().Changed("credential") {
				prefs.CustomCredential = credential
				if !cmd.Flags().Changed("use-default") {
					prefs.UseDefaultCredential = credential == ""
				}
			}
			if err := usecase.ValidatePreferences(prefs); err != nil {
				return err
			}
			if err := store.Save(prefs); err != nil {
				return err
			}
			deps.Out.Success("Preferences saved")
			deps.Out.Preferences(prefs, store.Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&useDefault, "use-default", true, "Use the built-in service credential")
	cmd.Flags().StringVar(&credential, "credential", "", "Custom service credential")
	return cmd
}
