package main

import (
	"github.com/spf13/cobra"
)

// appHolder builds the app on first use so that commands which do not talk
// to the API (devserver) never touch the credential store.
type appHolder struct {
	a *app
}

func (h *appHolder) get(cmd *cobra.Command) (*app, error) {
	if h.a != nil {
		return h.a, nil
	}
	a, err := newApp(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	h.a = a
	return a, nil
}

func newRootCmd() *cobra.Command {
	h := &appHolder{}
	cmd := &cobra.Command{
		Use:           "portal",
		Short:         "Construction portal client",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if h.a == nil {
				return nil
			}
			return h.a.Close()
		},
	}
	cmd.AddCommand(
		newLoginCmd(h),
		newLogoutCmd(h),
		newWhoamiCmd(h),
		newViewCmd(h),
		newIncidentCmd(h),
		newEventCmd(h),
		newChatCmd(h),
		newDevserverCmd(),
	)
	return cmd
}
