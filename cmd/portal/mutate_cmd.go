package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/ui/dialog"
	"github.com/obraportal/portal-client/internal/ui/views"
)

// submit runs a dialog and reports its outcome the way the dialog shows it.
func submit[F any](ctx context.Context, w io.Writer, d *dialog.Dialog[F]) error {
	err := d.Submit(ctx)
	out := d.Outcome()
	if err != nil {
		if out.ErrorMessage != "" {
			return errors.New(out.ErrorMessage)
		}
		return err
	}
	fmt.Fprintln(w, out.SuccessMessage)
	return nil
}

func readAttachment(path string) (views.Attachment, error) {
	if path == "" {
		return views.Attachment{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return views.Attachment{}, err
	}
	return views.Attachment{Name: filepath.Base(path), Data: data}, nil
}

func newIncidentCmd(h *appHolder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incident",
		Short: "Report incidents and change their status",
	}

	var t viewTargets
	var room, description, image string
	report := &cobra.Command{
		Use:   "report",
		Short: "Report an incident in your building",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := h.get(cmd)
			if err != nil {
				return err
			}
			t.fill(cmd.Context(), a)
			att, err := readAttachment(image)
			if err != nil {
				return err
			}
			v := views.NewIncidentsView(a.portal, a.log)
			load(cmd.Context(), v, t.building)
			defer v.Unmount()

			v.Report.Open(views.IncidentForm{Description: description, Room: room, Image: att})
			return submit(cmd.Context(), cmd.OutOrStdout(), v.Report)
		},
	}
	report.Flags().Int64Var(&t.building, "building", 0, "building id (defaults to your assigned building)")
	report.Flags().StringVar(&room, "room", "", "room id")
	report.Flags().StringVarP(&description, "description", "d", "", "what happened")
	report.Flags().StringVar(&image, "image", "", "path to a photo of the incident")

	status := &cobra.Command{
		Use:   "status <incident-id> <PENDING|IN_PROGRESS|RESOLVED>",
		Short: "Move an incident to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid incident id %q", args[0])
			}
			a, err := h.get(cmd)
			if err != nil {
				return err
			}
			t.fill(cmd.Context(), a)
			v := views.NewIncidentsView(a.portal, a.log)
			load(cmd.Context(), v, t.building)
			defer v.Unmount()

			v.OpenStatus(domain.Incident{ID: id})
			v.ChangeStatus.Edit(func(f *views.StatusForm) { f.Status = args[1] })
			return submit(cmd.Context(), cmd.OutOrStdout(), v.ChangeStatus)
		},
	}
	status.Flags().Int64Var(&t.building, "building", 0, "building id")

	cmd.AddCommand(report, status)
	return cmd
}

func newEventCmd(h *appHolder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage building events",
	}

	var building int64
	var form views.EventForm
	create := &cobra.Command{
		Use:   "create",
		Short: "Schedule an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := h.get(cmd)
			if err != nil {
				return err
			}
			v := views.NewEventsView(a.portal, a.log)
			load(cmd.Context(), v, building)
			defer v.Unmount()

			v.Create.Open(form)
			return submit(cmd.Context(), cmd.OutOrStdout(), v.Create)
		},
	}
	create.Flags().Int64Var(&building, "building", 0, "building id")
	create.Flags().StringVar(&form.Title, "title", "", "event title")
	create.Flags().StringVar(&form.Description, "description", "", "event description")
	create.Flags().StringVar(&form.Date, "date", "", "date as YYYY-MM-DD")
	create.Flags().StringVar(&form.Time, "time", "", "time as HH:MM")

	var yes bool
	del := &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid event id %q", args[0])
			}
			a, err := h.get(cmd)
			if err != nil {
				return err
			}
			v := views.NewEventsView(a.portal, a.log)
			v.Delete.Open(views.DeleteForm{ID: id})
			if yes {
				v.Delete.Confirm()
			}
			return submit(cmd.Context(), cmd.OutOrStdout(), v.Delete)
		},
	}
	del.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")

	cmd.AddCommand(create, del)
	return cmd
}
