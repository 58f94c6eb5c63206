package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/ui/views"
)

type viewTargets struct {
	building int64
	worker   int64
	saveDir  string
}

// fill defaults the targets from the signed-in identity.
func (t *viewTargets) fill(ctx context.Context, a *app) {
	claims, err := a.session.Claims(ctx)
	if err != nil {
		return
	}
	if t.building == 0 && claims.HasBuilding() {
		t.building = *claims.BuildingID
	}
	if t.worker == 0 && claims.IsWorker() {
		t.worker = claims.SubjectID
	}
}

type viewRunner func(ctx context.Context, a *app, t viewTargets, w io.Writer) error

var viewRunners = map[string]viewRunner{
	"buildings": runBuildings,
	"incidents": runIncidents,
	"images":    runImages,
	"legal":     runLegal,
	"manuals":   runManuals,
	"invoices":  runInvoices,
	"events":    runEvents,
	"contacts":  runContacts,
	"profile":   runProfile,
}

func viewNames() []string {
	names := make([]string, 0, len(viewRunners))
	for n := range viewRunners {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func newViewCmd(h *appHolder) *cobra.Command {
	var t viewTargets

	cmd := &cobra.Command{
		Use:       "view <name>",
		Short:     "Load and print one portal screen",
		Long:      "Available views: " + strings.Join(viewNames(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: viewNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, ok := viewRunners[args[0]]
			if !ok {
				return fmt.Errorf("unknown view %q (available: %s)", args[0], strings.Join(viewNames(), ", "))
			}
			a, err := h.get(cmd)
			if err != nil {
				return err
			}
			t.fill(cmd.Context(), a)
			return run(cmd.Context(), a, t, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int64Var(&t.building, "building", 0, "building id (defaults to your assigned building)")
	cmd.Flags().Int64Var(&t.worker, "worker", 0, "worker id (defaults to you)")
	cmd.Flags().StringVar(&t.saveDir, "save", "", "directory to write downloaded documents to")
	return cmd
}

// keyedView is the surface shared by every building or worker keyed view.
type keyedView interface {
	Mount(ctx context.Context)
	Unmount()
	SetKey(id int64)
	ClearKey()
	Wait()
}

func load(ctx context.Context, v keyedView, key int64) {
	v.Mount(ctx)
	if key != 0 {
		v.SetKey(key)
	} else {
		v.ClearKey()
	}
	v.Wait()
}

func runBuildings(ctx context.Context, a *app, _ viewTargets, w io.Writer) error {
	v := views.NewBuildingsView(a.portal, a.log)
	v.Mount(ctx)
	defer v.Unmount()
	v.Wait()

	if printRender(w, "Buildings", v.RenderBuildings()) {
		rows := make([][]string, 0, len(v.Buildings()))
		for _, b := range v.Buildings() {
			rows = append(rows, []string{itoa(b.ID), b.Name, b.Address, b.City})
		}
		table(w, "ID\tNAME\tADDRESS\tCITY", rows)
	}
	fmt.Fprintln(w)
	if printRender(w, "Workers", v.RenderWorkers()) {
		rows := make([][]string, 0, len(v.Workers()))
		for _, wk := range v.Workers() {
			rows = append(rows, []string{itoa(wk.ID), wk.Name, wk.Position, wk.Email})
		}
		table(w, "ID\tNAME\tPOSITION\tEMAIL", rows)
	}
	return nil
}

func runIncidents(ctx context.Context, a *app, t viewTargets, w io.Writer) error {
	v := views.NewIncidentsView(a.portal, a.log)
	load(ctx, v, t.building)
	defer v.Unmount()

	if printRender(w, "Incidents", v.Render()) {
		rows := make([][]string, 0)
		for _, inc := range v.Items() {
			rows = append(rows, []string{itoa(inc.ID), string(inc.Status), optional(inc.RoomID), inc.Description})
		}
		table(w, "ID\tSTATUS\tROOM\tDESCRIPTION", rows)
	}
	return nil
}

func runImages(ctx context.Context, a *app, t viewTargets, w io.Writer) error {
	v := views.NewImagesView(a.portal, a.log)
	load(ctx, v, t.building)
	defer v.Unmount()

	if printRender(w, "Photos", v.Render()) {
		for _, g := range v.Groups() {
			fmt.Fprintf(w, "%s (%d)\n", g.Name, len(g.Images))
			for _, img := range g.Images {
				fmt.Fprintf(w, "  %s\n", img.URL)
			}
		}
	}
	return nil
}

func runLegal(ctx context.Context, a *app, t viewTargets, w io.Writer) error {
	v := views.NewLegalDocumentsView(a.portal, a.log)
	load(ctx, v, t.building)
	defer v.Unmount()
	if printRender(w, "Legal documents", v.Render()) {
		return printPDFs(w, v.Items(), t.saveDir)
	}
	return nil
}

func runManuals(ctx context.Context, a *app, t viewTargets, w io.Writer) error {
	v := views.NewManualsView(a.portal, a.log)
	load(ctx, v, t.building)
	defer v.Unmount()
	if printRender(w, "Manuals", v.Render()) {
		return printPDFs(w, v.Items(), t.saveDir)
	}
	return nil
}

func printPDFs(w io.Writer, docs []domain.PDF, dir string) error {
	for _, d := range docs {
		data, err := d.Decode()
		if err != nil {
			fmt.Fprintf(w, "  %s (unreadable: %v)\n", d.Filename, err)
			continue
		}
		fmt.Fprintf(w, "  %s (%d bytes)\n", d.Filename, len(data))
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, filepath.Base(d.Filename)), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func runInvoices(ctx context.Context, a *app, _ viewTargets, w io.Writer) error {
	v := views.NewInvoicesView(a.portal, a.log)
	v.Mount(ctx)
	defer v.Unmount()
	v.Wait()

	if printRender(w, "Invoices", v.Render()) {
		rows := make([][]string, 0)
		for _, inv := range v.Items() {
			rows = append(rows, []string{itoa(inv.ID), inv.Number, itoa(inv.BuildingID), strconv.FormatFloat(inv.Amount, 'f', 2, 64), inv.IssuedAt})
		}
		table(w, "ID\tNUMBER\tBUILDING\tAMOUNT\tISSUED", rows)
	}
	return nil
}

func runEvents(ctx context.Context, a *app, t viewTargets, w io.Writer) error {
	v := views.NewEventsView(a.portal, a.log)
	load(ctx, v, t.building)
	defer v.Unmount()

	if printRender(w, "Events", v.Render()) {
		rows := make([][]string, 0)
		for _, ev := range v.Items() {
			rows = append(rows, []string{itoa(ev.ID), ev.Date, ev.Time, ev.Title})
		}
		table(w, "ID\tDATE\tTIME\tTITLE", rows)
	}
	return nil
}

func runContacts(ctx context.Context, a *app, t viewTargets, w io.Writer) error {
	v := views.NewContactsView(a.portal, a.log)
	load(ctx, v, t.worker)
	defer v.Unmount()

	if printRender(w, "Assigned customers", v.Render()) {
		rows := make([][]string, 0)
		for _, c := range v.Items() {
			rows = append(rows, []string{itoa(c.ID), c.Name, c.Phone, c.Email, c.Apartment})
		}
		table(w, "ID\tNAME\tPHONE\tEMAIL\tAPARTMENT", rows)
	}
	return nil
}

func runProfile(ctx context.Context, a *app, t viewTargets, w io.Writer) error {
	v := views.NewWorkerProfileView(a.portal, a.log)
	load(ctx, v, t.worker)
	defer v.Unmount()

	if printRender(w, "Profile photo", v.Render()) {
		photo := v.Items()
		fmt.Fprintf(w, "  %s, %d bytes\n", photo.ContentType, len(photo.Data))
		if t.saveDir != "" {
			if err := os.MkdirAll(t.saveDir, 0o755); err != nil {
				return err
			}
			return os.WriteFile(filepath.Join(t.saveDir, "profile"), photo.Data, 0o644)
		}
	}
	return nil
}
