package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/obraportal/portal-client/internal/core/domain"
	"github.com/obraportal/portal-client/internal/ui/fetch"
)

func printClaims(w io.Writer, c domain.Claims) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintf(tw, "id\t%d\n", c.SubjectID)
	fmt.Fprintf(tw, "type\t%s\n", c.Kind)
	if c.IsWorker() {
		fmt.Fprintf(tw, "role\t%d\n", c.RoleID)
	}
	if c.HasBuilding() {
		fmt.Fprintf(tw, "building\t%d\n", *c.BuildingID)
	}
	_ = tw.Flush()
}

// printRender writes the non-populated states and reports whether the
// caller should print data.
func printRender(w io.Writer, title string, r fetch.Render) bool {
	switch r.Kind {
	case fetch.RenderWaiting:
		fmt.Fprintf(w, "%s: %s\n", title, r.Message)
	case fetch.RenderLoading:
		fmt.Fprintf(w, "%s: loading…\n", title)
	case fetch.RenderError:
		fmt.Fprintf(w, "%s: error: %s\n", title, r.Message)
	case fetch.RenderEmpty:
		fmt.Fprintf(w, "%s: %s\n", title, r.Message)
	default:
		fmt.Fprintf(w, "%s\n", title)
		return true
	}
	return false
}

// table prints rows under a header with aligned columns.
func table(w io.Writer, header string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, r := range rows {
		for i, col := range r {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, col)
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func optional(v *int64) string {
	if v == nil {
		return "-"
	}
	return itoa(*v)
}
