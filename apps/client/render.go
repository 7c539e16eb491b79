package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/trezcool/shms/client"
	"github.com/trezcool/shms/core"
)

func idOrEmail(id *int64, email string) string {
	if email != "" {
		return email
	}
	if id != nil {
		return fmt.Sprint(*id)
	}
	return "-"
}

func renderDashboard(out io.Writer, d client.Dashboard) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "== %s dashboard", d.Section)
	if d.Local {
		fmt.Fprint(w, " (local data)")
	}
	fmt.Fprint(w, "\n\n")

	if s := d.Stats; s != nil {
		fmt.Fprintln(w, "Students\tComplaints\tPending\tResolved\tOutpasses\tPending outpasses\tFeedbacks")
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%d\t%d\n\n",
			s.TotalStudents, s.TotalComplaints, s.PendingComplaints, s.ResolvedComplaints,
			s.TotalOutpasses, s.PendingOutpasses, s.TotalFeedbacks)
	}
	if len(d.Students) > 0 {
		fmt.Fprintln(w, "ID\tName\tRoom\tEmail\tPhone")
		for _, s := range d.Students {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Room, s.Email, s.Phone)
		}
		fmt.Fprintln(w)
	}
	if len(d.Complaints) > 0 {
		fmt.Fprintln(w, "ID\tStudent\tCategory\tDetails\tStatus")
		for _, c := range d.Complaints {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, idOrEmail(c.StudentID, c.Student), c.Category, c.Details, c.Status)
		}
		fmt.Fprintln(w)
	}
	if d.Section == client.SectionWarden || d.Section == client.SectionSecurity {
		fmt.Fprintln(w, "ID\tStudent\tFrom\tTo\tReason\tStatus")
		for _, o := range d.Outpasses {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", o.ID, idOrEmail(o.StudentID, o.Student), o.FromDate, o.ToDate, o.Reason, o.Status)
		}
		fmt.Fprintln(w)
	}
	if d.Section == client.SectionStudent {
		fmt.Fprintln(w, "Date\tCategory\tTitle\tContent")
		for _, n := range d.Notices {
			if n.Archived {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.Date, n.Category, n.Title, core.CleanString(n.Content))
		}
	}
	return w.Flush()
}
