package client

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/trezcool/shms/core/complaint"
	"github.com/trezcool/shms/core/feedback"
	"github.com/trezcool/shms/core/notice"
	"github.com/trezcool/shms/core/outpass"
	"github.com/trezcool/shms/core/report"
	"github.com/trezcool/shms/core/student"
	"github.com/trezcool/shms/core/user"
)

// Sections
const (
	SectionAdmin    = "admin"
	SectionStudent  = "student"
	SectionWarden   = "warden"
	SectionSecurity = "security"
)

// Section maps a role to its dashboard. Unknown roles get the student dashboard.
func Section(role string) string {
	switch user.NormalizeRole(role) {
	case user.RoleAdmin:
		return SectionAdmin
	case user.RoleStaff:
		return SectionWarden
	case user.RoleSecurity:
		return SectionSecurity
	default:
		return SectionStudent
	}
}

type Dashboard struct {
	Section string
	// Local is set when any part of the dashboard came from local data.
	Local bool

	Stats      *report.Stats
	Students   []student.Student
	Complaints []complaint.Complaint
	Outpasses  []outpass.Outpass
	Notices    []notice.Notice
}

// list GETs /api/<resource> into `out`, or reads the local list when offline.
func (c *Client) list(ctx context.Context, resource string, out interface{}) (bool, error) {
	err := c.do(ctx, http.MethodGet, "/api/"+resource, nil, out)
	if !offline(err) {
		return false, err
	}
	c.logger.Warn("listing " + resource + " from local data: " + err.Error())
	if _, err := c.store.Get(listKey(resource), out); err != nil {
		return true, err
	}
	return true, nil
}

func (c *Client) stats(ctx context.Context) (report.Stats, bool, error) {
	var res struct {
		Stats report.Stats `json:"stats"`
	}
	err := c.do(ctx, http.MethodGet, "/api/stats", nil, &res)
	if !offline(err) {
		return res.Stats, false, err
	}

	var (
		studs []student.Student
		comps []complaint.Complaint
		outs  []outpass.Outpass
		fbs   []feedback.Feedback
	)
	for key, v := range map[string]interface{}{
		ResourceStudents:   &studs,
		ResourceComplaints: &comps,
		ResourceOutpasses:  &outs,
		ResourceFeedbacks:  &fbs,
	} {
		if _, err := c.store.Get(listKey(key), v); err != nil {
			return report.Stats{}, true, err
		}
	}
	return report.ComputeStats(studs, comps, outs, fbs), true, nil
}

func filterOutpasses(outs []outpass.Outpass, statuses ...string) []outpass.Outpass {
	filtered := make([]outpass.Outpass, 0, len(outs))
	for _, o := range outs {
		for _, s := range statuses {
			if o.Status == s {
				filtered = append(filtered, o)
				break
			}
		}
	}
	return filtered
}

// LoadSection fetches what the dashboard of `role` shows: stats, students and complaints for admins,
// the pending outpass queue for wardens, the outpasses awaiting the gate for security
// and the notice board for students.
func (c *Client) LoadSection(ctx context.Context, role string) (Dashboard, error) {
	d := Dashboard{Section: Section(role)}
	g, ctx := errgroup.WithContext(ctx)
	locals := make([]bool, 3)

	switch d.Section {
	case SectionAdmin:
		g.Go(func() (err error) {
			var stats report.Stats
			stats, locals[0], err = c.stats(ctx)
			d.Stats = &stats
			return err
		})
		g.Go(func() (err error) {
			locals[1], err = c.list(ctx, ResourceStudents, &d.Students)
			return err
		})
		g.Go(func() (err error) {
			locals[2], err = c.list(ctx, ResourceComplaints, &d.Complaints)
			return err
		})

	case SectionWarden, SectionSecurity:
		g.Go(func() (err error) {
			locals[0], err = c.list(ctx, ResourceOutpasses, &d.Outpasses)
			return err
		})

	default:
		g.Go(func() (err error) {
			locals[0], err = c.list(ctx, ResourceNotices, &d.Notices)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	for _, local := range locals {
		d.Local = d.Local || local
	}

	switch d.Section {
	case SectionWarden:
		d.Outpasses = filterOutpasses(d.Outpasses, outpass.StatusPending)
	case SectionSecurity:
		d.Outpasses = filterOutpasses(d.Outpasses, outpass.StatusApproved, outpass.StatusCheckedOut)
	}
	return d, nil
}
