package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/complaint"
	"github.com/trezcool/shms/core/outpass"
	"github.com/trezcool/shms/core/report"
	"github.com/trezcool/shms/core/student"
)

// ResolveComplaint marks complaint `id` resolved, locally when offline.
func (c *Client) ResolveComplaint(ctx context.Context, id int64) (complaint.Complaint, bool, error) {
	var res struct {
		Complaint complaint.Complaint `json:"complaint"`
	}
	path := "/api/complaints/" + strconv.FormatInt(id, 10)
	err := c.do(ctx, http.MethodPut, path, map[string]string{"status": complaint.StatusResolved}, &res)
	if !offline(err) {
		return res.Complaint, false, err
	}
	c.logger.Warn(fmt.Sprintf("resolving complaint %d locally: %v", id, err), err)

	var comp complaint.Complaint
	var comps []complaint.Complaint
	err = c.store.update(listKey(ResourceComplaints), &comps, func() error {
		for i := range comps {
			if comps[i].ID == id {
				comps[i].Status = complaint.StatusResolved
				comp = comps[i]
				return nil
			}
		}
		return complaint.ErrNotFound
	})
	return comp, true, err
}

func (c *Client) setOutpassStatus(ctx context.Context, id int64, status string) (outpass.Outpass, bool, error) {
	var res struct {
		Outpass outpass.Outpass `json:"outpass"`
	}
	path := "/api/outpasses/" + strconv.FormatInt(id, 10)
	err := c.do(ctx, http.MethodPut, path, map[string]string{"status": status}, &res)
	if !offline(err) {
		return res.Outpass, false, err
	}
	c.logger.Warn(fmt.Sprintf("setting outpass %d %q locally: %v", id, status, err), err)

	var out outpass.Outpass
	var outs []outpass.Outpass
	err = c.store.update(listKey(ResourceOutpasses), &outs, func() error {
		for i := range outs {
			if outs[i].ID == id {
				outs[i].Status = status
				out = outs[i]
				return nil
			}
		}
		return outpass.ErrNotFound
	})
	return out, true, err
}

// DecideOutpass approves or rejects outpass `id`.
func (c *Client) DecideOutpass(ctx context.Context, id int64, approve bool) (outpass.Outpass, bool, error) {
	status := outpass.StatusRejected
	if approve {
		status = outpass.StatusApproved
	}
	return c.setOutpassStatus(ctx, id, status)
}

// findOutpass matches `query` against the outpass id, the student email or the student id.
// Outpasses in the `preferred` status win over other matches.
func findOutpass(outs []outpass.Outpass, query, preferred string) (outpass.Outpass, bool) {
	query = core.CleanString(query, true /* lower */)
	var (
		match outpass.Outpass
		found bool
	)
	for _, o := range outs {
		ok := strconv.FormatInt(o.ID, 10) == query ||
			(o.Student != "" && o.Student == query) ||
			(o.StudentID != nil && strconv.FormatInt(*o.StudentID, 10) == query)
		if !ok {
			continue
		}
		if o.Status == preferred {
			return o, true
		}
		if !found {
			match, found = o, true
		}
	}
	return match, found
}

func (c *Client) moveOutpass(ctx context.Context, query, from, to string) (outpass.Outpass, bool, error) {
	var outs []outpass.Outpass
	listLocal, err := c.list(ctx, ResourceOutpasses, &outs)
	if err != nil {
		return outpass.Outpass{}, listLocal, err
	}
	o, ok := findOutpass(outs, query, from)
	if !ok {
		return outpass.Outpass{}, listLocal, outpass.ErrNotFound
	}
	o, local, err := c.setOutpassStatus(ctx, o.ID, to)
	return o, listLocal || local, err
}

// VerifyOutpass finds the outpass matching `query` at the gate and marks it checked out.
func (c *Client) VerifyOutpass(ctx context.Context, query string) (outpass.Outpass, bool, error) {
	return c.moveOutpass(ctx, query, outpass.StatusApproved, outpass.StatusCheckedOut)
}

// MarkReturned finds the outpass matching `query` and marks it returned.
func (c *Client) MarkReturned(ctx context.Context, query string) (outpass.Outpass, bool, error) {
	return c.moveOutpass(ctx, query, outpass.StatusCheckedOut, outpass.StatusReturned)
}

// GenerateReport writes the CSV report to `w`; offline, it is built from the local lists.
func (c *Client) GenerateReport(ctx context.Context, w io.Writer) (bool, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/reports", nil)
	if err == nil {
		defer resp.Body.Close()
		_, err = io.Copy(w, resp.Body)
		return false, errors.Wrap(err, "copying report")
	}
	if !offline(err) {
		return false, err
	}
	c.logger.Warn(fmt.Sprintf("building report from local data: %v", err), err)

	var studs []student.Student
	var comps []complaint.Complaint
	if _, err := c.store.Get(listKey(ResourceStudents), &studs); err != nil {
		return true, err
	}
	if _, err := c.store.Get(listKey(ResourceComplaints), &comps); err != nil {
		return true, err
	}
	return true, report.WriteCSV(w, studs, comps)
}
