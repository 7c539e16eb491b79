package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/complaint"
	"github.com/trezcool/shms/core/feedback"
	"github.com/trezcool/shms/core/notice"
	"github.com/trezcool/shms/core/outpass"
	"github.com/trezcool/shms/core/room"
	"github.com/trezcool/shms/core/visitor"
)

// create POSTs `payload` to /api/<resource> and decodes the record under `field` into `out`.
// When offline, `mirror` saves the record locally instead and create reports true.
func (c *Client) create(ctx context.Context, resource, field string, payload, out interface{}, mirror func() error) (bool, error) {
	var res map[string]json.RawMessage
	err := c.do(ctx, http.MethodPost, "/api/"+resource, payload, &res)
	if err == nil {
		return false, errors.Wrapf(json.Unmarshal(res[field], out), "decoding %s", field)
	}
	if !offline(err) {
		return false, err
	}

	c.logger.Warn(fmt.Sprintf("saving %s locally: %v", field, err), err)
	if err := mirror(); err != nil {
		return true, errors.Wrapf(err, "mirroring %s", field)
	}
	return true, nil
}

// nextID returns the id following the largest of `n` local records.
func nextID(n int, idAt func(i int) int64) int64 {
	var max int64
	for i := 0; i < n; i++ {
		if id := idAt(i); id > max {
			max = id
		}
	}
	return max + 1
}

func localStudent(ref string) string {
	ref = core.CleanString(ref, true /* lower */)
	if core.IsEmailLike(ref) {
		return ref
	}
	return ""
}

// SubmitComplaint files a complaint. `local` reports whether it was only saved locally.
func (c *Client) SubmitComplaint(ctx context.Context, nc complaint.NewComplaint) (comp complaint.Complaint, local bool, err error) {
	local, err = c.create(ctx, ResourceComplaints, "complaint", nc, &comp, func() error {
		var comps []complaint.Complaint
		return c.store.update(listKey(ResourceComplaints), &comps, func() error {
			comp = complaint.Complaint{
				ID:        nextID(len(comps), func(i int) int64 { return comps[i].ID }),
				StudentID: nc.StudentID,
				Student:   localStudent(nc.Student),
				Category:  core.CleanString(nc.Category),
				Details:   core.CleanString(nc.Details),
				Status:    nc.Status,
				CreatedAt: time.Now().UTC(),
			}
			if comp.Status == "" {
				comp.Status = complaint.StatusPending
			}
			comps = append([]complaint.Complaint{comp}, comps...)
			return nil
		})
	})
	return comp, local, err
}

func (c *Client) RequestOutpass(ctx context.Context, no outpass.NewOutpass) (out outpass.Outpass, local bool, err error) {
	local, err = c.create(ctx, ResourceOutpasses, "outpass", no, &out, func() error {
		var outs []outpass.Outpass
		return c.store.update(listKey(ResourceOutpasses), &outs, func() error {
			out = outpass.Outpass{
				ID:        nextID(len(outs), func(i int) int64 { return outs[i].ID }),
				StudentID: no.StudentID,
				Student:   localStudent(no.Student),
				FromDate:  no.FromDate,
				ToDate:    no.ToDate,
				Reason:    core.CleanString(no.Reason),
				Status:    no.Status,
				CreatedAt: time.Now().UTC(),
			}
			if out.Status == "" {
				out.Status = outpass.StatusPending
			}
			outs = append([]outpass.Outpass{out}, outs...)
			return nil
		})
	})
	return out, local, err
}

func (c *Client) RegisterVisitor(ctx context.Context, nv visitor.NewVisitor) (v visitor.Visitor, local bool, err error) {
	local, err = c.create(ctx, ResourceVisitors, "visitor", nv, &v, func() error {
		var visitors []visitor.Visitor
		return c.store.update(listKey(ResourceVisitors), &visitors, func() error {
			v = visitor.Visitor{
				ID:         nextID(len(visitors), func(i int) int64 { return visitors[i].ID }),
				Name:       core.CleanString(nv.Name),
				VisitorFor: nv.VisitorFor,
				IDProof:    nv.IDProof,
				Phone:      nv.Phone,
				InTime:     time.Now().UTC(),
				OutTime:    nv.OutTime,
			}
			if nv.InTime != nil {
				v.InTime = nv.InTime.UTC()
			}
			visitors = append([]visitor.Visitor{v}, visitors...)
			return nil
		})
	})
	return v, local, err
}

func (c *Client) SubmitFeedback(ctx context.Context, nf feedback.NewFeedback) (fb feedback.Feedback, local bool, err error) {
	local, err = c.create(ctx, ResourceFeedbacks, "feedback", nf, &fb, func() error {
		var fbs []feedback.Feedback
		return c.store.update(listKey(ResourceFeedbacks), &fbs, func() error {
			fb = feedback.Feedback{
				ID:        nextID(len(fbs), func(i int) int64 { return fbs[i].ID }),
				StudentID: nf.StudentID,
				Student:   localStudent(nf.Student),
				Mess:      nf.Mess,
				Rating:    nf.Rating,
				Comments:  nf.Comments,
				CreatedAt: time.Now().UTC(),
			}
			fbs = append([]feedback.Feedback{fb}, fbs...)
			return nil
		})
	})
	return fb, local, err
}

func (c *Client) SaveRoom(ctx context.Context, nr room.NewRoom) (r room.Room, local bool, err error) {
	local, err = c.create(ctx, ResourceRooms, "room", nr, &r, func() error {
		var rooms []room.Room
		return c.store.update(listKey(ResourceRooms), &rooms, func() error {
			r = room.Room{
				ID:       nextID(len(rooms), func(i int) int64 { return rooms[i].ID }),
				Number:   core.CleanString(nr.Number),
				Capacity: 1,
			}
			if nr.Capacity != nil {
				r.Capacity = *nr.Capacity
			}
			if nr.Occupancy != nil {
				r.Occupancy = *nr.Occupancy
			}
			rooms = append([]room.Room{r}, rooms...)
			return nil
		})
	})
	return r, local, err
}

func (c *Client) PublishNotice(ctx context.Context, nn notice.NewNotice) (n notice.Notice, local bool, err error) {
	local, err = c.create(ctx, ResourceNotices, "notice", nn, &n, func() error {
		var notices []notice.Notice
		return c.store.update(listKey(ResourceNotices), &notices, func() error {
			n = notice.Notice{
				ID:       nextID(len(notices), func(i int) int64 { return notices[i].ID }),
				Title:    core.CleanString(nn.Title),
				Category: nn.Category,
				Date:     nn.Date,
				Content:  nn.Content,
				Archived: nn.Archived,
			}
			if n.Category == "" {
				n.Category = notice.DefaultCategory
			}
			if n.Date == "" {
				n.Date = time.Now().Format(core.DateLayout)
			}
			notices = append([]notice.Notice{n}, notices...)
			return nil
		})
	})
	return n, local, err
}
