package report

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/shms/core/complaint"
	"github.com/trezcool/shms/core/feedback"
	"github.com/trezcool/shms/core/outpass"
	"github.com/trezcool/shms/core/student"
)

var csvHeader = []string{"Type", "ID", "Name", "Detail", "Status"}

type Stats struct {
	TotalStudents      int `json:"totalStudents"`
	TotalComplaints    int `json:"totalComplaints"`
	PendingComplaints  int `json:"pendingComplaints"`
	ResolvedComplaints int `json:"resolvedComplaints"`
	TotalOutpasses     int `json:"totalOutpasses"`
	PendingOutpasses   int `json:"pendingOutpasses"`
	TotalFeedbacks     int `json:"totalFeedbacks"`
}

// ComputeStats aggregates the counters shown on the admin dashboard.
func ComputeStats(studs []student.Student, comps []complaint.Complaint, outs []outpass.Outpass, fbs []feedback.Feedback) Stats {
	stats := Stats{
		TotalStudents:   len(studs),
		TotalComplaints: len(comps),
		TotalOutpasses:  len(outs),
		TotalFeedbacks:  len(fbs),
	}
	for _, c := range comps {
		switch {
		case c.IsPending():
			stats.PendingComplaints++
		case c.IsResolved():
			stats.ResolvedComplaints++
		}
	}
	for _, o := range outs {
		if o.Status == outpass.StatusPending {
			stats.PendingOutpasses++
		}
	}
	return stats
}

// WriteCSV writes one row per student followed by one row per complaint.
func WriteCSV(w io.Writer, studs []student.Student, comps []complaint.Complaint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range studs {
		if err := cw.Write([]string{"Student", strconv.FormatInt(s.ID, 10), s.Name, s.Room, ""}); err != nil {
			return err
		}
	}
	for _, c := range comps {
		name := c.Student
		if c.StudentID != nil {
			name = strconv.FormatInt(*c.StudentID, 10)
		}
		detail := c.Category
		if detail == "" {
			detail = c.Details
		}
		if err := cw.Write([]string{"Complaint", strconv.FormatInt(c.ID, 10), name, detail, c.Status}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type Service struct {
	students   *student.Service
	complaints *complaint.Service
	outpasses  *outpass.Service
	feedbacks  *feedback.Service
}

func NewService(
	students *student.Service,
	complaints *complaint.Service,
	outpasses *outpass.Service,
	feedbacks *feedback.Service,
) *Service {
	return &Service{
		students:   students,
		complaints: complaints,
		outpasses:  outpasses,
		feedbacks:  feedbacks,
	}
}

// Stats is recomputed from the stores on every call.
func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	studs, err := svc.students.QueryAll(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying students")
	}
	comps, err := svc.complaints.QueryAll(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying complaints")
	}
	outs, err := svc.outpasses.QueryAll(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying outpasses")
	}
	fbs, err := svc.feedbacks.QueryAll(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying feedbacks")
	}
	return ComputeStats(studs, comps, outs, fbs), nil
}

func (svc *Service) WriteCSV(ctx context.Context, w io.Writer) error {
	studs, err := svc.students.QueryAll(ctx)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	comps, err := svc.complaints.QueryAll(ctx)
	if err != nil {
		return errors.Wrap(err, "querying complaints")
	}
	return WriteCSV(w, studs, comps)
}
