package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shms/client"
	"github.com/trezcool/shms/core/complaint"
	"github.com/trezcool/shms/core/notice"
	"github.com/trezcool/shms/core/outpass"
	"github.com/trezcool/shms/core/report"
)

func Test_renderDashboard(t *testing.T) {
	sid := int64(7)
	tests := []struct {
		name     string
		d        client.Dashboard
		want     []string
		wantNone []string
	}{
		{
			name: "admin",
			d: client.Dashboard{
				Section:    client.SectionAdmin,
				Stats:      &report.Stats{TotalStudents: 3, TotalComplaints: 2},
				Complaints: []complaint.Complaint{{ID: 1, StudentID: &sid, Category: "water", Status: "pending"}},
			},
			want: []string{"== admin dashboard\n", "Students", "water", "7"},
		},
		{
			name: "warden offline",
			d: client.Dashboard{
				Section:   client.SectionWarden,
				Local:     true,
				Outpasses: []outpass.Outpass{{ID: 4, Student: "ravi@uni.edu", Reason: "home", Status: "pending"}},
			},
			want: []string{"(local data)", "ravi@uni.edu", "home"},
		},
		{
			name: "student",
			d: client.Dashboard{
				Section: client.SectionStudent,
				Notices: []notice.Notice{
					{Title: "Welcome", Category: "General", Date: "2026-10-14"},
					{Title: "Old news", Archived: true},
				},
			},
			want:     []string{"Welcome", "2026-10-14"},
			wantNone: []string{"Old news", "Students"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, renderDashboard(&buf, tt.d))
			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.wantNone {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func Test_commands_saved(t *testing.T) {
	var buf bytes.Buffer
	cmd := commands{out: &buf}

	require.NoError(t, cmd.saved("complaint", 3, true, nil))
	assert.Equal(t, "complaint #3 saved locally, the server was unavailable\n", buf.String())

	buf.Reset()
	require.NoError(t, cmd.moved("outpass", 2, "checked out", false, nil))
	assert.Equal(t, "outpass #2 is now \"checked out\" (saved)\n", buf.String())

	assert.Error(t, cmd.saved("room", 0, false, assert.AnError))
}
