package inmemdb

import (
	"sync"

	"github.com/trezcool/shms/core/complaint"
	"github.com/trezcool/shms/core/feedback"
	"github.com/trezcool/shms/core/notice"
	"github.com/trezcool/shms/core/outpass"
	"github.com/trezcool/shms/core/room"
	"github.com/trezcool/shms/core/student"
	"github.com/trezcool/shms/core/user"
	"github.com/trezcool/shms/core/visitor"
)

// DB is a process-local, non-durable store. Every table is guarded by its own mutex.
type DB struct {
	user      *userTable
	student   *studentTable
	complaint *complaintTable
	outpass   *outpassTable
	visitor   *visitorTable
	room      *roomTable
	notice    *noticeTable
	feedback  *feedbackTable
}

type (
	userTable struct {
		mutex sync.RWMutex
		pk    int64
		table map[int64]*user.User
	}
	studentTable struct {
		mutex sync.RWMutex
		pk    int64
		table map[int64]*student.Student
	}
	complaintTable struct {
		mutex sync.RWMutex
		pk    int64
		table map[int64]*complaint.Complaint
	}
	outpassTable struct {
		mutex sync.RWMutex
		pk    int64
		table map[int64]*outpass.Outpass
	}
	visitorTable struct {
		mutex sync.RWMutex
		pk    int64
		table map[int64]*visitor.Visitor
	}
	roomTable struct {
		mutex sync.RWMutex
		pk    int64
		table map[int64]*room.Room
	}
	noticeTable struct {
		mutex sync.RWMutex
		pk    int64
		table map[int64]*notice.Notice
	}
	feedbackTable struct {
		mutex sync.RWMutex
		pk    int64
		table map[int64]*feedback.Feedback
	}
)

func NewDB() *DB {
	return &DB{
		user:      &userTable{table: make(map[int64]*user.User)},
		student:   &studentTable{table: make(map[int64]*student.Student)},
		complaint: &complaintTable{table: make(map[int64]*complaint.Complaint)},
		outpass:   &outpassTable{table: make(map[int64]*outpass.Outpass)},
		visitor:   &visitorTable{table: make(map[int64]*visitor.Visitor)},
		room:      &roomTable{table: make(map[int64]*room.Room)},
		notice:    &noticeTable{table: make(map[int64]*notice.Notice)},
		feedback:  &feedbackTable{table: make(map[int64]*feedback.Feedback)},
	}
}

// emailOf returns the email of the student with `id`, if any.
// Callers must not hold the student table lock.
func (t *studentTable) emailOf(id *int64) string {
	if id == nil {
		return ""
	}
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	if s, ok := t.table[*id]; ok {
		return s.Email
	}
	return ""
}
