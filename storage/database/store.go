package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/complaint"
	"github.com/trezcool/shms/core/feedback"
	"github.com/trezcool/shms/core/notice"
	"github.com/trezcool/shms/core/outpass"
	"github.com/trezcool/shms/core/room"
	"github.com/trezcool/shms/core/student"
	"github.com/trezcool/shms/core/user"
	"github.com/trezcool/shms/core/visitor"
	inmemdb "github.com/trezcool/shms/storage/database/inmem"
	sqlxrepos "github.com/trezcool/shms/storage/database/sqlx"
)

// Store holds the repositories of one storage backend, chosen once at startup.
type Store struct {
	Mode string // core.StoragePostgres or core.StorageMemory
	DB   *sqlx.DB

	Users      user.Repository
	Students   student.Repository
	Complaints complaint.Repository
	Outpasses  outpass.Repository
	Visitors   visitor.Repository
	Rooms      room.Repository
	Notices    notice.Repository
	Feedbacks  feedback.Repository
}

// Ready reports whether the relational store is in use.
func (s *Store) Ready() bool {
	return s.Mode == core.StoragePostgres
}

func (s *Store) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func NewSQLStore(db *sqlx.DB) *Store {
	return &Store{
		Mode:       core.StoragePostgres,
		DB:         db,
		Users:      sqlxrepos.NewUserRepository(db),
		Students:   sqlxrepos.NewStudentRepository(db),
		Complaints: sqlxrepos.NewComplaintRepository(db),
		Outpasses:  sqlxrepos.NewOutpassRepository(db),
		Visitors:   sqlxrepos.NewVisitorRepository(db),
		Rooms:      sqlxrepos.NewRoomRepository(db),
		Notices:    sqlxrepos.NewNoticeRepository(db),
		Feedbacks:  sqlxrepos.NewFeedbackRepository(db),
	}
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *Store {
	db := inmemdb.NewDB()
	return &Store{
		Mode:       core.StorageMemory,
		Users:      inmemdb.NewUserRepository(db),
		Students:   inmemdb.NewStudentRepository(db),
		Complaints: inmemdb.NewComplaintRepository(db),
		Outpasses:  inmemdb.NewOutpassRepository(db),
		Visitors:   inmemdb.NewVisitorRepository(db),
		Rooms:      inmemdb.NewRoomRepository(db),
		Notices:    inmemdb.NewNoticeRepository(db),
		Feedbacks:  inmemdb.NewFeedbackRepository(db),
	}
}

// Seed inserts the demo data served when the database is unavailable.
func (s *Store) Seed(ctx context.Context) error {
	_, err := s.Notices.CreateNotice(ctx, notice.Notice{
		Title:    "Welcome",
		Category: notice.DefaultCategory,
		Date:     time.Now().Format(core.DateLayout),
		Content:  "Welcome to hostel",
	})
	if err != nil {
		return errors.Wrap(err, "seeding notice")
	}
	_, err = s.Students.EnsureStudentByEmail(ctx, student.Student{Name: "Ravi Kumar", Room: "101", Email: "ravi@uni.edu"})
	return errors.Wrap(err, "seeding student")
}

func setUpDB(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	if conf.Database.AdminUser != "" {
		if err := CreateIfNotExist(ctx, conf); err != nil {
			return nil, errors.Wrap(err, "creating database")
		}
	}

	db, err := Open(conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = Ping(ctx, db, conf.Database.PingAttempts); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = Migrate(db.DB, "up"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenStore connects to Postgres and migrates it. When the database is disabled or
// cannot be set up, the cause is logged and a seeded in-memory store is returned instead.
func OpenStore(ctx context.Context, conf *core.Config, logger core.Logger) (*Store, error) {
	if conf.Database.Enabled {
		db, err := setUpDB(ctx, conf)
		if err == nil {
			return NewSQLStore(db), nil
		}
		logger.Warn(fmt.Sprintf("database unavailable, falling back to in-memory storage: %v", err), err)
	} else {
		logger.Info("database disabled, using in-memory storage")
	}

	store := NewMemoryStore()
	if err := store.Seed(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
