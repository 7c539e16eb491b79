package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shms/core/room"
)

type roomRepository struct {
	db *roomTable
}

var _ room.Repository = (*roomRepository)(nil) // interface compliance check

func NewRoomRepository(db *DB) *roomRepository {
	return &roomRepository{db: db.room}
}

func (repo *roomRepository) CreateRoom(_ context.Context, r room.Room) (room.Room, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pk++
	r.ID = repo.db.pk
	repo.db.table[r.ID] = &r
	return r, nil
}

func (repo *roomRepository) QueryAllRooms(context.Context) ([]room.Room, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rooms := make([]room.Room, 0, len(repo.db.table))
	for _, r := range repo.db.table {
		rooms = append(rooms, *r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID > rooms[j].ID })
	return rooms, nil
}
