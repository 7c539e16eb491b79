package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/room"
)

const roomCols = "id, number, capacity, occupancy"

type roomRepository struct {
	exec core.DBExecutor
}

var _ room.Repository = (*roomRepository)(nil) // interface compliance check

func NewRoomRepository(exec core.DBExecutor) *roomRepository {
	return &roomRepository{exec: exec}
}

func (repo *roomRepository) CreateRoom(ctx context.Context, r room.Room) (room.Room, error) {
	q, args, err := psql.Insert("rooms").
		Columns("number", "capacity", "occupancy").
		Values(r.Number, r.Capacity, r.Occupancy).
		Suffix("RETURNING " + roomCols).
		ToSql()
	if err != nil {
		return room.Room{}, errors.Wrap(err, "building room insert")
	}
	var created room.Room
	if err = sqlx.GetContext(ctx, repo.exec, &created, q, args...); err != nil {
		return room.Room{}, errors.Wrap(err, "inserting room")
	}
	return created, nil
}

func (repo *roomRepository) QueryAllRooms(ctx context.Context) ([]room.Room, error) {
	q, args, err := psql.Select(roomCols).From("rooms").OrderBy("id DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building rooms query")
	}
	rooms := make([]room.Room, 0)
	if err = sqlx.SelectContext(ctx, repo.exec, &rooms, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting rooms")
	}
	return rooms, nil
}
