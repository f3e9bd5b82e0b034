package inmemdb

import (
	"context"
	"sort"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/attendance"
)

var errDuplicateAttendance = core.NewConflictError("attendance already recorded for this student on this date")

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) DeleteRoll(_ context.Context, classID int, date core.Date, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, r := range repo.db.attendance {
		if r.ClassID == classID && r.Date.Equal(date) {
			delete(repo.db.attendance, id)
		}
	}
	return nil
}

func (repo *attendanceRepository) InsertRecords(_ context.Context, recs []attendance.Record, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, rec := range recs {
		for _, r := range repo.db.attendance {
			if r.StudentID == rec.StudentID && r.ClassID == rec.ClassID && r.Date.Equal(rec.Date) {
				return 0, errDuplicateAttendance
			}
		}
		for _, other := range recs[:i] {
			if other.StudentID == rec.StudentID && other.ClassID == rec.ClassID && other.Date.Equal(rec.Date) {
				return 0, errDuplicateAttendance
			}
		}
	}
	for _, rec := range recs {
		rec := rec
		rec.ID = repo.db.nextID("attendance")
		repo.db.attendance[rec.ID] = &rec
	}
	return len(recs), nil
}

func (repo *attendanceRepository) QueryRecords(_ context.Context, filter *attendance.QueryFilter, _ ...core.DBExecutor) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]attendance.Record, 0)
	for _, r := range repo.db.attendance {
		if filter != nil {
			if filter.ClassID > 0 && r.ClassID != filter.ClassID {
				continue
			}
			if filter.StudentID > 0 && r.StudentID != filter.StudentID {
				continue
			}
			if !filter.Date.IsZero() && !r.Date.Equal(filter.Date) {
				continue
			}
		}
		recs = append(recs, *r)
	}
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].Date.Equal(recs[j].Date) {
			return recs[i].Date.Before(recs[j].Date.Time)
		}
		return recs[i].StudentID < recs[j].StudentID
	})
	return recs, nil
}

func (repo *attendanceRepository) GetRecord(_ context.Context, id int, _ ...core.DBExecutor) (attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.attendance[id]; ok {
		return *r, nil
	}
	return attendance.Record{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) UpdateRecord(_ context.Context, rec attendance.Record, _ ...core.DBExecutor) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.attendance[rec.ID]
	if !ok {
		return attendance.Record{}, attendance.ErrNotFound
	}
	orig.Status = rec.Status
	return *orig, nil
}

func (repo *attendanceRepository) DeleteRecord(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.attendance[id]; !ok {
		return attendance.ErrNotFound
	}
	delete(repo.db.attendance, id)
	return nil
}
