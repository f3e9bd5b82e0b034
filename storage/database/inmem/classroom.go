package inmemdb

import (
	"context"
	"sort"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/classroom"
	"github.com/guicardoso0404/sigeas/core/user"
)

type classRoomRepository struct {
	db *DB
}

var _ classroom.Repository = (*classRoomRepository)(nil) // interface compliance check

func NewClassRoomRepository(db *DB) classroom.Repository {
	return &classRoomRepository{db: db}
}

func (repo *classRoomRepository) CreateClassRoom(_ context.Context, class classroom.ClassRoom, _ ...core.DBExecutor) (classroom.ClassRoom, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	class.ID = repo.db.nextID("classes")
	repo.db.classes[class.ID] = &class
	return class, nil
}

func (repo *classRoomRepository) QueryClassRooms(_ context.Context, filter *classroom.QueryFilter, _ ...core.DBExecutor) ([]classroom.ClassRoom, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]classroom.ClassRoom, 0, len(repo.db.classes))
	for _, c := range repo.db.classes {
		if filter != nil {
			if filter.TeacherID > 0 && c.TeacherID != filter.TeacherID {
				continue
			}
			if filter.Subject != "" && c.Subject != filter.Subject {
				continue
			}
		}
		classes = append(classes, *c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	return classes, nil
}

func (repo *classRoomRepository) GetClassRoom(_ context.Context, id int, _ ...core.DBExecutor) (classroom.ClassRoom, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.classes[id]; ok {
		return *c, nil
	}
	return classroom.ClassRoom{}, classroom.ErrNotFound
}

func (repo *classRoomRepository) UpdateClassRoom(_ context.Context, class classroom.ClassRoom, _ ...core.DBExecutor) (classroom.ClassRoom, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.classes[class.ID]; !ok {
		return classroom.ClassRoom{}, classroom.ErrNotFound
	}
	repo.db.classes[class.ID] = &class
	return class, nil
}

func (repo *classRoomRepository) DeleteClassRoom(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.classes[id]; !ok {
		return classroom.ErrNotFound
	}
	for k, e := range repo.db.enrollments {
		if e.ClassID == id {
			delete(repo.db.enrollments, k)
		}
	}
	for k, g := range repo.db.grades {
		if g.ClassID == id {
			delete(repo.db.grades, k)
		}
	}
	for k, r := range repo.db.attendance {
		if r.ClassID == id {
			delete(repo.db.attendance, k)
		}
	}
	for k, a := range repo.db.assignments {
		if a.ClassID == id {
			delete(repo.db.assignments, k)
		}
	}
	delete(repo.db.classes, id)
	return nil
}

func (repo *classRoomRepository) QueryStudents(_ context.Context, classID int, _ ...core.DBExecutor) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := make([]user.User, 0)
	for _, e := range repo.db.enrollments {
		if e.ClassID != classID {
			continue
		}
		if u, ok := repo.db.users[e.StudentID]; ok {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}
