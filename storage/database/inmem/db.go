package inmemdb

import (
	"context"
	"sync"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/assignment"
	"github.com/guicardoso0404/sigeas/core/attendance"
	"github.com/guicardoso0404/sigeas/core/classroom"
	"github.com/guicardoso0404/sigeas/core/enrollment"
	"github.com/guicardoso0404/sigeas/core/grade"
	"github.com/guicardoso0404/sigeas/core/user"
)

type (
	// DB is a process-local store used by tests and local runs without MySQL.
	// All tables share one lock so cascades see a consistent state.
	DB struct {
		sync.RWMutex
		txMu sync.Mutex

		seq         map[string]int
		users       map[int]*user.User
		classes     map[int]*classroom.ClassRoom
		enrollments map[int]*enrollment.Enrollment
		grades      map[int]*grade.Grade
		attendance  map[int]*attendance.Record
		assignments map[int]*assignment.Assignment
	}
)

var _ core.TxRunner = (*DB)(nil) // interface compliance check

func Open() *DB {
	return &DB{
		seq:         make(map[string]int),
		users:       make(map[int]*user.User),
		classes:     make(map[int]*classroom.ClassRoom),
		enrollments: make(map[int]*enrollment.Enrollment),
		grades:      make(map[int]*grade.Grade),
		attendance:  make(map[int]*attendance.Record),
		assignments: make(map[int]*assignment.Assignment),
	}
}

// nextID must be called with the write lock held.
func (db *DB) nextID(table string) int {
	db.seq[table]++
	return db.seq[table]
}

// RunInTx serialises units of work; fn receives a nil executor.
// Writes made before fn fails are not undone.
func (db *DB) RunInTx(_ context.Context, fn func(exec core.DBExecutor) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()
	return fn(nil)
}

// Reset empties every table; ids keep growing.
func (db *DB) Reset() {
	db.Lock()
	defer db.Unlock()
	db.users = make(map[int]*user.User)
	db.classes = make(map[int]*classroom.ClassRoom)
	db.enrollments = make(map[int]*enrollment.Enrollment)
	db.grades = make(map[int]*grade.Grade)
	db.attendance = make(map[int]*attendance.Record)
	db.assignments = make(map[int]*assignment.Assignment)
}
