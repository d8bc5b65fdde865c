// Package memory is an in-process store with the same contract as the
// PostgreSQL repositories. It backs the handler tests and local runs with
// storage.backend set to "memory".
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"freelancedesk/internal/model"
)

// DB holds every table behind one lock, so a dependency check and the delete
// that follows it are atomic.
type DB struct {
	mu  sync.RWMutex
	now func() time.Time

	clients  map[int64]model.Client
	projects map[int64]model.Project
	tasks    map[int64]model.Task
	payments map[int64]model.Payment
	users    map[int64]model.User

	lastClientID  int64
	lastProjectID int64
	lastTaskID    int64
	lastPaymentID int64
	lastUserID    int64
}

func New() *DB {
	return NewWithClock(time.Now)
}

// NewWithClock lets tests pin "now".
func NewWithClock(now func() time.Time) *DB {
	return &DB{
		now:      now,
		clients:  make(map[int64]model.Client),
		projects: make(map[int64]model.Project),
		tasks:    make(map[int64]model.Task),
		payments: make(map[int64]model.Payment),
		users:    make(map[int64]model.User),
	}
}

// Ping always succeeds; it lets the readiness probe treat both backends alike.
func (d *DB) Ping(context.Context) error { return nil }

func (d *DB) Clients() *ClientRepository   { return &ClientRepository{db: d} }
func (d *DB) Projects() *ProjectRepository { return &ProjectRepository{db: d} }
func (d *DB) Tasks() *TaskRepository       { return &TaskRepository{db: d} }
func (d *DB) Payments() *PaymentRepository { return &PaymentRepository{db: d} }
func (d *DB) Stats() *StatsRepository      { return &StatsRepository{db: d} }
func (d *DB) Users() *UserRepository       { return &UserRepository{db: d} }

// projectWithClient must be called with the lock held.
func (d *DB) projectWithClient(p model.Project) model.Project {
	if c, ok := d.clients[p.ClientID]; ok {
		p.Client = &c
	}
	return p
}

func (d *DB) projectRef(id int64) *model.Project {
	p, ok := d.projects[id]
	if !ok {
		return nil
	}
	p = d.projectWithClient(p)
	return &p
}

// newestFirst orders by creation time, then id, both descending.
func newestFirst(createdA, createdB time.Time, idA, idB int64) bool {
	if !createdA.Equal(createdB) {
		return createdA.After(createdB)
	}
	return idA > idB
}

func sortByCreated[T any](items []T, key func(T) (time.Time, int64)) {
	sort.Slice(items, func(i, j int) bool {
		ci, ii := key(items[i])
		cj, ij := key(items[j])
		return newestFirst(ci, cj, ii, ij)
	})
}
