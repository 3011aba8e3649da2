package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"optitask/internal/engine"
	"optitask/internal/model"
)

// Collection row names. Each holds one JSON array covering the whole
// collection; every save replaces the array wholesale.
const (
	collectionTasks     = "tasks"
	collectionEmployees = "employees"
	collectionUsers     = "users"
)

const emptyPayload = "[]"

// Store persists the three collections as named JSON payloads. A missing
// row and an unparsable payload both read back as an empty collection; the
// next save overwrites whatever was there.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Tasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := s.loadInto(ctx, collectionTasks, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) Employees(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	if err := s.loadInto(ctx, collectionEmployees, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *Store) Users(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.loadInto(ctx, collectionUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) SaveTasks(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return s.save(ctx, collectionTasks, tasks)
}

func (s *Store) SaveEmployees(ctx context.Context, employees []model.Employee) error {
	if employees == nil {
		employees = []model.Employee{}
	}
	return s.save(ctx, collectionEmployees, employees)
}

func (s *Store) SaveUsers(ctx context.Context, users []model.User) error {
	if users == nil {
		users = []model.User{}
	}
	return s.save(ctx, collectionUsers, users)
}

// Collections loads the full working state in one call.
func (s *Store) Collections(ctx context.Context) (engine.Collections, error) {
	tasks, err := s.Tasks(ctx)
	if err != nil {
		return engine.Collections{}, err
	}
	employees, err := s.Employees(ctx)
	if err != nil {
		return engine.Collections{}, err
	}
	users, err := s.Users(ctx)
	if err != nil {
		return engine.Collections{}, err
	}
	return engine.Collections{Tasks: tasks, Employees: employees, Users: users}, nil
}

// SaveCollections writes all three collections back. The presentation
// layer calls this after every engine operation.
func (s *Store) SaveCollections(ctx context.Context, c engine.Collections) error {
	if err := s.SaveTasks(ctx, c.Tasks); err != nil {
		return err
	}
	if err := s.SaveEmployees(ctx, c.Employees); err != nil {
		return err
	}
	return s.SaveUsers(ctx, c.Users)
}

// Seed writes the default datasets, each only when its collection has no
// persisted row at all. An explicitly saved empty array counts as present,
// so a reset collection stays empty across restarts.
func (s *Store) Seed(ctx context.Context, tasks []model.Task, employees []model.Employee, users []model.User) error {
	present, err := s.exists(ctx, collectionTasks)
	if err != nil {
		return err
	}
	if !present {
		if err := s.SaveTasks(ctx, tasks); err != nil {
			return err
		}
	}

	present, err = s.exists(ctx, collectionEmployees)
	if err != nil {
		return err
	}
	if !present {
		if err := s.SaveEmployees(ctx, employees); err != nil {
			return err
		}
	}

	present, err = s.exists(ctx, collectionUsers)
	if err != nil {
		return err
	}
	if !present {
		if err := s.SaveUsers(ctx, users); err != nil {
			return err
		}
	}

	return nil
}

// ClearAll empties every collection. Irreversible.
func (s *Store) ClearAll(ctx context.Context) error {
	for _, name := range []string{collectionTasks, collectionEmployees, collectionUsers} {
		if err := s.put(ctx, name, emptyPayload); err != nil {
			return err
		}
	}
	return nil
}

// ResetTasks empties the task collection only. Irreversible.
func (s *Store) ResetTasks(ctx context.Context) error {
	return s.put(ctx, collectionTasks, emptyPayload)
}

func (s *Store) loadInto(ctx context.Context, name string, target any) error {
	var payload string
	err := s.DB.QueryRowContext(ctx, "SELECT payload FROM collections WHERE name = ?", name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}

	// Unparsable storage reads back as absent rather than crashing the UI.
	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return nil
	}
	return nil
}

func (s *Store) save(ctx context.Context, name string, records any) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.put(ctx, name, string(payload))
}

func (s *Store) put(ctx context.Context, name, payload string) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO collections (name, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP",
		name, payload)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.DB.QueryRowContext(ctx, "SELECT 1 FROM collections WHERE name = ?", name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s: %w", name, err)
	}
	return true, nil
}
