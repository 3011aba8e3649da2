package db

import (
	"context"
	"testing"

	"optitask/internal/model"
)

func TestSeedFillsFreshStore(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.Seed(context.Background(), DefaultTasks(), DefaultEmployees(), DefaultUsers()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tasks, err := store.Tasks(context.Background())
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("expected 4 seeded tasks, got %d", len(tasks))
	}
	if tasks[2].AssignedTo == nil || *tasks[2].AssignedTo != 2 {
		t.Fatalf("expected task 3 assigned to employee 2, got %v", tasks[2].AssignedTo)
	}
	if tasks[0].Deadline != "2026-02-20" {
		t.Fatalf("expected deadline preserved, got %q", tasks[0].Deadline)
	}

	employees, err := store.Employees(context.Background())
	if err != nil {
		t.Fatalf("load employees: %v", err)
	}
	if len(employees) != 5 {
		t.Fatalf("expected 5 seeded employees, got %d", len(employees))
	}

	users, err := store.Users(context.Background())
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(users) != 5 {
		t.Fatalf("expected 5 seeded users, got %d", len(users))
	}
	if users[0].Email != "admin@flux.com" {
		t.Fatalf("expected admin user first, got %q", users[0].Email)
	}
}

func TestSeedDoesNotOverwriteExistingData(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	custom := []model.Task{{ID: 10, Name: "Custom", Hours: 2, Status: model.StatusTodo, CreatedBy: 1}}
	if err := store.SaveTasks(context.Background(), custom); err != nil {
		t.Fatalf("save tasks: %v", err)
	}

	if err := store.Seed(context.Background(), DefaultTasks(), DefaultEmployees(), DefaultUsers()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tasks, err := store.Tasks(context.Background())
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Name != "Custom" {
		t.Fatalf("expected custom tasks untouched, got %+v", tasks)
	}

	// The untouched collections still get seeded.
	employees, err := store.Employees(context.Background())
	if err != nil {
		t.Fatalf("load employees: %v", err)
	}
	if len(employees) != 5 {
		t.Fatalf("expected employees seeded, got %d", len(employees))
	}
}

func TestResetTasksSurvivesReseed(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.Seed(context.Background(), DefaultTasks(), DefaultEmployees(), DefaultUsers()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.ResetTasks(context.Background()); err != nil {
		t.Fatalf("reset tasks: %v", err)
	}
	if err := store.Seed(context.Background(), DefaultTasks(), DefaultEmployees(), DefaultUsers()); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	tasks, err := store.Tasks(context.Background())
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected reset task collection to stay empty, got %d", len(tasks))
	}

	employees, err := store.Employees(context.Background())
	if err != nil {
		t.Fatalf("load employees: %v", err)
	}
	if len(employees) != 5 {
		t.Fatalf("expected employees to survive task reset, got %d", len(employees))
	}
}

func TestClearAllSurvivesReseed(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.Seed(context.Background(), DefaultTasks(), DefaultEmployees(), DefaultUsers()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.ClearAll(context.Background()); err != nil {
		t.Fatalf("clear all: %v", err)
	}
	if err := store.Seed(context.Background(), DefaultTasks(), DefaultEmployees(), DefaultUsers()); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	c, err := store.Collections(context.Background())
	if err != nil {
		t.Fatalf("load collections: %v", err)
	}
	if len(c.Tasks) != 0 || len(c.Employees) != 0 || len(c.Users) != 0 {
		t.Fatalf("expected cleared collections to stay empty, got %d/%d/%d",
			len(c.Tasks), len(c.Employees), len(c.Users))
	}
}

func TestSaveCollectionsRoundTrip(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	assignee := int64(7)
	if err := store.SaveTasks(context.Background(), []model.Task{
		{ID: 1, Name: "Roundtrip", Hours: 9, Priority: model.PriorityHigh, Status: model.StatusInProgress, Domain: model.DomainBackend, AssignedTo: &assignee, Deadline: "2026-03-01", CreatedBy: 1},
	}); err != nil {
		t.Fatalf("save tasks: %v", err)
	}

	tasks, err := store.Tasks(context.Background())
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.AssignedTo == nil || *task.AssignedTo != 7 {
		t.Fatalf("expected assignee 7, got %v", task.AssignedTo)
	}
	if task.Deadline != "2026-03-01" || task.Priority != model.PriorityHigh {
		t.Fatalf("unexpected round trip result: %+v", task)
	}
}

func TestMissingCollectionReadsEmpty(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	tasks, err := store.Tasks(context.Background())
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty collection, got %d", len(tasks))
	}
}

func TestCorruptPayloadReadsEmpty(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.put(context.Background(), collectionTasks, "{not json"); err != nil {
		t.Fatalf("put: %v", err)
	}

	tasks, err := store.Tasks(context.Background())
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected corrupt payload to read as empty, got %d", len(tasks))
	}

	// The next save replaces the corrupt payload.
	if err := store.SaveTasks(context.Background(), DefaultTasks()); err != nil {
		t.Fatalf("save tasks: %v", err)
	}
	tasks, err = store.Tasks(context.Background())
	if err != nil {
		t.Fatalf("reload tasks: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("expected 4 tasks after overwrite, got %d", len(tasks))
	}
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	if err := store.SaveTasks(context.Background(), nil); err != nil {
		t.Fatalf("save nil tasks: %v", err)
	}

	// The row exists now, so seeding must not refill it.
	if err := store.Seed(context.Background(), DefaultTasks(), DefaultEmployees(), DefaultUsers()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	tasks, err := store.Tasks(context.Background())
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected explicitly emptied collection to stay empty, got %d", len(tasks))
	}
}

func newTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return NewStore(db), func() {
		_ = db.Close()
	}
}
