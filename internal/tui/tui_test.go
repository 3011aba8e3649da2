package tui

import (
	"context"
	"testing"

	"optitask/internal/db"
	"optitask/internal/model"
)

func TestLoginFlow(t *testing.T) {
	store, cleanup := newSeededStore(t)
	defer cleanup()

	t.Run("valid credentials", func(t *testing.T) {
		ui := newTestUI(t, store)
		ui.form = buildLoginForm()
		ui.form.fields[loginFieldEmail].Value = "admin@flux.com"
		ui.form.fields[loginFieldPassword].Value = "admin123"

		if err := ui.submitForm(nil, nil); err != nil {
			t.Fatalf("submit login: %v", err)
		}
		if ui.user == nil || ui.user.Role != model.RoleAdmin {
			t.Fatalf("expected admin session, got %+v", ui.user)
		}
		if ui.form != nil {
			t.Fatalf("expected form to close after login")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		ui := newTestUI(t, store)
		ui.form = buildLoginForm()
		ui.form.fields[loginFieldEmail].Value = "admin@flux.com"
		ui.form.fields[loginFieldPassword].Value = "nope"

		if err := ui.submitForm(nil, nil); err != nil {
			t.Fatalf("submit login: %v", err)
		}
		if ui.user != nil {
			t.Fatalf("expected no session on bad credentials")
		}
		if ui.status == "" {
			t.Fatalf("expected status message on bad credentials")
		}
	})
}

func TestRegisterFromForm(t *testing.T) {
	store, cleanup := newSeededStore(t)
	defer cleanup()

	ui := newTestUI(t, store)
	ui.form = buildRegisterForm()
	ui.form.fields[registerFieldName].Value = "Asha"
	ui.form.fields[registerFieldEmail].Value = "asha@flux.com"
	ui.form.fields[registerFieldPassword].Value = "secret1"
	ui.form.fields[registerFieldRole].Value = string(model.RoleEmployee)
	ui.form.fields[registerFieldDomain].Value = string(model.DomainDevOps)

	if err := ui.submitForm(nil, nil); err != nil {
		t.Fatalf("submit register: %v", err)
	}
	if ui.user == nil || ui.user.Email != "asha@flux.com" {
		t.Fatalf("expected new user logged in, got %+v", ui.user)
	}

	users, err := store.Users(context.Background())
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(users) != 6 {
		t.Fatalf("expected 6 users, got %d", len(users))
	}
	employees, err := store.Employees(context.Background())
	if err != nil {
		t.Fatalf("load employees: %v", err)
	}
	if len(employees) != 6 {
		t.Fatalf("expected paired employee record, got %d", len(employees))
	}
}

func TestRegisterDuplicateEmailLeavesStoreUntouched(t *testing.T) {
	store, cleanup := newSeededStore(t)
	defer cleanup()

	ui := newTestUI(t, store)
	ui.form = buildRegisterForm()
	ui.form.fields[registerFieldName].Value = "Imposter"
	ui.form.fields[registerFieldEmail].Value = "rahul@flux.com"
	ui.form.fields[registerFieldPassword].Value = "secret1"

	if err := ui.submitForm(nil, nil); err != nil {
		t.Fatalf("submit register: %v", err)
	}
	if ui.user != nil {
		t.Fatalf("expected no session on duplicate email")
	}

	users, err := store.Users(context.Background())
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(users) != 5 {
		t.Fatalf("expected users unchanged, got %d", len(users))
	}
}

func TestAdvanceSelectedPersists(t *testing.T) {
	store, cleanup := newSeededStore(t)
	defer cleanup()

	ui := newLoggedInUI(t, store, "admin@flux.com")
	ui.focus = viewTodo
	ui.selectedTodo = 0

	if err := ui.advanceSelected(nil, nil); err != nil {
		t.Fatalf("advance todo: %v", err)
	}
	if status := storedTaskStatus(t, store, 1); status != model.StatusInProgress {
		t.Fatalf("expected task 1 in progress, got %q", status)
	}

	ui.focus = viewInProgress
	for i, task := range ui.inprogress {
		if task.ID == 1 {
			ui.selectedInProgress = i
		}
	}
	if err := ui.advanceSelected(nil, nil); err != nil {
		t.Fatalf("advance inprogress: %v", err)
	}
	if status := storedTaskStatus(t, store, 1); status != model.StatusDone {
		t.Fatalf("expected task 1 done, got %q", status)
	}
}

func TestEmployeeCannotMoveUnassignedTask(t *testing.T) {
	store, cleanup := newSeededStore(t)
	defer cleanup()

	ui := newLoggedInUI(t, store, "rahul@flux.com")
	ui.focus = viewTodo
	ui.selectedTodo = 0

	if err := ui.advanceSelected(nil, nil); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if ui.status == "" {
		t.Fatalf("expected status message on denied move")
	}
	if status := storedTaskStatus(t, store, 1); status != model.StatusTodo {
		t.Fatalf("expected task 1 untouched, got %q", status)
	}
}

func TestEmployeeCannotOpenManageForms(t *testing.T) {
	store, cleanup := newSeededStore(t)
	defer cleanup()

	ui := newLoggedInUI(t, store, "rahul@flux.com")

	if err := ui.openTaskForm(nil, nil); err != nil {
		t.Fatalf("open task form: %v", err)
	}
	if ui.form != nil {
		t.Fatalf("expected no form for Employee role")
	}
	if ui.status == "" {
		t.Fatalf("expected status message")
	}

	ui.status = ""
	if err := ui.openMemberForm(nil, nil); err != nil {
		t.Fatalf("open member form: %v", err)
	}
	if ui.form != nil || ui.status == "" {
		t.Fatalf("expected member form denied for Employee role")
	}
}

func TestAssignFlow(t *testing.T) {
	store, cleanup := newSeededStore(t)
	defer cleanup()

	ui := newLoggedInUI(t, store, "admin@flux.com")
	ui.focus = viewTodo
	ui.selectedTodo = 0 // Design Login Page, 12h, unassigned

	if err := ui.openAssign(nil, nil); err != nil {
		t.Fatalf("open assign: %v", err)
	}
	if ui.assign == nil {
		t.Fatalf("expected assign picker to open")
	}
	for _, emp := range ui.assign.candidates {
		if emp.Role == model.RoleAdmin {
			t.Fatalf("expected Admin excluded from candidates")
		}
	}
	// Least loaded first: Amit starts at 5 hours.
	if ui.assign.candidates[0].Name != "Amit" {
		t.Fatalf("expected Amit first, got %q", ui.assign.candidates[0].Name)
	}

	if err := ui.submitAssign(nil, nil); err != nil {
		t.Fatalf("submit assign: %v", err)
	}
	if ui.assign != nil {
		t.Fatalf("expected picker to close")
	}

	c, err := store.Collections(context.Background())
	if err != nil {
		t.Fatalf("load collections: %v", err)
	}
	task := c.Tasks[0]
	if task.AssignedTo == nil || *task.AssignedTo != 4 {
		t.Fatalf("expected task assigned to Amit (4), got %v", task.AssignedTo)
	}
	if task.Status != model.StatusInProgress {
		t.Fatalf("expected task in progress, got %q", task.Status)
	}
	for _, emp := range c.Employees {
		if emp.ID == 4 && emp.AssignedHours != 17 {
			t.Fatalf("expected Amit at 17 hours, got %d", emp.AssignedHours)
		}
	}
}

func TestAssignRejectsAssignedTask(t *testing.T) {
	store, cleanup := newSeededStore(t)
	defer cleanup()

	ui := newLoggedInUI(t, store, "admin@flux.com")
	ui.focus = viewInProgress

	if err := ui.openAssign(nil, nil); err != nil {
		t.Fatalf("open assign: %v", err)
	}
	if ui.assign != nil {
		t.Fatalf("expected assign limited to the To Do pane")
	}
}

func TestDeleteMemberCascades(t *testing.T) {
	store, cleanup := newSeededStore(t)
	defer cleanup()

	ui := newLoggedInUI(t, store, "admin@flux.com")
	ui.focus = viewTeam
	for i, emp := range ui.collections.Employees {
		if emp.Name == "Rahul" {
			ui.selectedTeam = i
		}
	}

	if err := ui.deleteSelected(nil, nil); err != nil {
		t.Fatalf("delete member: %v", err)
	}

	c, err := store.Collections(context.Background())
	if err != nil {
		t.Fatalf("load collections: %v", err)
	}
	if len(c.Employees) != 4 {
		t.Fatalf("expected 4 employees, got %d", len(c.Employees))
	}
	for _, task := range c.Tasks {
		if task.AssignedTo != nil && *task.AssignedTo == 2 {
			t.Fatalf("expected Rahul's tasks removed")
		}
	}
	if len(c.Tasks) != 3 {
		t.Fatalf("expected 3 tasks after cascade, got %d", len(c.Tasks))
	}
}

func TestReportsGate(t *testing.T) {
	store, cleanup := newSeededStore(t)
	defer cleanup()

	t.Run("employee denied", func(t *testing.T) {
		ui := newLoggedInUI(t, store, "rahul@flux.com")
		if err := ui.toggleReports(nil, nil); err != nil {
			t.Fatalf("toggle reports: %v", err)
		}
		if ui.reportsActive {
			t.Fatalf("expected reports denied for Employee role")
		}
		if ui.status == "" {
			t.Fatalf("expected status message")
		}
	})

	t.Run("team lead allowed", func(t *testing.T) {
		ui := newLoggedInUI(t, store, "priya@flux.com")
		if err := ui.toggleReports(nil, nil); err != nil {
			t.Fatalf("toggle reports: %v", err)
		}
		if !ui.reportsActive {
			t.Fatalf("expected reports open for Team Lead")
		}
	})
}

func TestSearchFiltersTaskColumns(t *testing.T) {
	store, cleanup := newSeededStore(t)
	defer cleanup()

	ui := newLoggedInUI(t, store, "admin@flux.com")

	if err := ui.setQuery(nil, "login"); err != nil {
		t.Fatalf("set query: %v", err)
	}
	if len(ui.todo) != 1 || ui.todo[0].Name != "Design Login Page" {
		t.Fatalf("expected only the matching todo task, got %+v", ui.todo)
	}
	if len(ui.inprogress) != 0 {
		t.Fatalf("expected no inprogress matches, got %d", len(ui.inprogress))
	}
	if len(ui.done) != 1 || ui.done[0].Name != "Fix Login Bug" {
		t.Fatalf("expected only the matching done task, got %+v", ui.done)
	}

	// Clearing restores the full columns.
	if err := ui.clearSearch(nil, nil); err != nil {
		t.Fatalf("clear search: %v", err)
	}
	if ui.query != "" {
		t.Fatalf("expected query cleared, got %q", ui.query)
	}
	if len(ui.todo) != 2 || len(ui.inprogress) != 1 || len(ui.done) != 1 {
		t.Fatalf("expected full columns after clear, got %d/%d/%d",
			len(ui.todo), len(ui.inprogress), len(ui.done))
	}
}

func TestSearchLeavesStoreUntouched(t *testing.T) {
	store, cleanup := newSeededStore(t)
	defer cleanup()

	ui := newLoggedInUI(t, store, "admin@flux.com")
	if err := ui.setQuery(nil, "navbar"); err != nil {
		t.Fatalf("set query: %v", err)
	}

	tasks, err := store.Tasks(context.Background())
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("expected persisted tasks unchanged, got %d", len(tasks))
	}
}

func TestLeaveOrganizationRemovesBothRecords(t *testing.T) {
	store, cleanup := newSeededStore(t)
	defer cleanup()

	ui := newLoggedInUI(t, store, "rahul@flux.com")
	if err := ui.openLeave(nil, nil); err != nil {
		t.Fatalf("open leave: %v", err)
	}
	if !ui.leaveActive {
		t.Fatalf("expected confirm prompt")
	}

	if err := ui.confirmLeave(nil, nil); err != nil {
		t.Fatalf("confirm leave: %v", err)
	}
	if ui.user != nil {
		t.Fatalf("expected session ended")
	}
	if ui.form == nil || ui.form.kind != formLogin {
		t.Fatalf("expected login form after leaving")
	}

	c, err := store.Collections(context.Background())
	if err != nil {
		t.Fatalf("load collections: %v", err)
	}
	if len(c.Users) != 4 || len(c.Employees) != 4 {
		t.Fatalf("expected user and employee removed together, got %d users, %d employees",
			len(c.Users), len(c.Employees))
	}
	for _, user := range c.Users {
		if user.Email == "rahul@flux.com" {
			t.Fatalf("expected rahul's account removed")
		}
	}
}

func TestLeaveOrganizationCanBeCancelled(t *testing.T) {
	store, cleanup := newSeededStore(t)
	defer cleanup()

	ui := newLoggedInUI(t, store, "rahul@flux.com")
	if err := ui.openLeave(nil, nil); err != nil {
		t.Fatalf("open leave: %v", err)
	}
	if err := ui.cancelLeave(nil, nil); err != nil {
		t.Fatalf("cancel leave: %v", err)
	}
	if ui.leaveActive {
		t.Fatalf("expected prompt dismissed")
	}
	if ui.user == nil {
		t.Fatalf("expected session kept")
	}

	users, err := store.Users(context.Background())
	if err != nil {
		t.Fatalf("load users: %v", err)
	}
	if len(users) != 5 {
		t.Fatalf("expected users unchanged, got %d", len(users))
	}
}

func TestParseTaskForm(t *testing.T) {
	form := buildTaskForm()
	form.fields[taskFieldName].Value = "  New Task "
	form.fields[taskFieldHours].Value = "12"

	input, err := parseTaskForm(form.fields)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if input.Name != "New Task" || input.Hours != 12 {
		t.Fatalf("unexpected input: %+v", input)
	}

	form.fields[taskFieldHours].Value = "twelve"
	if _, err := parseTaskForm(form.fields); err == nil {
		t.Fatalf("expected error for non-numeric hours")
	}
}

func TestCycleOption(t *testing.T) {
	options := []string{"High", "Medium", "Low"}
	if got := cycleOption(options, "High", 1); got != "Medium" {
		t.Fatalf("expected Medium, got %q", got)
	}
	if got := cycleOption(options, "High", -1); got != "Low" {
		t.Fatalf("expected wrap to Low, got %q", got)
	}
	if got := cycleOption(options, "Low", 1); got != "High" {
		t.Fatalf("expected wrap to High, got %q", got)
	}
}

func storedTaskStatus(t *testing.T, store *db.Store, id int64) model.Status {
	t.Helper()
	tasks, err := store.Tasks(context.Background())
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	for _, task := range tasks {
		if task.ID == id {
			return task.Status
		}
	}
	t.Fatalf("task %d not found", id)
	return ""
}

func newTestUI(t *testing.T, store *db.Store) *UI {
	t.Helper()
	ui := &UI{store: store, focus: viewTodo}
	if err := ui.refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return ui
}

func newLoggedInUI(t *testing.T, store *db.Store, email string) *UI {
	t.Helper()
	ui := newTestUI(t, store)
	for i, user := range ui.collections.Users {
		if user.Email == email {
			ui.user = &ui.collections.Users[i]
			return ui
		}
	}
	t.Fatalf("no seeded user %q", email)
	return nil
}

func newSeededStore(t *testing.T) (*db.Store, func()) {
	t.Helper()
	dbConn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	store := db.NewStore(dbConn)
	if err := store.Seed(context.Background(), db.DefaultTasks(), db.DefaultEmployees(), db.DefaultUsers()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store, func() {
		_ = dbConn.Close()
	}
}
