package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"optitask/internal/model"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrNotAllowed    = errors.New("not allowed")
	ErrBadTransition = errors.New("invalid status transition")
	ErrValidation    = errors.New("invalid input")
)

// Collections is the full working state of the application. Engine
// operations never mutate their input; they return a fresh Collections so
// earlier snapshots stay valid.
type Collections struct {
	Tasks     []model.Task
	Employees []model.Employee
	Users     []model.User
}

type TaskInput struct {
	Name     string
	Hours    int64
	Priority model.Priority
	Domain   model.Domain
	Deadline string
}

// AddTask appends a new task in "todo" with the next free id. Authorization
// is the caller's responsibility via model.PermissionTier.
func AddTask(c Collections, input TaskInput, actorID int64) (Collections, error) {
	if strings.TrimSpace(input.Name) == "" {
		return c, fmt.Errorf("task name is required: %w", ErrValidation)
	}
	if input.Hours <= 0 {
		return c, fmt.Errorf("task hours must be positive: %w", ErrValidation)
	}

	task := model.Task{
		ID:        NextTaskID(c.Tasks),
		Name:      strings.TrimSpace(input.Name),
		Hours:     input.Hours,
		Priority:  input.Priority,
		Status:    model.StatusTodo,
		Domain:    input.Domain,
		Deadline:  input.Deadline,
		CreatedBy: actorID,
	}

	next := clone(c)
	next.Tasks = append(next.Tasks, task)
	return next, nil
}

// NextTaskID is max existing id + 1, starting at 1 for an empty collection.
func NextTaskID(tasks []model.Task) int64 {
	var maxID int64
	for _, task := range tasks {
		if task.ID > maxID {
			maxID = task.ID
		}
	}
	return maxID + 1
}

// AddEmployee appends a team member with no assigned hours.
func AddEmployee(c Collections, name string, role model.Role, domain model.Domain) (Collections, error) {
	if strings.TrimSpace(name) == "" {
		return c, fmt.Errorf("member name is required: %w", ErrValidation)
	}

	var maxID int64
	for _, emp := range c.Employees {
		if emp.ID > maxID {
			maxID = emp.ID
		}
	}

	next := clone(c)
	next.Employees = append(next.Employees, model.Employee{
		ID:     maxID + 1,
		Name:   strings.TrimSpace(name),
		Role:   role,
		Domain: domain,
	})
	return next, nil
}

// AssignTask points the task at the employee, moves it to "inprogress" and
// adds its hours to the employee's running total. Overload is advisory only
// (see WillOverload); over-assignment is permitted.
func AssignTask(c Collections, taskID, employeeID int64) (Collections, error) {
	taskIdx := taskIndex(c.Tasks, taskID)
	if taskIdx < 0 {
		return c, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	empIdx := employeeIndex(c.Employees, employeeID)
	if empIdx < 0 {
		return c, fmt.Errorf("employee %d: %w", employeeID, ErrNotFound)
	}

	next := clone(c)
	hours := next.Tasks[taskIdx].Hours
	next.Tasks[taskIdx].AssignedTo = &employeeID
	next.Tasks[taskIdx].Status = model.StatusInProgress
	next.Employees[empIdx].AssignedHours += hours
	return next, nil
}

// Allowed task lifecycle moves. Done is terminal; there is no backward move
// and no skipping.
var statusTransitions = map[model.Status]map[model.Status]bool{
	model.StatusTodo:       {model.StatusInProgress: true},
	model.StatusInProgress: {model.StatusDone: true},
	model.StatusDone:       {},
}

func canTransition(current, to model.Status) bool {
	nexts, ok := statusTransitions[current]
	if !ok {
		return false
	}
	return nexts[to]
}

// MoveTask advances the task's status. Admin and Manager may move any task;
// everyone else only tasks assigned to them.
func MoveTask(c Collections, taskID int64, newStatus model.Status, actor model.User) (Collections, error) {
	taskIdx := taskIndex(c.Tasks, taskID)
	if taskIdx < 0 {
		return c, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}

	task := c.Tasks[taskIdx]
	if !model.PermissionTier(actor.Role).CanManage {
		if task.AssignedTo == nil || *task.AssignedTo != actor.ID {
			return c, fmt.Errorf("only your own tasks can be moved: %w", ErrNotAllowed)
		}
	}
	if !canTransition(task.Status, newStatus) {
		return c, fmt.Errorf("%s -> %s: %w", task.Status, newStatus, ErrBadTransition)
	}

	next := clone(c)
	next.Tasks[taskIdx].Status = newStatus
	return next, nil
}

// DeleteTask removes the task and releases its hours from the assignee,
// never letting the total go negative.
func DeleteTask(c Collections, taskID int64, actor model.User) (Collections, error) {
	if !model.PermissionTier(actor.Role).CanManage {
		return c, fmt.Errorf("only Admin or Manager can delete tasks: %w", ErrNotAllowed)
	}
	taskIdx := taskIndex(c.Tasks, taskID)
	if taskIdx < 0 {
		return c, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}

	next := clone(c)
	task := next.Tasks[taskIdx]
	if task.AssignedTo != nil {
		if empIdx := employeeIndex(next.Employees, *task.AssignedTo); empIdx >= 0 {
			next.Employees[empIdx].AssignedHours = max(0, next.Employees[empIdx].AssignedHours-task.Hours)
		}
	}
	next.Tasks = append(next.Tasks[:taskIdx], next.Tasks[taskIdx+1:]...)
	return next, nil
}

// DeleteEmployee removes the employee and every task assigned to them.
// Cascading the tasks away (instead of unassigning) keeps the task list
// free of dangling references.
func DeleteEmployee(c Collections, employeeID int64, actor model.User) (Collections, error) {
	if !model.PermissionTier(actor.Role).CanManage {
		return c, fmt.Errorf("only Admin or Manager can delete members: %w", ErrNotAllowed)
	}
	if employeeIndex(c.Employees, employeeID) < 0 {
		return c, fmt.Errorf("employee %d: %w", employeeID, ErrNotFound)
	}

	next := Collections{Users: cloneUsers(c.Users)}
	for _, task := range c.Tasks {
		if task.AssignedTo != nil && *task.AssignedTo == employeeID {
			continue
		}
		next.Tasks = append(next.Tasks, task)
	}
	for _, emp := range c.Employees {
		if emp.ID == employeeID {
			continue
		}
		next.Employees = append(next.Employees, emp)
	}
	return next, nil
}

type LoadLevel string

const (
	LoadAvailable  LoadLevel = "Available"
	LoadModerate   LoadLevel = "Moderate"
	LoadOverloaded LoadLevel = "Overloaded"
)

// LoadStatus classifies a running hour total against the 40-hour capacity.
func LoadStatus(hours int64) LoadLevel {
	switch {
	case hours > 40:
		return LoadOverloaded
	case hours >= 20:
		return LoadModerate
	default:
		return LoadAvailable
	}
}

// WillOverload reports whether assigning the given hours would push the
// employee past capacity. Advisory: assignment is never blocked on it.
func WillOverload(emp model.Employee, incomingHours int64) bool {
	return emp.AssignedHours+incomingHours > 40
}

// AssignmentCandidates lists employees eligible for assignment, least
// loaded first. Admin-role members never receive task assignments.
func AssignmentCandidates(employees []model.Employee) []model.Employee {
	candidates := make([]model.Employee, 0, len(employees))
	for _, emp := range employees {
		if emp.Role == model.RoleAdmin {
			continue
		}
		candidates = append(candidates, emp)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AssignedHours < candidates[j].AssignedHours
	})
	return candidates
}

func taskIndex(tasks []model.Task, id int64) int {
	for i, task := range tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func employeeIndex(employees []model.Employee, id int64) int {
	for i, emp := range employees {
		if emp.ID == id {
			return i
		}
	}
	return -1
}

func clone(c Collections) Collections {
	return Collections{
		Tasks:     append([]model.Task(nil), c.Tasks...),
		Employees: append([]model.Employee(nil), c.Employees...),
		Users:     cloneUsers(c.Users),
	}
}

func cloneUsers(users []model.User) []model.User {
	return append([]model.User(nil), users...)
}
