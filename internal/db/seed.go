package db

import "optitask/internal/model"

// Default datasets for first-run seeding. Each function returns a fresh
// slice so nothing can mutate the fixtures between calls.

func DefaultEmployees() []model.Employee {
	return []model.Employee{
		{ID: 1, Name: "Yogita", Role: model.RoleAdmin, Domain: model.DomainAdmin, AssignedHours: 30},
		{ID: 2, Name: "Rahul", Role: model.RoleEmployee, Domain: model.DomainBackend, AssignedHours: 10},
		{ID: 3, Name: "Priya", Role: model.RoleTeamLead, Domain: model.DomainFrontend, AssignedHours: 25},
		{ID: 4, Name: "Amit", Role: model.RoleEmployee, Domain: model.DomainUIUX, AssignedHours: 5},
		{ID: 5, Name: "Neha", Role: model.RoleEmployee, Domain: model.DomainQA, AssignedHours: 30},
	}
}

func DefaultTasks() []model.Task {
	rahul := int64(2)
	neha := int64(5)
	return []model.Task{
		{ID: 1, Name: "Design Login Page", Hours: 12, Priority: model.PriorityHigh, Status: model.StatusTodo, Domain: model.DomainUIUX, Deadline: "2026-02-20", CreatedBy: 1},
		{ID: 2, Name: "Build Navbar", Hours: 8, Priority: model.PriorityMedium, Status: model.StatusTodo, Domain: model.DomainFrontend, CreatedBy: 1},
		{ID: 3, Name: "Create Payment API", Hours: 15, Priority: model.PriorityHigh, Status: model.StatusInProgress, Domain: model.DomainBackend, AssignedTo: &rahul, CreatedBy: 1},
		{ID: 4, Name: "Fix Login Bug", Hours: 6, Priority: model.PriorityLow, Status: model.StatusDone, Domain: model.DomainQA, AssignedTo: &neha, CreatedBy: 1},
	}
}

func DefaultUsers() []model.User {
	return []model.User{
		{ID: 1, Name: "Yogita", Email: "admin@flux.com", Password: "admin123", Role: model.RoleAdmin},
		{ID: 2, Name: "Rahul", Email: "rahul@flux.com", Password: "rahul123", Role: model.RoleEmployee},
		{ID: 3, Name: "Priya", Email: "priya@flux.com", Password: "priya123", Role: model.RoleTeamLead},
		{ID: 4, Name: "Amit", Email: "amit@flux.com", Password: "amit123", Role: model.RoleEmployee},
		{ID: 5, Name: "Neha", Email: "neha@flux.com", Password: "neha123", Role: model.RoleEmployee},
	}
}
