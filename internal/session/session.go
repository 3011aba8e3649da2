// Package session resolves credentials against the user collection and
// owns the paired User/Employee lifecycle: registration creates both
// records under one id, account removal deletes both.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"optitask/internal/engine"
	"optitask/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// Authenticate is a single-attempt exact match on email and password.
func Authenticate(users []model.User, email, password string) (model.User, error) {
	for _, user := range users {
		if user.Email == email && user.Password == password {
			return user, nil
		}
	}
	return model.User{}, ErrInvalidCredentials
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
	Domain   model.Domain
}

// Register builds a paired User and Employee sharing a fresh time-based id.
// Seed records use small ids, so UnixMilli cannot collide with them. The
// caller inserts both records or neither.
func Register(users []model.User, input RegisterInput) (model.User, model.Employee, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" {
		return model.User{}, model.Employee{}, fmt.Errorf("name and email are required: %w", engine.ErrValidation)
	}
	if len(input.Password) < 6 {
		return model.User{}, model.Employee{}, fmt.Errorf("password must be at least 6 characters: %w", engine.ErrValidation)
	}
	for _, user := range users {
		if user.Email == email {
			return model.User{}, model.Employee{}, ErrEmailTaken
		}
	}

	user := model.User{
		ID:       time.Now().UnixMilli(),
		Name:     name,
		Email:    email,
		Password: input.Password,
		Role:     input.Role,
	}

	domain := input.Domain
	if input.Role == model.RoleAdmin {
		domain = model.DomainAdmin
	}
	employee := model.Employee{
		ID:     user.ID,
		Name:   user.Name,
		Role:   user.Role,
		Domain: domain,
	}

	return user, employee, nil
}

// Insert adds a registered pair to a collections snapshot. Both records
// land together so the user and employee lists never drift apart.
func Insert(c engine.Collections, user model.User, employee model.Employee) engine.Collections {
	return engine.Collections{
		Tasks:     append([]model.Task(nil), c.Tasks...),
		Employees: append(append([]model.Employee(nil), c.Employees...), employee),
		Users:     append(append([]model.User(nil), c.Users...), user),
	}
}

// RemoveAccount deletes the user and the employee sharing its id from a
// collections snapshot in one step.
func RemoveAccount(c engine.Collections, userID int64) engine.Collections {
	next := engine.Collections{Tasks: append([]model.Task(nil), c.Tasks...)}
	for _, user := range c.Users {
		if user.ID == userID {
			continue
		}
		next.Users = append(next.Users, user)
	}
	for _, emp := range c.Employees {
		if emp.ID == userID {
			continue
		}
		next.Employees = append(next.Employees, emp)
	}
	return next
}
