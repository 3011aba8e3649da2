package tui

import (
	"fmt"
	"strconv"
	"strings"

	"optitask/internal/engine"
	"optitask/internal/model"
	"optitask/internal/session"
)

type formKind int

const (
	formLogin formKind = iota
	formRegister
	formTask
	formMember
)

type formField struct {
	Label   string
	Value   string
	Options []string
	Secret  bool
}

type formState struct {
	kind   formKind
	fields []formField
	index  int
}

const (
	loginFieldEmail = iota
	loginFieldPassword
)

const (
	registerFieldName = iota
	registerFieldEmail
	registerFieldPassword
	registerFieldRole
	registerFieldDomain
)

const (
	taskFieldName = iota
	taskFieldHours
	taskFieldPriority
	taskFieldDomain
	taskFieldDeadline
)

const (
	memberFieldName = iota
	memberFieldRole
	memberFieldDomain
)

var (
	priorityOptions = []string{string(model.PriorityHigh), string(model.PriorityMedium), string(model.PriorityLow)}
	roleOptions     = []string{string(model.RoleEmployee), string(model.RoleTeamLead), string(model.RoleManager), string(model.RoleAdmin)}
	// Admin members are created through registration, not the member form.
	memberRoleOptions = []string{string(model.RoleEmployee), string(model.RoleTeamLead), string(model.RoleManager)}
)

func domainOptions() []string {
	options := make([]string, 0, len(model.WorkDomains))
	for _, domain := range model.WorkDomains {
		options = append(options, string(domain))
	}
	return options
}

func buildLoginForm() *formState {
	return &formState{kind: formLogin, fields: []formField{
		{Label: "Email"},
		{Label: "Password", Secret: true},
	}}
}

func buildRegisterForm() *formState {
	return &formState{kind: formRegister, fields: []formField{
		{Label: "Full Name"},
		{Label: "Email"},
		{Label: "Password (min 6)", Secret: true},
		{Label: "Role (←→)", Value: string(model.RoleEmployee), Options: roleOptions},
		{Label: "Domain (←→)", Value: string(model.DomainFrontend), Options: domainOptions()},
	}}
}

func buildTaskForm() *formState {
	return &formState{kind: formTask, fields: []formField{
		{Label: "Name"},
		{Label: "Hours", Value: "8"},
		{Label: "Priority (←→)", Value: string(model.PriorityMedium), Options: priorityOptions},
		{Label: "Domain (←→)", Value: string(model.DomainFrontend), Options: domainOptions()},
		{Label: "Deadline (YYYY-MM-DD)"},
	}}
}

func buildMemberForm() *formState {
	return &formState{kind: formMember, fields: []formField{
		{Label: "Name"},
		{Label: "Role (←→)", Value: string(model.RoleEmployee), Options: memberRoleOptions},
		{Label: "Domain (←→)", Value: string(model.DomainFrontend), Options: domainOptions()},
	}}
}

func (f *formState) title() string {
	switch f.kind {
	case formLogin:
		return "Login"
	case formRegister:
		return "Register"
	case formTask:
		return "New Task"
	default:
		return "Add Member"
	}
}

func parseTaskForm(fields []formField) (engine.TaskInput, error) {
	hours, err := strconv.ParseInt(strings.TrimSpace(fields[taskFieldHours].Value), 10, 64)
	if err != nil {
		return engine.TaskInput{}, fmt.Errorf("invalid hours")
	}

	return engine.TaskInput{
		Name:     strings.TrimSpace(fields[taskFieldName].Value),
		Hours:    hours,
		Priority: model.Priority(fields[taskFieldPriority].Value),
		Domain:   model.Domain(fields[taskFieldDomain].Value),
		Deadline: strings.TrimSpace(fields[taskFieldDeadline].Value),
	}, nil
}

func parseRegisterForm(fields []formField) session.RegisterInput {
	return session.RegisterInput{
		Name:     strings.TrimSpace(fields[registerFieldName].Value),
		Email:    strings.TrimSpace(fields[registerFieldEmail].Value),
		Password: fields[registerFieldPassword].Value,
		Role:     model.Role(fields[registerFieldRole].Value),
		Domain:   model.Domain(fields[registerFieldDomain].Value),
	}
}

func cycleOption(options []string, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	index := 0
	for i, option := range options {
		if option == strings.TrimSpace(current) {
			index = i
			break
		}
	}
	index = (index + delta + len(options)) % len(options)
	return options[index]
}
