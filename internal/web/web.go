package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"optitask/internal/db"
	"optitask/internal/engine"
	"optitask/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.tmpl"))

// Server exposes a read-only view of the dashboard. All mutations go
// through the terminal UI.
type Server struct {
	store *db.Store
}

func NewServer(store *db.Store) *Server {
	return &Server{store: store}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/api/tasks", s.apiTasksHandler)
	mux.HandleFunc("/api/team", s.apiTeamHandler)
	mux.HandleFunc("/api/report", s.apiReportHandler)
	return mux
}

type workloadRow struct {
	Employee model.Employee
	Load     string
}

type taskRow struct {
	Task     model.Task
	Assignee string
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	collections, err := s.store.Collections(context.Background())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	team := make([]workloadRow, 0, len(collections.Employees))
	for _, emp := range collections.Employees {
		team = append(team, workloadRow{Employee: emp, Load: string(engine.LoadStatus(emp.AssignedHours))})
	}

	var todo, inprogress, done []taskRow
	for _, task := range collections.Tasks {
		row := taskRow{Task: task}
		if task.AssignedTo != nil {
			for _, emp := range collections.Employees {
				if emp.ID == *task.AssignedTo {
					row.Assignee = emp.Name
					break
				}
			}
		}
		switch task.Status {
		case model.StatusInProgress:
			inprogress = append(inprogress, row)
		case model.StatusDone:
			done = append(done, row)
		default:
			todo = append(todo, row)
		}
	}

	data := struct {
		Summary    engine.Summary
		Team       []workloadRow
		Todo       []taskRow
		InProgress []taskRow
		Done       []taskRow
	}{
		Summary:    engine.Summarize(collections),
		Team:       team,
		Todo:       todo,
		InProgress: inprogress,
		Done:       done,
	}

	if err := indexTemplate.Execute(w, data); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
}

func (s *Server) apiTasksHandler(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.Tasks(context.Background())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, tasks)
}

func (s *Server) apiTeamHandler(w http.ResponseWriter, r *http.Request) {
	employees, err := s.store.Employees(context.Background())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	type member struct {
		model.Employee
		Load string `json:"load"`
	}
	members := make([]member, 0, len(employees))
	for _, emp := range employees {
		members = append(members, member{Employee: emp, Load: string(engine.LoadStatus(emp.AssignedHours))})
	}
	writeJSON(w, members)
}

func (s *Server) apiReportHandler(w http.ResponseWriter, r *http.Request) {
	collections, err := s.store.Collections(context.Background())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	payload := struct {
		Summary engine.Summary      `json:"summary"`
		Domains []engine.DomainStat `json:"domains"`
	}{
		Summary: engine.Summarize(collections),
		Domains: engine.DomainBreakdown(collections),
	}
	writeJSON(w, payload)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.Error()))
}
