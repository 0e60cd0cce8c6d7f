package devserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/me/eduportal/pkg/model"
)

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	subjects := append([]model.Subject(nil), s.catalog.subjects...)
	s.mu.Unlock()
	respondOK(w, map[string]any{"subjects": subjects})
}

func (s *Server) handleListGrades(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	grades := append([]model.Grade(nil), s.catalog.grades...)
	s.mu.Unlock()
	respondOK(w, map[string]any{"grades": grades})
}

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	lessons := s.catalog.filterLessons(q.Get("subject"), q.Get("grade"))
	s.mu.Unlock()
	respondOK(w, map[string]any{"lessons": lessons})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Count <= 0 {
		req.Count = 3
	}
	if req.Count > maxGenerateCount {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("count must be at most %d", maxGenerateCount))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subj, ok := s.catalog.subject(req.Subject)
	if !ok {
		respondError(w, http.StatusNotFound, model.NewNotFoundError("Subject", req.Subject).Message)
		return
	}
	grade, ok := s.catalog.grade(req.Grade)
	if !ok {
		respondError(w, http.StatusNotFound, model.NewNotFoundError("Grade", req.Grade).Message)
		return
	}

	lessons := s.catalog.plan(subj, grade, req.Count)
	created := 0
	if !req.DryRun {
		s.catalog.lessons = append(s.catalog.lessons, lessons...)
		created = len(lessons)
	}
	s.logger.Info("curriculum generated", "subject", subj.ID, "grade", grade.ID, "dry_run", req.DryRun, "lessons", len(lessons))

	respondOK(w, map[string]any{
		"dryRun":  req.DryRun,
		"created": created,
		"lessons": lessons,
	})
}

// ownerAllowed reports whether caller may read data for role/id: admins
// may read anything, everyone else only their own.
func ownerAllowed(caller *account, role model.Role, id string) bool {
	if caller.Role == model.RoleAdmin {
		return true
	}
	return caller.Role == role && caller.ID == id
}

func (s *Server) handleAssignments(w http.ResponseWriter, r *http.Request) {
	role := model.Role(chi.URLParam(r, "role"))
	id := chi.URLParam(r, "id")
	if !role.Valid() {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown role %q", role))
		return
	}
	if !ownerAllowed(callerFromContext(r.Context()), role, id) {
		respondError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	status := "assigned"
	if role == model.RoleTeacher {
		status = "published"
	}
	respondOK(w, map[string]any{"assignments": []model.Assignment{
		{ID: "asg_" + id + "_1", Title: "Fractions practice", Subject: "math", DueDate: "2026-11-02", Status: status},
		{ID: "asg_" + id + "_2", Title: "Plant life cycle", Subject: "science", DueDate: "2026-11-09", Status: status},
	}})
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	role := model.Role(chi.URLParam(r, "role"))
	id := chi.URLParam(r, "id")
	if !role.Valid() {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown role %q", role))
		return
	}
	if !ownerAllowed(callerFromContext(r.Context()), role, id) {
		respondError(w, http.StatusForbidden, "Insufficient permissions")
		return
	}

	respondOK(w, map[string]any{"items": []model.LibraryItem{
		{ID: "lib_1", Title: "Times tables poster", Kind: "printable", URL: "/library/times-tables.pdf"},
		{ID: "lib_2", Title: "Reading log", Kind: "worksheet", URL: "/library/reading-log.pdf"},
	}})
}
