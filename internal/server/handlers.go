package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/josephgoksu/TaskNest/internal/export"
	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/josephgoksu/TaskNest/models"
)

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// handleHealth reports liveness and the data location being served.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"data":   s.svc.Path(),
	})
}

// handleListTasks returns the collection, or its first ?limit= tasks.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, r, badRequest("limit must be a positive integer"))
			return
		}
		limit = n
	}
	if _, err := s.svc.Reload(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	tasks, more := s.svc.Window(limit)
	writeAPIJSON(w, http.StatusOK, TasksResponse{Tasks: tasks, More: more})
}

// handleAddTask adds a task at the front, then applies the optional title and due date.
func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req AddTaskRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	due, err := task.ParseDueDate(req.DueDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	tasks, id, err := s.svc.AddTask(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Title != "" {
		if tasks, err = s.svc.EditTitle(ctx, id, nil, req.Title); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if due != nil {
		if tasks, err = s.svc.EditDueDate(ctx, id, due); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeAPIJSON(w, http.StatusCreated, CreatedResponse{ID: id, Tasks: tasks})
}

// handleUpdateTask applies a title and/or due date change.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req UpdateTaskRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Title == nil && req.DueDate == nil {
		s.writeError(w, r, badRequest("nothing to update: set title or dueDate"))
		return
	}

	// Validate the date before any mutation so a bad request changes nothing.
	var (
		setDue  bool
		dueDate string
	)
	if req.DueDate != nil {
		setDue = true
		if !bytes.Equal(bytes.TrimSpace(req.DueDate), []byte("null")) {
			if err := json.Unmarshal(req.DueDate, &dueDate); err != nil {
				s.writeError(w, r, badRequest("dueDate must be a string or null"))
				return
			}
		}
	}
	parsed, err := task.ParseDueDate(dueDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	tasks := s.svc.Tasks()
	if req.Title != nil {
		if tasks, err = s.svc.EditTitle(ctx, taskID, nil, *req.Title); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if setDue {
		if tasks, err = s.svc.EditDueDate(ctx, taskID, parsed); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeAPIJSON(w, http.StatusOK, TasksResponse{Tasks: tasks})
}

func (s *Server) handleRemoveTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r)(s.svc.RemoveTask(r.Context(), taskID))
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r)(s.svc.ToggleComplete(r.Context(), taskID, nil))
}

func (s *Server) handleExpandTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r)(s.svc.ToggleExpand(r.Context(), taskID))
}

// handleReorderTasks rebuilds the collection from ids or titles; unlisted tasks are dropped.
func (s *Server) handleReorderTasks(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := decodeReorder(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Titles != nil {
		s.respond(w, r)(s.svc.ReorderTasksByTitle(r.Context(), req.Titles))
		return
	}
	s.respond(w, r)(s.svc.ReorderTasks(r.Context(), req.IDs))
}

// handleAddSubtask appends a subtask, then applies the optional title.
func (s *Server) handleAddSubtask(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req AddSubtaskRequest
	if err := decodeBody(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	tasks, id, err := s.svc.AddSubtask(ctx, taskID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Title != "" {
		if tasks, err = s.svc.EditTitle(ctx, taskID, &id, req.Title); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeAPIJSON(w, http.StatusCreated, CreatedResponse{ID: id, Tasks: tasks})
}

func (s *Server) handleUpdateSubtask(w http.ResponseWriter, r *http.Request) {
	taskID, subtaskID, err := pathIDs(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req UpdateSubtaskRequest
	if err := decodeBody(r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Title == nil {
		s.writeError(w, r, badRequest("title is required"))
		return
	}
	s.respond(w, r)(s.svc.EditTitle(r.Context(), taskID, &subtaskID, *req.Title))
}

func (s *Server) handleToggleSubtask(w http.ResponseWriter, r *http.Request) {
	taskID, subtaskID, err := pathIDs(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r)(s.svc.ToggleComplete(r.Context(), taskID, &subtaskID))
}

func (s *Server) handleRemoveSubtask(w http.ResponseWriter, r *http.Request) {
	taskID, subtaskID, err := pathIDs(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r)(s.svc.RemoveSubtask(r.Context(), taskID, subtaskID))
}

func (s *Server) handleReorderSubtasks(w http.ResponseWriter, r *http.Request) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req ReorderRequest
	if err := decodeReorder(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Titles != nil {
		s.respond(w, r)(s.svc.ReorderSubtasksByTitle(r.Context(), taskID, req.Titles))
		return
	}
	s.respond(w, r)(s.svc.ReorderSubtasks(r.Context(), taskID, req.IDs))
}

// handleExport streams the collection as ?format=json|csv|markdown|pdf.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(export.FormatJSON)
	}
	format, err := export.ParseFormat(raw)
	if err != nil {
		s.writeError(w, r, badRequest("%v", err))
		return
	}
	if _, err := s.svc.Reload(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, s.exportTitle, s.svc.Tasks()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="tasks%s"`, format.Extension()))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, http.StatusNotFound, ErrorResponse{Error: "no such endpoint", RequestID: RequestID(r.Context())})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeAPIJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Error:     fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path),
		RequestID: RequestID(r.Context()),
	})
}

// respond writes the result of a mutation that returns the collection.
func (s *Server) respond(w http.ResponseWriter, r *http.Request) func([]models.Task, error) {
	return func(tasks []models.Task, err error) {
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeAPIJSON(w, http.StatusOK, TasksResponse{Tasks: tasks})
	}
}

func pathID(r *http.Request, name string) (int, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return id, nil
}

func pathIDs(r *http.Request) (int, int, error) {
	taskID, err := pathID(r, "taskID")
	if err != nil {
		return 0, 0, err
	}
	subtaskID, err := pathID(r, "subtaskID")
	if err != nil {
		return 0, 0, err
	}
	return taskID, subtaskID, nil
}

// decodeBody reads a JSON body into v. An empty body is accepted only when
// optional is set.
func decodeBody(r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			if optional {
				return nil
			}
			return badRequest("request body is required")
		}
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

func decodeReorder(r *http.Request, req *ReorderRequest) error {
	if err := decodeBody(r, req, false); err != nil {
		return err
	}
	switch {
	case req.IDs != nil && req.Titles != nil:
		return badRequest("set either ids or titles, not both")
	case req.IDs == nil && req.Titles == nil:
		return badRequest("ids or titles is required")
	}
	return nil
}

// writeError maps domain errors onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, task.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, task.ErrInvalid), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err,
			"request_id", RequestID(r.Context()))
	} else {
		msg = strings.TrimPrefix(msg, errBadRequest.Error()+": ")
	}
	writeAPIJSON(w, status, ErrorResponse{Error: msg, RequestID: RequestID(r.Context())})
}

func writeAPIJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
