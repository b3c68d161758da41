package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/datedmemo/datedmemo/internal/errors"
	"github.com/datedmemo/datedmemo/pkg/binder"
	"github.com/datedmemo/datedmemo/pkg/form"
	"github.com/datedmemo/datedmemo/pkg/memo"
)

// createRequest is the query the event form submits.
type createRequest struct {
	Date   string `form:"Date"`
	Memo   string `form:"Memo"`
	Offset string `form:"offset"`
}

type indexPage struct {
	Memos []memo.Memo
}

type createPage struct {
	FormID        string
	PickerID      string
	OffsetInputID string
	Offset        string
	Date          string
	Memo          string
	Fields        map[string]form.FieldState
	Icons         form.Icons
	DisplayFormat string
}

type errorPage struct {
	BadURL   string
	Message  string
	Linkback string
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		s.logger.Error("template failed", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Debug("bad request", "path", r.URL.Path, "error", err)
	msg := err.Error()
	if appErr, ok := err.(*errors.AppError); ok {
		msg = appErr.Message
		if appErr.Detail != "" {
			msg += ". " + appErr.Detail
		}
	}
	s.render(w, http.StatusBadRequest, "bad_request", errorPage{
		BadURL:   r.URL.String(),
		Message:  msg,
		Linkback: "/create",
	})
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	s.render(w, http.StatusInternalServerError, "server_error", errorPage{
		BadURL:   r.URL.String(),
		Linkback: "/",
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("main page entry")
	memos, err := s.store.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, http.StatusOK, "index", indexPage{Memos: memos})
}

// viewerZone reads ?offset=, falling back to the server zone.
func (s *Server) viewerZone(r *http.Request) (*time.Location, error) {
	raw := r.URL.Query().Get("offset")
	if raw == "" {
		return s.loc, nil
	}
	offset, err := memo.ParseOffset(raw)
	if err != nil {
		return nil, err
	}
	return memo.ZoneForOffset(offset), nil
}

func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	loc, err := s.viewerZone(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	b := binder.New(
		binder.WithClock(s.clock),
		binder.WithLocation(loc),
		binder.WithLogger(s.logger),
	)
	if err := b.Bind(); err != nil {
		s.serverError(w, r, err)
		return
	}

	st := b.Snapshot()
	fields := make(map[string]form.FieldState, len(st.Fields))
	for _, f := range st.Fields {
		fields[f.Field] = f
	}
	s.render(w, http.StatusOK, "create", createPage{
		FormID:        binder.FormID,
		PickerID:      binder.PickerID,
		OffsetInputID: binder.OffsetInputID,
		Offset:        b.HiddenOffset(),
		Date:          st.Date,
		Memo:          st.Memo,
		Fields:        fields,
		Icons:         b.Form().Icons(),
		DisplayFormat: binder.DisplayFormat,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := s.decoder.Decode(&req, r.URL.Query()); err != nil {
		s.badRequest(w, r, err)
		return
	}

	offset, err := memo.ParseOffset(req.Offset)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	date, err := memo.ParseEntry(req.Date, offset)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	m := memo.New(date, req.Memo, s.clock)
	s.logger.Debug("creating memo",
		"id", m.ID,
		"date", req.Date,
		"zone", memo.Timezoned(offset))
	if err := s.store.Put(r.Context(), m); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		s.badRequest(w, r, errors.New("E302"))
		return
	}

	s.logger.Debug("deleting memo", "id", id)
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("page not found", "path", r.URL.Path)
	s.render(w, http.StatusNotFound, "page_not_found", errorPage{
		BadURL:   r.URL.Path,
		Linkback: "/",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
