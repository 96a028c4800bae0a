package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/tablekit/internal/catalog"
	"github.com/JonMunkholm/tablekit/internal/export"
	"github.com/JonMunkholm/tablekit/internal/logging"
	"github.com/JonMunkholm/tablekit/internal/source"
	"github.com/JonMunkholm/tablekit/internal/table"
	"github.com/JonMunkholm/tablekit/internal/web/views"
)

// groupListing is one group of the dataset listing.
type groupListing struct {
	Group    string         `json:"group"`
	Datasets []catalog.Info `json:"datasets"`
}

func listGroups() []groupListing {
	var out []groupListing
	for _, g := range catalog.Groups() {
		gl := groupListing{Group: g}
		for _, def := range catalog.ByGroup(g) {
			gl.Datasets = append(gl.Datasets, def.Info)
		}
		out = append(out, gl)
	}
	return out
}

// handleListTables returns the datasets by group.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"groups": listGroups(),
		"count":  catalog.Count(),
	})
}

// handleHealth reports liveness and which datasets are loaded.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"open":    s.store.Open(),
		"exports": s.exports.status(),
	})
}

// withView parses the request's view query, loads the dataset and runs fn
// with the query applied as host-controlled state.
func (s *Server) withView(r *http.Request, fn func(*catalog.Instance, *table.Table[source.Record], *viewQuery) error) error {
	q, err := parseViewQuery(r.URL.Query(), s.limits)
	if err != nil {
		return err
	}
	inst, err := s.store.Instance(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		return err
	}
	return inst.View(func(tbl *table.Table[source.Record]) error {
		st, err := q.state(tbl)
		if err != nil {
			return err
		}
		if err := tbl.SetOptions(func(o table.Options[source.Record]) table.Options[source.Record] {
			o.State = st
			return o
		}); err != nil {
			return err
		}
		return fn(inst, tbl, q)
	})
}

// handleRows returns one page of a dataset as JSON.
func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	var v views.Table
	err := s.withView(r, func(inst *catalog.Instance, tbl *table.Table[source.Record], q *viewQuery) error {
		v = buildView(inst, tbl, q, false)
		return nil
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

// handleExport streams the dataset's rows in the requested format. The view
// query applies, except pagination: every filtered row is exported, or every
// row with all=1.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = s.exportFormat
	}
	if !export.Supported(format) {
		s.respondError(w, r, export.ErrUnsupportedFormat)
		return
	}
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))

	exportID := uuid.New()
	logger := logging.WithFields(r.Context(),
		"dataset", chi.URLParam(r, "key"),
		"format", format,
		"all", all,
		"export_id", exportID,
	)

	if err := s.exports.acquire(r.Context()); err != nil {
		s.respondError(w, r, err)
		return
	}
	defer s.exports.release()

	var file *table.ExportFile
	err := s.withView(r, func(_ *catalog.Instance, tbl *table.Table[source.Record], _ *viewQuery) error {
		var err error
		file, err = tbl.ExportData(table.ExportRequest{All: all, FileType: format})
		return err
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Header().Set("X-Export-Id", exportID.String())
	if _, err := w.Write(file.Data); err != nil {
		logger.Error("export write failed", "error", err)
		return
	}
	logger.Info("export served", "file", file.Name, "bytes", len(file.Data))
}

// handleReload drops the cached dataset so the next request reloads it.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if _, ok := catalog.Get(key); !ok {
		s.respondError(w, r, fmt.Errorf("%w: %s", catalog.ErrNotFound, key))
		return
	}
	s.store.Reload(key)
	logging.FromContext(r.Context()).Info("dataset reload requested", "dataset", key)
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "reloaded", "dataset": key})
}

// handleIndex renders the dataset listing.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var groups []views.Group
	for _, g := range listGroups() {
		groups = append(groups, views.Group{Name: g.Group, Datasets: g.Datasets})
	}
	s.render(w, r, views.Index(groups))
}

// handleTablePage renders one page of a dataset as HTML.
func (s *Server) handleTablePage(w http.ResponseWriter, r *http.Request) {
	var v views.Table
	err := s.withView(r, func(inst *catalog.Instance, tbl *table.Table[source.Record], q *viewQuery) error {
		v = buildView(inst, tbl, q, true)
		return nil
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.render(w, r, views.TablePage(v))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
	}
}

// writeJSON encodes v as JSON. Encoding errors are logged since the header
// is already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
