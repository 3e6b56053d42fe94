package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/itfstack/pkg/errors"
	itfio "github.com/matzehuels/itfstack/pkg/io"
	"github.com/matzehuels/itfstack/pkg/pipeline"
	"github.com/matzehuels/itfstack/pkg/render/dot"
	"github.com/matzehuels/itfstack/pkg/stack"
	"github.com/matzehuels/itfstack/pkg/store"
)

type validateResponse struct {
	Valid   bool            `json:"valid"`
	Summary *itfio.Summary  `json:"summary,omitempty"`
	Errors  []itfio.Problem `json:"errors,omitempty"`
}

type createResponse struct {
	ID      string        `json:"id"`
	Summary itfio.Summary `json:"summary"`
}

type pathResponse struct {
	From      string      `json:"from"`
	To        string      `json:"to"`
	Connected bool        `json:"connected"`
	Vias      []itfio.Via `json:"vias"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	if !res.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, validateResponse{Errors: itfio.FromErrors(res.Errors)})
		return
	}
	sum := itfio.FromSummary(res.Stack.Summary())
	writeJSON(w, http.StatusOK, validateResponse{Valid: true, Summary: &sum})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	res, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	if !res.OK() {
		writeErrors(w, http.StatusUnprocessableEntity, res.Errors)
		return
	}

	var buf bytes.Buffer
	if err := itfio.WriteJSON(res.Stack, &buf); err != nil {
		writeError(w, errors.Wrap(errors.KindInternal, err, "encode stack"))
		return
	}
	rec := &store.Record{
		Technology: res.Stack.Technology().Name,
		SourceHash: res.Hash,
		Document:   buf.Bytes(),
	}
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.logger.Error("store put failed", "err", err)
		writeError(w, errors.Wrap(errors.KindInternal, err, "store stack"))
		return
	}

	w.Header().Set("Location", "/v1/stacks/"+rec.ID)
	writeJSON(w, http.StatusCreated, createResponse{
		ID:      rec.ID,
		Summary: itfio.FromSummary(res.Stack.Summary()),
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadStack(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, itfio.FromStack(st))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadStack(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, itfio.FromSummary(st.Summary()))
}

func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadStack(w, r)
	if !ok {
		return
	}
	out := make([]itfio.Layer, 0, len(st.Layers()))
	for _, l := range st.Layers() {
		out = append(out, itfio.FromLayer(st, l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLayer(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadStack(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	if err := errors.ValidateName(name); err != nil {
		writeError(w, err)
		return
	}
	l, found := st.FindLayer(name)
	if !found {
		writeError(w, errors.New(errors.KindNotFound, "layer %q not found", name))
		return
	}
	writeJSON(w, http.StatusOK, itfio.FromLayer(st, l))
}

func (s *Server) handleVias(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadStack(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viaList(st.Vias()))
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadStack(w, r)
	if !ok {
		return
	}
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	for _, name := range []string{from, to} {
		if err := errors.ValidateName(name); err != nil {
			writeError(w, errors.New(errors.KindInvalidInput, "from and to are required layer names: %s", errors.UserMessage(err)))
			return
		}
		if _, found := st.FindLayer(name); !found {
			writeError(w, errors.New(errors.KindNotFound, "layer %q not found", name))
			return
		}
	}

	vias, connected := st.ConnectionPath(from, to)
	writeJSON(w, http.StatusOK, pathResponse{
		From:      from,
		To:        to,
		Connected: connected,
		Vias:      viaList(vias),
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	st, ok := s.loadStack(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = dot.FormatSVG
	}
	if err := dot.ValidateFormat(format); err != nil {
		writeError(w, errors.Wrap(errors.KindInvalidInput, err, "graph"))
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	data, err := dot.Render(r.Context(), dot.ToDOT(st, dot.Options{Detailed: detailed}), format)
	if err != nil {
		writeError(w, errors.Wrap(errors.KindInternal, err, "render graph"))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

var contentTypes = map[string]string{
	dot.FormatSVG: "image/svg+xml",
	dot.FormatPNG: "image/png",
	dot.FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

// parseBody reads an ITF document from the request body and parses it.
// On failure it writes the response and returns false.
func (s *Server) parseBody(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	src, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeProblem(w, http.StatusRequestEntityTooLarge, string(errors.KindInvalidInput),
				fmt.Sprintf("document exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		writeError(w, errors.Wrap(errors.KindIO, err, "read body"))
		return nil, false
	}

	res, err := s.runner.ParseSource(r.Context(), "<request>", src, pipeline.Options{})
	if err != nil {
		writeError(w, errors.Wrap(errors.KindInternal, err, "parse"))
		return nil, false
	}
	return res, true
}

// loadStack resolves the {id} URL parameter to a validated stack.
func (s *Server) loadStack(w http.ResponseWriter, r *http.Request) (*stack.Stack, bool) {
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		writeError(w, err)
		return nil, false
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	st, err := itfio.ReadJSON(bytes.NewReader(rec.Document))
	if err != nil {
		s.logger.Error("stored document is unreadable", "id", id, "err", err)
		writeError(w, errors.Wrap(errors.KindInternal, err, "load stack %s", id))
		return nil, false
	}
	return st, true
}

func viaList(vias []*stack.Via) []itfio.Via {
	out := make([]itfio.Via, 0, len(vias))
	for _, v := range vias {
		out = append(out, itfio.FromVia(v))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Errors []itfio.Problem `json:"errors"`
}

func writeErrors(w http.ResponseWriter, status int, list errors.List) {
	writeJSON(w, status, errorResponse{Errors: itfio.FromErrors(list)})
}

func writeProblem(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResponse{Errors: []itfio.Problem{{Kind: kind, Message: msg}}})
}

// writeError maps an application error to a status code by kind.
func writeError(w http.ResponseWriter, err error) {
	list, ok := errors.AsList(err)
	if !ok {
		list = errors.List{errors.Wrap(errors.KindInternal, err, "internal error")}
	}
	writeErrors(w, statusFor(errors.KindOf(list[0])), list)
}

func statusFor(kind errors.Kind) int {
	switch kind {
	case errors.KindInvalidInput:
		return http.StatusBadRequest
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindIO, errors.KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusUnprocessableEntity
}
