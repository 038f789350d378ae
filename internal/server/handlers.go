package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/usawrapco/wrapdoc/pkg/buildinfo"
	"github.com/usawrapco/wrapdoc/pkg/errors"
	"github.com/usawrapco/wrapdoc/pkg/finance"
	"github.com/usawrapco/wrapdoc/pkg/job"
	"github.com/usawrapco/wrapdoc/pkg/pipeline"
)

// Response headers set on rendered documents.
const (
	HeaderRenderID = "X-Render-ID"
	HeaderPages    = "X-Page-Count"
	HeaderCache    = "X-Cache"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	t, err := job.ParseDocType(chi.URLParam(r, "type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := pipeline.Options{
		Type:   t,
		Format: r.URL.Query().Get("format"),
		Logger: s.logger.With("request_id", middleware.GetReqID(ctx)),
	}
	opts.Refresh, _ = strconv.ParseBool(r.URL.Query().Get("refresh"))
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := pipeline.Decode(ctx, r.Body, s.maxBody)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Render(ctx, rec, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", opts.ContentType())
	h.Set("Content-Length", strconv.Itoa(len(res.Data)))
	h.Set(HeaderRenderID, res.RenderID.String())
	h.Set(HeaderPages, strconv.Itoa(res.Pages))
	if res.CacheHit {
		h.Set(HeaderCache, "HIT")
	} else {
		h.Set(HeaderCache, "MISS")
	}
	if opts.Format == pipeline.FormatPDF {
		h.Set("Content-Disposition", `inline; filename="`+res.Ref+`.pdf"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (s *Server) handleFinancials(w http.ResponseWriter, r *http.Request) {
	src, err := finance.ParseRevenueSource(r.URL.Query().Get("revenue"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := pipeline.Decode(r.Context(), r.Body, s.maxBody)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	fin, err := s.runner.Financials(rec, src)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fin)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
		if code == errors.ErrCodeInternal {
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidAmount, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidDocType, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeContentTooLarge, errors.ErrCodePageOverflow:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeExternalService, errors.ErrCodeStorage:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
