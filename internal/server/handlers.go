package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/matzehuels/lockrank/pkg/analysis"
	"github.com/matzehuels/lockrank/pkg/buildinfo"
	"github.com/matzehuels/lockrank/pkg/errors"
	"github.com/matzehuels/lockrank/pkg/pipeline"
)

// analyzeRequest is the JSON request body for POST /api/v1/analyze.
// Raw lockfile uploads skip this and send the lockfile bytes directly.
type analyzeRequest struct {
	Source  string   `json:"source,omitempty"`
	URL     string   `json:"url,omitempty"`
	Data    string   `json:"data,omitempty"` // inline lockfile content
	Dev     bool     `json:"dev,omitempty"`
	Peer    bool     `json:"peer,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`
	Formats []string `json:"formats,omitempty"`
}

// analyzeResponse is the JSON response for POST /api/v1/analyze.
// Artifacts are base64-encoded by encoding/json.
type analyzeResponse struct {
	GraphHash string             `json:"graph_hash"`
	NodeCount int                `json:"node_count"`
	EdgeCount int                `json:"edge_count"`
	Analysis  *analysis.Result   `json:"analysis"`
	Artifacts map[string][]byte  `json:"artifacts,omitempty"`
	Warnings  map[string]string  `json:"warnings,omitempty"`
	CacheInfo pipeline.CacheInfo `json:"cache_info"`
}

// errorResponse is the JSON shape of every error reply.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writePipelineError maps a pipeline failure onto an HTTP status.
func writePipelineError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLockfile,
		errors.ErrCodeUnsupportedLockfile, errors.ErrCodeInvalidFormat,
		errors.ErrCodeUnsupported:
		status = http.StatusBadRequest
	case errors.ErrCodeFileNotFound, errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		status = http.StatusBadGateway
	case errors.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: errors.UserMessage(err)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"built":   buildinfo.Date,
	})
}

// handleAnalyze runs the full pipeline for an uploaded or referenced lockfile.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	opts, err := s.parseAnalyzeRequest(r)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.logger.Error("analyze failed", "err", err, "request_id", RequestID(r.Context()))
		writePipelineError(w, err)
		return
	}

	resp := analyzeResponse{
		GraphHash: result.GraphHash,
		NodeCount: result.Stats.NodeCount,
		EdgeCount: result.Stats.EdgeCount,
		Analysis:  result.Analysis,
		Artifacts: result.Artifacts,
		CacheInfo: result.CacheInfo,
	}
	if len(result.Analysis.Errors) > 0 {
		resp.Warnings = make(map[string]string, len(result.Analysis.Errors))
		for metric, merr := range result.Analysis.Errors {
			resp.Warnings[metric] = merr.Error()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseAnalyzeRequest builds pipeline options from either a JSON request
// or a raw lockfile body, selected by Content-Type.
func (s *Server) parseAnalyzeRequest(r *http.Request) (pipeline.Options, error) {
	body := http.MaxBytesReader(nil, r.Body, maxRequestBody)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}

	rawUpload := func() pipeline.Options {
		return pipeline.Options{
			Data:    data,
			Formats: []string{pipeline.FormatJSON},
		}
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return rawUpload(), nil
	}

	var req analyzeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}

	// A package-lock.json posted as application/json also decodes cleanly
	// into the request envelope, just with no input set. Treat that as a
	// raw upload rather than rejecting it.
	if req.URL == "" && req.Data == "" {
		return rawUpload(), nil
	}

	opts := pipeline.Options{
		Source:  req.Source,
		URL:     req.URL,
		Dev:     req.Dev,
		Peer:    req.Peer,
		Refresh: req.Refresh,
		Formats: req.Formats,
	}
	if req.Data != "" {
		opts.Data = []byte(req.Data)
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatJSON}
	}
	return opts, nil
}
