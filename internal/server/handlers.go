package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/upskill-roadmap/internal/document"
	"github.com/jonathan/upskill-roadmap/internal/pipeline"
	"github.com/jonathan/upskill-roadmap/internal/server/middleware"
	"github.com/jonathan/upskill-roadmap/internal/types"
)

// multipartMemory is how much of a multipart body is buffered in memory before spilling to disk.
const multipartMemory = 8 << 20

// RoadmapListResponse is the body of GET /user/roadmaps
type RoadmapListResponse struct {
	Roadmaps []types.Roadmap `json:"roadmaps"`
}

// AnalysisListResponse is the body of GET /user/analyses
type AnalysisListResponse struct {
	Analyses []types.JdAnalysis `json:"analyses"`
}

// principal returns the authenticated user; AuthMiddleware guarantees one on protected routes.
func principal(r *http.Request) (uuid.UUID, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return uuid.Nil, &types.AuthError{Message: "missing principal", Cause: err}
	}
	return userID, nil
}

// handleAnalyzeJD accepts multipart jd_text plus an optional resume file
func (s *Server) handleAnalyzeJD(w http.ResponseWriter, r *http.Request) {
	owner, err := principal(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	err = r.ParseMultipartForm(multipartMemory)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, s.logger, &types.InputError{Message: fmt.Sprintf("request exceeds %d bytes", tooLarge.Limit)})
		return
	case errors.Is(err, http.ErrNotMultipart):
		// url-encoded forms carry jd_text only
	case err != nil:
		writeError(w, s.logger, &types.InputError{Message: "expected multipart/form-data with jd_text"})
		return
	}

	req := pipeline.AnalyzeRequest{
		JDText: r.PostFormValue("jd_text"),
		Owner:  owner,
	}

	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		upload, err := readUpload(r, "resume")
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
		req.Resume = upload
	}

	analysis, err := s.pipeline.Analyze(r.Context(), req)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, analysis)
}

// readUpload returns the named file part, or nil when the form has none.
func readUpload(r *http.Request, field string) (*document.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, &types.InputError{Field: field, Message: "unreadable file part"}
	}
	defer func() { _ = file.Close() }()

	// browsers send an empty, unnamed part when no file was chosen
	if header.Filename == "" && header.Size == 0 {
		return nil, nil
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &types.InputError{Field: field, Message: "unreadable file part"}
	}
	return &document.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (s *Server) handleGenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	owner, err := principal(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	var req types.GenerateRoadmapRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, &types.InputError{Message: "invalid request body"})
		return
	}
	if err := s.validator.Struct(req); err != nil {
		writeError(w, s.logger, validationError(err))
		return
	}

	roadmap, err := s.pipeline.GenerateRoadmap(r.Context(), req.JDID, owner)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusCreated, roadmap)
}

func (s *Server) handleListRoadmaps(w http.ResponseWriter, r *http.Request) {
	owner, err := principal(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	roadmaps, err := s.pipeline.ListRoadmaps(r.Context(), owner)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, RoadmapListResponse{Roadmaps: roadmaps})
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	owner, err := principal(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	analyses, err := s.pipeline.ListAnalyses(r.Context(), owner)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, AnalysisListResponse{Analyses: analyses})
}

func (s *Server) handleGetRoadmap(w http.ResponseWriter, r *http.Request) {
	owner, err := principal(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	roadmap, err := s.pipeline.GetRoadmap(r.Context(), r.PathValue("id"), owner)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, roadmap)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	owner, err := principal(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	analysis, err := s.pipeline.GetAnalysis(r.Context(), r.PathValue("id"), owner)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, analysis)
}
