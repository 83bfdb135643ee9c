package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/theirongolddev/budgetmon/internal/config"
	"github.com/theirongolddev/budgetmon/internal/input"
	"github.com/theirongolddev/budgetmon/internal/model"
	"github.com/theirongolddev/budgetmon/internal/report"
)

// RatesResponse is served at /v1/rates.
type RatesResponse struct {
	LaborWorker float64              `json:"labor_worker"`
	LaborOffice float64              `json:"labor_office"`
	Machines    []config.MachineRate `json:"machines"`
	Categories  []model.Category     `json:"categories"`
}

// EvaluateResponse is served at /v1/evaluate.
type EvaluateResponse struct {
	Project input.ProjectSection `json:"project"`
	Result  model.Result         `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleRates(w http.ResponseWriter, _ *http.Request) {
	rt := s.cfg.Rates
	writeJSON(w, http.StatusOK, RatesResponse{
		LaborWorker: rt.LaborWorker(),
		LaborOffice: rt.LaborOffice(),
		Machines:    rt.Machines(),
		Categories:  rt.Categories(),
	})
}

func (s *Service) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	pf, ok := s.decodeProject(w, r)
	if !ok {
		return
	}
	_, res, err := s.evaluate(pf)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, EvaluateResponse{Project: pf.Project, Result: res})
}

func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {
	pf, ok := s.decodeProject(w, r)
	if !ok {
		return
	}
	p, res, err := s.evaluate(pf)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, p.Info, res); err != nil {
		s.recordError(err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.exports.Add(1)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.ReportFileName(p.Info.Name)))
	_, _ = w.Write(buf.Bytes())
}

func (s *Service) decodeProject(w http.ResponseWriter, r *http.Request) (input.ProjectFile, bool) {
	var pf input.ProjectFile
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&pf); err != nil {
		err = fmt.Errorf("decoding project: %w", err)
		s.recordError(err)
		writeError(w, http.StatusBadRequest, err)
		return pf, false
	}
	return pf, true
}

func statusFor(err error) int {
	if errors.Is(err, input.ErrUnknownCategory) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
