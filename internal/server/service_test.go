package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"

	"github.com/theirongolddev/budgetmon/internal/config"
	"github.com/theirongolddev/budgetmon/internal/model"
	"github.com/theirongolddev/budgetmon/internal/report"
)

const scenarioJSON = `{
  "project": {"name": "Hull Mould", "start_date": "2026-03-01", "end_date": "2026-04-15"},
  "estimated": {"labor_worker_hours": 10, "labor_office_hours": 5, "machine_hours": {"CNC": 2}, "material_cost": "100"},
  "actual": {"labor_worker_hours": 12, "labor_office_hours": 5, "machine_hours": {"CNC": 3}, "material_cost": 95.5},
  "extras": {"warranty_cost": 20, "afterwork_cost": 10}
}`

func newTestService(t *testing.T) *Service {
	t.Helper()
	rt, err := config.NewRateTable(13.41, 31.25, []config.MachineRate{{Name: "CNC", Rate: 18.33}})
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(Config{Rates: rt})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func do(t *testing.T, h http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresRates(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("New without rates err = nil, want error")
	}
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestService(t).Handler(), http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Fatalf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestRates(t *testing.T) {
	rec := do(t, newTestService(t).Handler(), http.MethodGet, "/v1/rates", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got RatesResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	want := RatesResponse{
		LaborWorker: 13.41,
		LaborOffice: 31.25,
		Machines:    []config.MachineRate{{Name: "CNC", Rate: 18.33}},
		Categories:  []model.Category{model.LaborWorker, model.LaborOffice, model.Material, "CNC"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rates mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluate(t *testing.T) {
	s := newTestService(t)
	rec := do(t, s.Handler(), http.MethodPost, "/v1/evaluate", "application/json", scenarioJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got EvaluateResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Project.Name != "Hull Mould" {
		t.Errorf("project name = %q", got.Project.Name)
	}
	sum := got.Result.Summary
	if sum.EstimatedTotal != 427.01 || sum.ActualTotalFull != 497.66 || sum.GapPct != 16.55 {
		t.Errorf("summary = %+v", sum)
	}
	if got.Result.Fallback {
		t.Error("Fallback = true, want false")
	}
	if len(got.Result.Variance) != 4 {
		t.Errorf("len(Variance) = %d, want 4", len(got.Result.Variance))
	}

	if n := s.snapshotStatus().Evaluations; n != 1 {
		t.Errorf("Evaluations = %d, want 1", n)
	}
}

func TestEvaluate_UnknownCategory(t *testing.T) {
	s := newTestService(t)
	body := strings.Replace(scenarioJSON, `"machine_hours": {"CNC": 3}`, `"machine_hours": {"Laser": 3}`, 1)
	rec := do(t, s.Handler(), http.MethodPost, "/v1/evaluate", "application/json", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Laser") {
		t.Fatalf("body = %s, want unknown name", rec.Body.String())
	}

	st := s.snapshotStatus()
	if st.Evaluations != 0 || st.LastError == "" {
		t.Fatalf("status = %+v, want no evaluations and a last error", st)
	}
}

func TestEvaluate_MalformedJSON(t *testing.T) {
	rec := do(t, newTestService(t).Handler(), http.MethodPost, "/v1/evaluate", "application/json", `{"project":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEvaluate_Fallback(t *testing.T) {
	body := `{"project": {"name": "Quote"}, "fallback": {"sold_price": 500, "actual_cost": 600}}`
	rec := do(t, newTestService(t).Handler(), http.MethodPost, "/v1/evaluate", "application/json", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got EvaluateResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if !got.Result.Fallback || got.Result.Summary.GapAbs != 100 || got.Result.Summary.GapPct != 20 {
		t.Fatalf("result = %+v, want fallback gap 100 / 20%%", got.Result)
	}
}

func TestExport(t *testing.T) {
	s := newTestService(t)
	rec := do(t, s.Handler(), http.MethodPost, "/v1/export", "application/json", scenarioJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Hull_Mould_report.xlsx") {
		t.Fatalf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	if diff := cmp.Diff([]string{report.SheetProjectInfo, report.SheetCostSummary, report.SheetFinal}, f.GetSheetList()); diff != "" {
		t.Fatalf("sheets mismatch (-want +got):\n%s", diff)
	}
	if n := s.snapshotStatus().Exports; n != 1 {
		t.Fatalf("Exports = %d, want 1", n)
	}
}

func TestForm(t *testing.T) {
	rec := do(t, newTestService(t).Handler(), http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`name="est_machine_0"`, `name="act_machine_0"`, `name="warranty"`, "Fixed Unit Costs", "$18.33/h"} {
		if !strings.Contains(body, want) {
			t.Errorf("form missing %q", want)
		}
	}
}

func TestFormSubmit(t *testing.T) {
	form := url.Values{
		"name":            {"Hull Mould"},
		"start_date":      {"2026-03-01"},
		"est_worker":      {"10"},
		"est_office":      {"5"},
		"est_machine_0":   {"2"},
		"est_material":    {"$100"},
		"act_worker":      {"12"},
		"act_office":      {"5"},
		"act_machine_0":   {"3"},
		"act_material":    {"95.50"},
		"warranty":        {"20"},
		"afterwork":       {""},
	}
	rec := do(t, newTestService(t).Handler(), http.MethodPost, "/", "application/x-www-form-urlencoded", form.Encode())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"Report: Hull Mould", "$427.01", "$487.66", "2026-03-01", "Cost Summary"} {
		if !strings.Contains(body, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestFormSubmit_ActualMustBeNonNegative(t *testing.T) {
	tests := []struct {
		field, value, wantMsg string
	}{
		{"act_worker", "-3", "actual labor worker hours"},
		{"act_machine_0", "lots", "actual CNC hours"},
		{"act_material", "-0.01", "actual material cost"},
		{"afterwork", "not a number", "afterwork cost"},
		{"warranty", "-20", "warranty cost"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			form := url.Values{"name": {"x"}, "est_worker": {"-1"}, tt.field: {tt.value}}
			rec := do(t, newTestService(t).Handler(), http.MethodPost, "/", "application/x-www-form-urlencoded", form.Encode())
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Fatalf("body missing %q", tt.wantMsg)
			}
		})
	}
}

func TestFormSubmit_SimilarMachineNames(t *testing.T) {
	rt, err := config.NewRateTable(10, 10, []config.MachineRate{
		{Name: "Laser Cutter", Rate: 20},
		{Name: "laser_cutter", Rate: 30},
	})
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(Config{Rates: rt})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(url.Values{
		"act_machine_0": {"1"},
		"act_machine_1": {"2"},
	}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := req.ParseForm(); err != nil {
		t.Fatal(err)
	}

	pf, err := s.projectFromForm(req)
	if err != nil {
		t.Fatalf("projectFromForm: %v", err)
	}
	if got := pf.Actual.MachineHours; got["Laser Cutter"] != 1 || got["laser_cutter"] != 2 {
		t.Fatalf("MachineHours = %v, want Laser Cutter=1 laser_cutter=2", got)
	}
}

func TestFormSubmit_BadDate(t *testing.T) {
	form := url.Values{"name": {"x"}, "end_date": {"15/04/2026"}}
	rec := do(t, newTestService(t).Handler(), http.MethodPost, "/", "application/x-www-form-urlencoded", form.Encode())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "end date") {
		t.Fatalf("body missing error message")
	}
}

func TestStatus(t *testing.T) {
	s := newTestService(t)
	do(t, s.Handler(), http.MethodPost, "/v1/evaluate", "application/json", scenarioJSON)

	rec := do(t, s.Handler(), http.MethodGet, "/v1/status", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var st Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.InstanceID == "" {
		t.Fatal("InstanceID is empty")
	}
	if st.Evaluations != 1 {
		t.Fatalf("Evaluations = %d, want 1", st.Evaluations)
	}
	if diff := cmp.Diff([]string{"CNC"}, st.Machines); diff != "" {
		t.Fatalf("Machines mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	rt := config.DefaultRateTable()
	s, err := New(Config{Addr: "127.0.0.1:0", Rates: rt})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	s, err := New(Config{Addr: ln.Addr().String(), Rates: config.DefaultRateTable()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Run(context.Background()); err == nil {
		t.Fatal("Run on a busy address err = nil, want error")
	}
}
