package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/theirongolddev/budgetmon/internal/cli"
	"github.com/theirongolddev/budgetmon/internal/input"
	"github.com/theirongolddev/budgetmon/internal/report"
)

type baseViewData struct {
	ErrorMessage string
}

type formField struct {
	Name  string
	Label string
	Value string
}

type scenarioForm struct {
	Title  string
	Fields []formField
}

type formViewData struct {
	baseViewData
	Name      string
	StartDate string
	EndDate   string
	Scenarios []scenarioForm
	Extras    []formField
	Fallback  []formField
	Rates     report.Table
}

type reportViewData struct {
	baseViewData
	Name       string
	Info       report.Table
	Summary    report.Table
	Final      report.Table
	Rates      report.Table
	Fallback   bool
	GapText    string
	OverBudget bool
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, 2)
	for _, page := range []string{"form.html", "report.html"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		pages[page] = t
	}
	return pages, nil
}

func (s *Service) renderTemplate(w http.ResponseWriter, status int, page string, data any) {
	t, ok := s.pages[page]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.log.Sugar().Errorf("render %s: %v", page, err)
	}
}

func (s *Service) handleForm(w http.ResponseWriter, _ *http.Request) {
	s.renderTemplate(w, http.StatusOK, "form.html", s.formView(input.ProjectFile{}, ""))
}

func (s *Service) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.renderTemplate(w, http.StatusBadRequest, "form.html", s.formView(input.ProjectFile{}, "Could not read the form."))
		return
	}

	pf, err := s.projectFromForm(r)
	if err != nil {
		s.recordError(err)
		s.renderTemplate(w, http.StatusBadRequest, "form.html", s.formView(pf, err.Error()))
		return
	}

	p, res, err := s.evaluate(pf)
	if err != nil {
		s.renderTemplate(w, statusFor(err), "form.html", s.formView(pf, err.Error()))
		return
	}

	s.renderTemplate(w, http.StatusOK, "report.html", reportViewData{
		Name:       p.Info.Name,
		Info:       report.ProjectInfoTable(p.Info),
		Summary:    report.SummaryTable(res),
		Final:      report.FinalTable(res.Summary),
		Rates:      report.RatesTable(s.cfg.Rates),
		Fallback:   res.Fallback,
		GapText:    cli.FormatSignedCurrency(res.Summary.GapAbs),
		OverBudget: res.Summary.OverBudget(),
	})
}

// projectFromForm reads the submitted fields. Estimated amounts and lump
// sums are free text and parse leniently. Actual quantities and extras
// must be non-negative numbers.
func (s *Service) projectFromForm(r *http.Request) (input.ProjectFile, error) {
	var pf input.ProjectFile
	pf.Project.Name = strings.TrimSpace(r.FormValue("name"))
	if err := pf.Project.StartDate.UnmarshalText([]byte(strings.TrimSpace(r.FormValue("start_date")))); err != nil {
		return pf, fmt.Errorf("start date: %w", err)
	}
	if err := pf.Project.EndDate.UnmarshalText([]byte(strings.TrimSpace(r.FormValue("end_date")))); err != nil {
		return pf, fmt.Errorf("end date: %w", err)
	}

	lenient := func(key string) (float64, error) { return input.ParseAmount(r.FormValue(key)), nil }
	strict := func(key string) (float64, error) { return input.ParseNonNegative(r.FormValue(key)) }

	machines := s.cfg.Rates.MachineNames()
	for _, sc := range []struct {
		prefix string
		title  string
		dst    *input.SnapshotSection
		parse  func(string) (float64, error)
	}{
		{"est", "estimated", &pf.Estimated, lenient},
		{"act", "actual", &pf.Actual, strict},
	} {
		read := func(dst *input.Amount, key, label string) error {
			v, err := sc.parse(key)
			if err != nil {
				return fmt.Errorf("%s %s: %w", sc.title, label, err)
			}
			*dst = input.Amount(v)
			return nil
		}
		if err := read(&sc.dst.LaborWorkerHours, sc.prefix+"_worker", "labor worker hours"); err != nil {
			return pf, err
		}
		if err := read(&sc.dst.LaborOfficeHours, sc.prefix+"_office", "labor office hours"); err != nil {
			return pf, err
		}
		if err := read(&sc.dst.MaterialCost, sc.prefix+"_material", "material cost"); err != nil {
			return pf, err
		}
		for i, name := range machines {
			var h input.Amount
			if err := read(&h, machineKey(sc.prefix, i), name+" hours"); err != nil {
				return pf, err
			}
			if h == 0 {
				continue
			}
			if sc.dst.MachineHours == nil {
				sc.dst.MachineHours = make(map[string]input.Amount)
			}
			sc.dst.MachineHours[name] = h
		}
	}

	warranty, err := strict("warranty")
	if err != nil {
		return pf, fmt.Errorf("warranty cost: %w", err)
	}
	afterwork, err := strict("afterwork")
	if err != nil {
		return pf, fmt.Errorf("afterwork cost: %w", err)
	}
	pf.Extras = input.ExtrasSection{WarrantyCost: input.Amount(warranty), AfterworkCost: input.Amount(afterwork)}

	if r.FormValue("sold_price") != "" || r.FormValue("actual_cost") != "" {
		pf.Fallback = &input.FallbackSection{
			SoldPrice:  input.Amount(input.ParseAmount(r.FormValue("sold_price"))),
			ActualCost: input.Amount(input.ParseAmount(r.FormValue("actual_cost"))),
		}
	}
	return pf, nil
}

func (s *Service) formView(pf input.ProjectFile, errMsg string) formViewData {
	val := func(a input.Amount) string {
		if a == 0 {
			return ""
		}
		return fmt.Sprintf("%.2f", a.Float())
	}
	dateVal := func(d input.Date) string {
		b, _ := d.MarshalText()
		return string(b)
	}

	scenario := func(title, prefix string, snap input.SnapshotSection) scenarioForm {
		sc := scenarioForm{Title: title, Fields: []formField{
			{Name: prefix + "_worker", Label: "Labor - Worker (hours)", Value: val(snap.LaborWorkerHours)},
			{Name: prefix + "_office", Label: "Labor - Office (hours)", Value: val(snap.LaborOfficeHours)},
		}}
		for i, name := range s.cfg.Rates.MachineNames() {
			sc.Fields = append(sc.Fields, formField{
				Name:  machineKey(prefix, i),
				Label: name + " (hours)",
				Value: val(snap.MachineHours[name]),
			})
		}
		sc.Fields = append(sc.Fields, formField{Name: prefix + "_material", Label: "Material (USD)", Value: val(snap.MaterialCost)})
		return sc
	}

	var sold, actual input.Amount
	if pf.Fallback != nil {
		sold, actual = pf.Fallback.SoldPrice, pf.Fallback.ActualCost
	}

	return formViewData{
		baseViewData: baseViewData{ErrorMessage: errMsg},
		Name:         pf.Project.Name,
		StartDate:    dateVal(pf.Project.StartDate),
		EndDate:      dateVal(pf.Project.EndDate),
		Scenarios: []scenarioForm{
			scenario("Estimated", "est", pf.Estimated),
			scenario("Actual", "act", pf.Actual),
		},
		Extras: []formField{
			{Name: "warranty", Label: "Warranty Cost (USD)", Value: val(pf.Extras.WarrantyCost)},
			{Name: "afterwork", Label: "Afterwork Cost (USD)", Value: val(pf.Extras.AfterworkCost)},
		},
		Fallback: []formField{
			{Name: "sold_price", Label: "Sold Price (USD)", Value: val(sold)},
			{Name: "actual_cost", Label: "Actual Cost (USD)", Value: val(actual)},
		},
		Rates: report.RatesTable(s.cfg.Rates),
	}
}

// machineKey names a machine's form field by its position in the rate
// table, so machine names never need to be valid or distinct field names.
func machineKey(prefix string, idx int) string {
	return prefix + "_machine_" + strconv.Itoa(idx)
}
