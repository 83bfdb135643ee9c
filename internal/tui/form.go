package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/budgetmon/internal/config"
	"github.com/theirongolddev/budgetmon/internal/input"
	"github.com/theirongolddev/budgetmon/internal/model"
)

// scenarioValues holds the text fields of one scenario. Machine entries
// are pointers so huh can bind to them.
type scenarioValues struct {
	Worker   string
	Office   string
	Material string
	Machines map[string]*string
}

// FormValues is the editable text form of a project.
type FormValues struct {
	Name      string
	StartDate string
	EndDate   string
	Estimated scenarioValues
	Actual    scenarioValues
	Warranty  string
	Afterwork string
	SoldPrice string
	ActualSum string

	machines []string
}

// NewFormValues seeds the form from a project. Zero amounts are left blank.
func NewFormValues(p model.Project, rt *config.RateTable) *FormValues {
	v := &FormValues{
		Name:      p.Info.Name,
		StartDate: dateText(p.Info.StartDate.IsZero(), p.Info.StartDate.Format("2006-01-02")),
		EndDate:   dateText(p.Info.EndDate.IsZero(), p.Info.EndDate.Format("2006-01-02")),
		Estimated: newScenarioValues(p.Input.Estimated, rt),
		Actual:    newScenarioValues(p.Input.Actual, rt),
		Warranty:  amountText(p.Input.Extras.WarrantyCost),
		Afterwork: amountText(p.Input.Extras.AfterworkCost),
		machines:  rt.MachineNames(),
	}
	if ls := p.Input.Fallback; ls != nil {
		v.SoldPrice = amountText(ls.SoldPrice)
		v.ActualSum = amountText(ls.ActualCost)
	}
	return v
}

func newScenarioValues(s model.Snapshot, rt *config.RateTable) scenarioValues {
	sv := scenarioValues{
		Worker:   amountText(s.LaborWorkerHours),
		Office:   amountText(s.LaborOfficeHours),
		Material: amountText(s.MaterialCost),
		Machines: make(map[string]*string),
	}
	for _, name := range rt.MachineNames() {
		text := amountText(s.Hours(name))
		sv.Machines[name] = &text
	}
	return sv
}

func amountText(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func dateText(zero bool, s string) string {
	if zero {
		return ""
	}
	return s
}

// Project converts the form back into a project. Estimated and lump sum
// amounts parse leniently; actual amounts were validated by the form.
func (v *FormValues) Project() (model.Project, error) {
	var start, end input.Date
	if err := start.UnmarshalText([]byte(strings.TrimSpace(v.StartDate))); err != nil {
		return model.Project{}, fmt.Errorf("start date: %w", err)
	}
	if err := end.UnmarshalText([]byte(strings.TrimSpace(v.EndDate))); err != nil {
		return model.Project{}, fmt.Errorf("end date: %w", err)
	}

	p := model.Project{
		Info: model.ProjectInfo{
			Name:      strings.TrimSpace(v.Name),
			StartDate: start.Time,
			EndDate:   end.Time,
		},
		Input: model.EvaluationInput{
			Estimated: v.Estimated.snapshot(v.machines),
			Actual:    v.Actual.snapshot(v.machines),
			Extras: model.Extras{
				WarrantyCost:  input.ParseAmount(v.Warranty),
				AfterworkCost: input.ParseAmount(v.Afterwork),
			},
		},
	}
	if strings.TrimSpace(v.SoldPrice) != "" || strings.TrimSpace(v.ActualSum) != "" {
		p.Input.Fallback = &model.LumpSum{
			SoldPrice:  input.ParseAmount(v.SoldPrice),
			ActualCost: input.ParseAmount(v.ActualSum),
		}
	}
	return p, nil
}

func (sv scenarioValues) snapshot(machines []string) model.Snapshot {
	s := model.Snapshot{
		LaborWorkerHours: input.ParseAmount(sv.Worker),
		LaborOfficeHours: input.ParseAmount(sv.Office),
		MaterialCost:     input.ParseAmount(sv.Material),
	}
	for _, name := range machines {
		ptr := sv.Machines[name]
		if ptr == nil {
			continue
		}
		if h := input.ParseAmount(*ptr); h != 0 {
			if s.MachineHours == nil {
				s.MachineHours = make(map[string]float64)
			}
			s.MachineHours[name] = h
		}
	}
	return s
}

func validateNonNegative(s string) error {
	_, err := input.ParseNonNegative(s)
	return err
}

func validateDate(s string) error {
	var d input.Date
	return d.UnmarshalText([]byte(strings.TrimSpace(s)))
}

func freeAmount(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("0.00").
		Value(value)
}

func constrainedAmount(title string, value *string) *huh.Input {
	return freeAmount(title, value).Validate(validateNonNegative)
}

// NewProjectForm builds the project editor. The form writes into v.
func NewProjectForm(v *FormValues) *huh.Form {
	estFields := []huh.Field{
		freeAmount("Labor - Worker (hours)", &v.Estimated.Worker),
		freeAmount("Labor - Office (hours)", &v.Estimated.Office),
	}
	actFields := []huh.Field{
		constrainedAmount("Labor - Worker (hours)", &v.Actual.Worker),
		constrainedAmount("Labor - Office (hours)", &v.Actual.Office),
	}
	for _, name := range v.machines {
		estFields = append(estFields, freeAmount(name+" (hours)", v.Estimated.Machines[name]))
		actFields = append(actFields, constrainedAmount(name+" (hours)", v.Actual.Machines[name]))
	}
	estFields = append(estFields, freeAmount("Material (USD)", &v.Estimated.Material))
	actFields = append(actFields, constrainedAmount("Material (USD)", &v.Actual.Material))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(&v.Name),
			huh.NewInput().Title("Start Date").Placeholder("YYYY-MM-DD").Value(&v.StartDate).Validate(validateDate),
			huh.NewInput().Title("End Date").Placeholder("YYYY-MM-DD").Value(&v.EndDate).Validate(validateDate),
		).Title("Project Information"),

		huh.NewGroup(estFields...).
			Title("Estimated").
			Description("Hours per category and material cost."),

		huh.NewGroup(actFields...).
			Title("Actual").
			Description("Non-negative numbers only."),

		huh.NewGroup(
			constrainedAmount("Warranty Cost (USD)", &v.Warranty),
			constrainedAmount("Afterwork Cost (USD)", &v.Afterwork),
		).Title("Extras").Description("Actual-only costs, not part of any category."),

		huh.NewGroup(
			freeAmount("Sold Price (USD)", &v.SoldPrice),
			freeAmount("Actual Cost (USD)", &v.ActualSum),
		).Title("Lump Sums").Description("Used only when no category data was entered."),
	).WithTheme(huh.ThemeBase16()).WithShowHelp(true)
}
