package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/itax/internal/calculation"
	"github.com/rgehrsitz/itax/internal/config"
	"github.com/rgehrsitz/itax/internal/domain"
)

// DebounceInterval is the quiet period after an edit before recomputing.
const DebounceInterval = 500 * time.Millisecond

const (
	keyFiscalYear    = "fiscal_year"
	keyAgeBand       = "age_band"
	keyMetro         = "metro"
	keyPreferred     = "preferred_regime"
	keyResidency     = "residency_status"
	keyDaysCurrent   = "days_current_fy"
	keyDaysPrev4     = "days_prev_4_fy"
	keyDaysPrev7     = "days_prev_7_fy"
	keyResident2of10 = "resident_2_of_10"

	residencyAuto = "auto"
	choiceNone    = "none"
	choiceYes     = "yes"
	choiceNo      = "no"
)

// amountKeys lists the income and deduction inputs in form order.
var amountKeys = []struct {
	key, label, section string
}{
	{"gross_salary", "Gross salary", "Income"},
	{"other_income", "Other income", "Income"},
	{"house_property", "House property income", "Income"},
	{"hra_received", "HRA received", "Income"},
	{"rent_paid", "Rent paid", "Income"},
	{"home_loan_interest_self_occupied", "Home loan interest (self)", "Income"},
	{"home_loan_interest_let_out", "Home loan interest (let out)", "Income"},
	{"sec_80c", "80C investments", "Deductions"},
	{"nps_employee", "NPS 80CCD(1B)", "Deductions"},
	{"nps_employer", "Employer NPS 80CCD(2)", "Deductions"},
	{"sec_80d", "80D health insurance", "Deductions"},
	{"sec_80e", "80E education loan", "Deductions"},
	{"sec_80g", "80G donations", "Deductions"},
	{"sec_80tta", "Savings interest", "Deductions"},
}

// field is one form input: free text or a fixed set of choices.
type field struct {
	key     string
	label   string
	section string
	input   textinput.Model
	options []string
	choice  int
}

func newTextField(key, label, section, placeholder string) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 16
	ti.Width = 16
	ti.Prompt = ""
	return field{key: key, label: label, section: section, input: ti}
}

func newChoiceField(key, label, section string, options []string, choice int) field {
	return field{key: key, label: label, section: section, options: options, choice: choice}
}

func (f *field) isChoice() bool { return len(f.options) > 0 }

func (f *field) value() string {
	if f.isChoice() {
		return f.options[f.choice]
	}
	return f.input.Value()
}

func (f *field) cycle(delta int) {
	n := len(f.options)
	f.choice = ((f.choice+delta)%n + n) % n
}

// setValue selects the matching option or replaces the text.
func (f *field) setValue(v string) {
	if !f.isChoice() {
		f.input.SetValue(v)
		return
	}
	for i, opt := range f.options {
		if strings.EqualFold(opt, v) {
			f.choice = i
			return
		}
	}
}

// gainRow is the form view of one transaction in the arena.
type gainRow struct {
	id     int
	term   field
	bucket field
	amount field
}

const rowFields = 3

func newGainRow(tx domain.Transaction) gainRow {
	row := gainRow{
		id:     tx.ID,
		term:   newChoiceField("term", "Term", "Capital Gains", []string{string(domain.ShortTerm), string(domain.LongTerm)}, 0),
		bucket: newChoiceField("bucket", "Sold", "Capital Gains", []string{string(domain.BucketAfterCutoff), string(domain.BucketBeforeCutoff)}, 0),
		amount: newTextField("amount", "Gain", "Capital Gains", "0"),
	}
	row.term.setValue(string(tx.Term))
	row.bucket.setValue(string(tx.Bucket))
	if !tx.Amount.IsZero() {
		row.amount.setValue(tx.Amount.String())
	}
	return row
}

// Model is the interactive regime comparator.
type Model struct {
	engine      *calculation.Engine
	profilePath string

	fields []field
	gains  *domain.TransactionList
	rows   []gainRow
	focus  int

	// seq increments on every edit
	seq       int
	computing bool
	result    *domain.ComparisonResult
	status    domain.ResidencyStatus
	err       error

	showDetail bool
	width      int
	height     int
}

// NewModel creates the form. A non-empty profilePath is loaded on start.
func NewModel(engine *calculation.Engine, profilePath string) Model {
	if engine == nil {
		engine = calculation.NewEngine(nil)
	}

	years := []string{}
	for _, fy := range engine.Rules.FiscalYears() {
		years = append(years, string(fy))
	}
	bands := []string{}
	for _, b := range domain.AgeBands {
		bands = append(bands, string(b))
	}

	fields := []field{
		newChoiceField(keyFiscalYear, "Fiscal year", "Profile", years, len(years)-1),
		newChoiceField(keyAgeBand, "Age band", "Profile", bands, 0),
		newChoiceField(keyMetro, "Metro city", "Profile", []string{choiceNo, choiceYes}, 0),
		newChoiceField(keyPreferred, "Preferred regime", "Profile", []string{choiceNone, string(domain.RegimeOld), string(domain.RegimeNew)}, 0),
		newChoiceField(keyResidency, "Residency", "Residency", []string{residencyAuto, string(domain.ResidentOrdinary), string(domain.ResidentNotOrdinary), string(domain.NonResident)}, 0),
		newTextField(keyDaysCurrent, "Days in India this FY", "Residency", "0"),
		newTextField(keyDaysPrev4, "Days in prior 4 FYs", "Residency", "0"),
		newTextField(keyDaysPrev7, "Days in prior 7 FYs", "Residency", "0"),
		newChoiceField(keyResident2of10, "Resident 2 of last 10", "Residency", []string{choiceNo, choiceYes}, 0),
	}
	for _, a := range amountKeys {
		fields = append(fields, newTextField(a.key, a.label, a.section, "0"))
	}

	m := Model{
		engine:      engine,
		profilePath: profilePath,
		fields:      fields,
		gains:       domain.NewTransactionList(),
		status:      domain.NonResident,
		width:       120,
		height:      40,
	}
	return m
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	if m.profilePath != "" {
		return loadProfileCmd(m.engine, m.profilePath)
	}
	return textinput.Blink
}

// loadProfileCmd returns a command that loads a profile file
func loadProfileCmd(engine *calculation.Engine, path string) tea.Cmd {
	return func() tea.Msg {
		parser := config.NewInputParserWithRules(engine.Rules)
		profile, err := parser.LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ProfileLoadedMsg{Profile: profile}
	}
}

// field returns the named top-level field.
func (m *Model) field(key string) *field {
	for i := range m.fields {
		if m.fields[i].key == key {
			return &m.fields[i]
		}
	}
	return nil
}

func (m *Model) focusCount() int { return len(m.fields) + rowFields*len(m.rows) }

// focused returns the focused field and, for capital gain fields, its row index.
func (m *Model) focused() (*field, int) {
	if m.focus < len(m.fields) {
		return &m.fields[m.focus], -1
	}
	idx := m.focus - len(m.fields)
	row := &m.rows[idx/rowFields]
	switch idx % rowFields {
	case 0:
		return &row.term, idx / rowFields
	case 1:
		return &row.bucket, idx / rowFields
	default:
		return &row.amount, idx / rowFields
	}
}

func (m *Model) setFocus(i int) tea.Cmd {
	n := m.focusCount()
	if n == 0 {
		return nil
	}
	if f, _ := m.focused(); f != nil && !f.isChoice() {
		f.input.Blur()
	}
	m.focus = ((i % n) + n) % n
	if f, _ := m.focused(); !f.isChoice() {
		return f.input.Focus()
	}
	return nil
}

// addGain appends a capital gains row and focuses its amount.
func (m *Model) addGain() tea.Cmd {
	tx := m.gains.Add(domain.ShortTerm, decimal.Zero, domain.BucketAfterCutoff)
	m.rows = append(m.rows, newGainRow(tx))
	return m.setFocus(len(m.fields) + rowFields*(len(m.rows)-1) + 2)
}

// removeGain deletes the row at index i from the form and the arena.
func (m *Model) removeGain(i int) tea.Cmd {
	if i < 0 || i >= len(m.rows) {
		return nil
	}
	if f, _ := m.focused(); !f.isChoice() {
		f.input.Blur()
	}
	m.gains.Remove(m.rows[i].id)
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	if m.focus >= m.focusCount() {
		m.focus = m.focusCount() - 1
	}
	return m.setFocus(m.focus)
}

// syncRow writes a form row back into the transaction arena.
func (m *Model) syncRow(i int) {
	row := m.rows[i]
	m.gains.Update(row.id, func(tx *domain.Transaction) {
		tx.Term = domain.Term(row.term.value())
		tx.Bucket = domain.DateBucket(row.bucket.value())
		tx.Amount = config.ParseAmount(row.amount.value())
	})
}

// schedule records an edit and arms the debounce timer.
func (m *Model) schedule() tea.Cmd {
	m.seq++
	seq := m.seq
	return tea.Tick(DebounceInterval, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func parseDays(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// residencyInput reads the day counts from the form.
func (m *Model) residencyInput() domain.ResidencyInput {
	return domain.ResidencyInput{
		DaysCurrentFY:   parseDays(m.field(keyDaysCurrent).value()),
		DaysPrev4FY:     parseDays(m.field(keyDaysPrev4).value()),
		DaysPrev7FY:     parseDays(m.field(keyDaysPrev7).value()),
		ResidentIn2Of10: m.field(keyResident2of10).value() == choiceYes,
	}
}

// request builds an engine request from the form. Residency is classified
// from the day counts unless an explicit status is selected.
func (m *Model) request() domain.TaxRequest {
	amount := func(key string) decimal.Decimal { return config.ParseAmount(m.field(key).value()) }

	status := calculation.ClassifyResidency(m.residencyInput())
	if v := m.field(keyResidency).value(); v != residencyAuto {
		status = domain.ResidencyStatus(v)
	}
	var preferred domain.Regime
	if v := m.field(keyPreferred).value(); v != choiceNone {
		preferred = domain.Regime(v)
	}

	return domain.TaxRequest{
		FiscalYear:      domain.FiscalYear(m.field(keyFiscalYear).value()),
		AgeBand:         domain.AgeBand(m.field(keyAgeBand).value()),
		Residency:       status,
		IsMetro:         m.field(keyMetro).value() == choiceYes,
		PreferredRegime: preferred,
		Income: domain.IncomeInputs{
			GrossSalary:                  amount("gross_salary"),
			OtherIncome:                  amount("other_income"),
			HouseProperty:                amount("house_property"),
			HomeLoanInterestSelfOccupied: amount("home_loan_interest_self_occupied"),
			HomeLoanInterestLetOut:       amount("home_loan_interest_let_out"),
			HRAReceived:                  amount("hra_received"),
			RentPaid:                     amount("rent_paid"),
			Sec80C:                       amount("sec_80c"),
			Sec80D:                       amount("sec_80d"),
			Sec80E:                       amount("sec_80e"),
			Sec80G:                       amount("sec_80g"),
			Sec80TTA:                     amount("sec_80tta"),
			NPSEmployee:                  amount("nps_employee"),
			NPSEmployer:                  amount("nps_employer"),
		},
		CapitalGains: m.gains.CapitalGains(),
	}
}

// applyProfile replaces the form contents with p.
func (m *Model) applyProfile(p *config.Profile) {
	yesNo := func(b bool) string {
		if b {
			return choiceYes
		}
		return choiceNo
	}
	days := func(n int) string {
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	}

	m.field(keyFiscalYear).setValue(p.FiscalYear)
	m.field(keyAgeBand).setValue(p.AgeBand)
	m.field(keyMetro).setValue(yesNo(p.IsMetro))
	m.field(keyPreferred).setValue(choiceNone)
	m.field(keyPreferred).setValue(p.PreferredRegime)
	m.field(keyResidency).setValue(residencyAuto)
	if status, err := domain.ParseResidencyStatus(p.Residency.Status); err == nil {
		m.field(keyResidency).setValue(string(status))
	}
	m.field(keyDaysCurrent).setValue(days(p.Residency.DaysCurrentFY))
	m.field(keyDaysPrev4).setValue(days(p.Residency.DaysPrev4FY))
	m.field(keyDaysPrev7).setValue(days(p.Residency.DaysPrev7FY))
	m.field(keyResident2of10).setValue(yesNo(p.Residency.ResidentIn2Of10))

	amounts := map[string]config.Amount{
		"gross_salary":                     p.Income.GrossSalary,
		"other_income":                     p.Income.OtherIncome,
		"house_property":                   p.Income.HouseProperty,
		"home_loan_interest_self_occupied": p.Income.HomeLoanInterestSelfOccupied,
		"home_loan_interest_let_out":       p.Income.HomeLoanInterestLetOut,
		"hra_received":                     p.Income.HRAReceived,
		"rent_paid":                        p.Income.RentPaid,
		"sec_80c":                          p.Deductions.Sec80C,
		"sec_80d":                          p.Deductions.Sec80D,
		"sec_80e":                          p.Deductions.Sec80E,
		"sec_80g":                          p.Deductions.Sec80G,
		"sec_80tta":                        p.Deductions.Sec80TTA,
		"nps_employee":                     p.Deductions.NPSEmployee,
		"nps_employer":                     p.Deductions.NPSEmployer,
	}
	for key, a := range amounts {
		v := ""
		if !a.IsZero() {
			v = a.String()
		}
		m.field(key).setValue(v)
	}

	m.gains = domain.NewTransactionList()
	m.rows = nil
	for _, tp := range p.CapitalGains {
		term, err := domain.ParseTerm(tp.Term)
		if err != nil {
			continue
		}
		bucket, err := domain.ParseDateBucket(tp.Bucket)
		if err != nil {
			continue
		}
		m.rows = append(m.rows, newGainRow(m.gains.Add(term, tp.Amount.Decimal, bucket)))
	}
	if m.focus >= m.focusCount() {
		m.focus = 0
	}
}

// compute runs the engine for the current form, or clears the result when
// there is nothing to tax.
func (m *Model) compute() tea.Cmd {
	req := m.request()
	m.status = req.Residency
	if !req.Income.HasIncome() && !req.CapitalGains.HasPositive() {
		m.result = nil
		m.err = nil
		m.computing = false
		return nil
	}

	m.computing = true
	seq := m.seq
	engine := m.engine
	return func() tea.Msg {
		result, err := engine.Compute(req)
		return ResultMsg{Seq: seq, Result: result, Err: err}
	}
}
