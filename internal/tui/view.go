package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/itax/internal/compare"
	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/internal/tui/components"
	"github.com/rgehrsitz/itax/pkg/money"
)

// View renders the current state of the application
func (m Model) View() string {
	form := m.renderForm()
	results := m.renderResults()

	var body string
	if m.width >= 120 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, form, "  ", results)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, form, results)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		body,
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and residency status
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("itax - Old vs New Regime")
	subtitle := SubtitleStyle.Render(fmt.Sprintf("FY %s  •  %s",
		m.fields[0].value(), m.status.Description()))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle)
}

func (m Model) renderForm() string {
	var b strings.Builder
	section := ""
	for i := range m.fields {
		f := &m.fields[i]
		if f.section != section {
			section = f.section
			b.WriteString(SectionStyle.Render(section) + "\n")
		}
		b.WriteString(m.renderField(f, i == m.focus) + "\n")
	}

	b.WriteString(SectionStyle.Render("Capital Gains") + "\n")
	if len(m.rows) == 0 {
		b.WriteString(SubtitleStyle.Render("none  (ctrl+n to add)") + "\n")
	}
	for r := range m.rows {
		row := &m.rows[r]
		base := len(m.fields) + rowFields*r
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("#%d", row.id)) + "\n")
		b.WriteString(m.renderField(&row.term, m.focus == base) + "\n")
		b.WriteString(m.renderField(&row.bucket, m.focus == base+1) + "\n")
		b.WriteString(m.renderField(&row.amount, m.focus == base+2) + "\n")
	}

	return BorderStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderField(f *field, focused bool) string {
	labelStyle := FieldLabelStyle
	if focused {
		labelStyle = FocusedLabelStyle
	}
	label := labelStyle.Render(f.label)
	if !f.isChoice() {
		return label + f.input.View()
	}

	value := f.value()
	switch f.key {
	case "bucket":
		value = domain.DateBucket(value).Label()
	case keyResidency:
		if value == residencyAuto {
			value = "auto (" + string(m.status) + ")"
		}
	}
	if focused {
		value = "‹ " + value + " ›"
	}
	return label + ChoiceStyle.Render(value)
}

func (m Model) renderResults() string {
	if m.err != nil {
		return ErrorStyle.Render("Error: " + m.err.Error())
	}
	if m.result == nil {
		msg := "Enter income or a capital gain to compare regimes."
		if m.computing {
			msg = "Calculating..."
		}
		return BorderStyle.Render(SubtitleStyle.Render(msg))
	}

	r := m.result
	width := m.width - 50
	if m.width < 120 {
		width = m.width
	}

	cheaper := r.Cheaper.Label()
	verdict := components.SavingsCard(cheaper, r.Difference, r.Cheaper == domain.RegimeEither).WithWidth(width/2 - 1)
	best := r.Result(domain.RegimeNew)
	if r.Cheaper == domain.RegimeOld {
		best = r.Result(domain.RegimeOld)
	}
	effective := components.NewMetricCard("Effective rate", money.EffectiveRate(best.TotalTax, r.GrossTotalIncome).StringFixed(2)+"%").
		WithDescription("Gross total income " + FormatCurrency(r.GrossTotalIncome)).
		WithWidth(width/2 - 1)

	parts := []string{
		components.MetricRow(verdict, effective),
		components.RegimeCards(r, width, m.showDetail),
	}
	recs := compare.RegimeRecommendations(r)
	if len(recs) > 1 {
		parts = append(parts, InfoStyle.Render(strings.Join(recs[1:], "\n")))
	}
	for _, note := range r.Notes {
		parts = append(parts, InfoStyle.Render("Note: "+note))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("tab/↑↓", "move"),
		formatShortcut("←→", "choose"),
		formatShortcut("ctrl+n", "add gain"),
		formatShortcut("ctrl+d", "remove gain"),
		formatShortcut("ctrl+t", "details"),
		formatShortcut("esc", "quit"),
	}
	return StatusBarStyle.Render(strings.Join(shortcuts, " • "))
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}
