package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shorts-clipper/internal/model"
)

func (m studioModel) View() string {
	if m.width <= 0 {
		m.width = 100
	}
	if m.height <= 0 {
		m.height = 30
	}

	header := studioTitleStyle.Render("shorts-clipper studio") + "\n" +
		studioMutedStyle.Render("tab/up/down: move | left/right/space: change | ctrl+s: create clip | ctrl+r: refresh jobs | ctrl+n: reset | esc: quit")

	if m.width < 90 {
		form := m.renderFormPanel(m.width)
		jobs := m.renderJobsPanel(m.width)
		return lipgloss.JoinVertical(lipgloss.Left, header, form, jobs, m.renderStatusLine(m.width))
	}

	leftW := m.formWidth()
	rightW := m.width - leftW - 1
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderFormPanel(leftW), m.renderJobsPanel(rightW))
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderStatusLine(m.width))
}

func (m studioModel) formWidth() int {
	if m.width < 90 {
		return maxInt(m.width, 40)
	}
	return clampInt(m.width*3/5, 50, 80)
}

func (m studioModel) renderFormPanel(width int) string {
	d := m.session.Draft()
	fields := m.visibleFields()
	maxRows := clampInt(m.height-12, 6, len(fields))
	start, end := listWindow(len(fields), m.index, maxRows)

	lines := make([]string, 0, maxRows+8)
	if start > 0 {
		lines = append(lines, studioMutedStyle.Render("..."))
	}
	for i := start; i < end; i++ {
		f := fields[i]
		display := f.display(d)
		if i == m.index && (f.Kind == studioFieldString || f.Kind == studioFieldInt) {
			display = m.input.Value()
		}
		if strings.TrimSpace(display) == "" {
			display = studioMutedStyle.Render("(empty)")
		}
		if f.Kind == studioFieldSelect {
			display = "[" + display + "]"
		}
		line := wrapOrTrim(fmt.Sprintf("%s: %s", f.Label, display), maxInt(width-6, 12))
		if i == m.index {
			line = studioSelStyle.Width(maxInt(width-4, 6)).Render(line)
		}
		lines = append(lines, line)
	}
	if end < len(fields) {
		lines = append(lines, studioMutedStyle.Render("..."))
	}

	curr := m.currentField()
	lines = append(lines, "")
	if strings.TrimSpace(curr.Help) != "" {
		lines = append(lines, studioMutedStyle.Render(wrapOrTrim(curr.Help, maxInt(width-6, 12))))
	}
	if curr.Kind == studioFieldString || curr.Kind == studioFieldInt {
		lines = append(lines, m.input.View())
	}
	lines = append(lines, "", m.renderButton())
	return studioPanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m studioModel) renderButton() string {
	if m.session.SubmissionState().InFlight() {
		return studioIdleButton.Render("Processing...")
	}
	if m.session.CanSubmit() {
		return studioButtonStyle.Render("Create Clip")
	}
	return studioIdleButton.Render("Create Clip")
}

func (m studioModel) renderJobsPanel(width int) string {
	lines := []string{"Recent Jobs", ""}
	jobs := m.session.Jobs()
	switch {
	case len(jobs) == 0 && m.session.ListingState() == model.ListingLoading:
		lines = append(lines, studioMutedStyle.Render("Loading..."))
	case len(jobs) == 0:
		lines = append(lines, studioMutedStyle.Render("No jobs yet."))
	default:
		budget := maxInt(m.height-8, 6)
		for i, j := range jobs {
			card := m.jobCard(j)
			if i > 0 && len(lines)+len(card) > budget {
				lines = append(lines, studioMutedStyle.Render(fmt.Sprintf("... %d more", len(jobs)-i)))
				break
			}
			lines = append(lines, card...)
		}
	}
	for i := range lines {
		lines[i] = wrapOrTrim(lines[i], maxInt(width-6, 12))
	}
	return studioPanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m studioModel) jobCard(j model.JobRecord) []string {
	card := []string{lipgloss.NewStyle().Bold(true).Render(j.ID)}
	for _, line := range jobDetailLines(j, m.artifactURL) {
		card = append(card, "  "+line)
	}
	return append(card, "")
}

func (m studioModel) renderStatusLine(width int) string {
	msg := strings.TrimSpace(m.statusMessage)
	if msg == "" {
		msg = "Tip: pick a source, tune the style, then press ctrl+s."
	}
	style := studioMutedStyle
	if strings.HasPrefix(strings.ToLower(msg), "error:") {
		style = studioErrorStyle
	} else if strings.HasPrefix(strings.ToLower(msg), "job created") {
		style = studioOKStyle
	}
	return style.Width(width).Render(truncateRunes(msg, maxInt(width-2, 10)))
}
