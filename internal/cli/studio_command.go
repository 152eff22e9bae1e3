package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shorts-clipper/internal/clipapi"
	"shorts-clipper/internal/draft"
	"shorts-clipper/internal/logging"
	"shorts-clipper/internal/model"
	"shorts-clipper/internal/studio"
)

type studioModel struct {
	ctx         context.Context
	session     *studio.Session
	artifactURL func(string) string
	fields      []studioField
	index       int
	input       textinput.Model
	width       int
	height      int

	statusMessage string
}

type studioJobsMsg struct {
	seq  uint64
	jobs []model.JobRecord
	err  error
}

type studioSubmitMsg struct {
	job model.JobRecord
	err error
}

var (
	studioTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	studioMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	studioErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	studioOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	studioPanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	studioSelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
	studioButtonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true).Padding(0, 2)
	studioIdleButton  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("236")).Padding(0, 2)
)

func runStudio(args []string) error {
	fs := flag.NewFlagSet("studio", flag.ContinueOnError)
	rt := bindRuntimeFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !stdinIsTTY() {
		return errors.New("studio requires an interactive terminal (TTY)")
	}

	cfg, err := rt.load()
	if err != nil {
		return err
	}
	// The terminal belongs to the UI, so logs go to log.file or nowhere.
	logger := logging.Discard()
	var closer io.Closer = io.NopCloser(nil)
	if cfg.LogFile != "" {
		if logger, closer, err = logging.OpenFile(cfg.LogFile, cfg.LogLevel); err != nil {
			return err
		}
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := newClient(cfg, logger)
	m := newStudioModel(ctx, studio.NewSession(client, logger), client.ArtifactURL)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("studio requires an interactive terminal (TTY)")
		}
		return err
	}
	return nil
}

func newStudioModel(ctx context.Context, session *studio.Session, artifactURL func(string) string) studioModel {
	m := studioModel{
		ctx:         ctx,
		session:     session,
		artifactURL: artifactURL,
		fields:      studioFields(),
		input:       newStudioInput(100),
	}
	m.loadFieldIntoInput()
	return m
}

func (m studioModel) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m studioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = clampInt(m.formWidth()-8, 20, 120)
		return m, nil
	case studioJobsMsg:
		m.session.FinishRefresh(msg.seq, msg.jobs, msg.err)
		return m, nil
	case studioSubmitMsg:
		if !m.session.FinishSubmit(msg.job, msg.err) {
			if msg.err != nil {
				m.statusMessage = "error: " + submitFailureText(msg.err)
			}
			return m, nil
		}
		job, _ := m.session.LastJob()
		m.statusMessage = fmt.Sprintf("job created: %s (%s)", job.ID, defaultIfEmpty(job.Status, "unknown"))
		m.clampIndex()
		m.loadFieldIntoInput()
		return m, m.refreshCmd()
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m.updateKeys(keyMsg)
}

func (m studioModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.session.Draft()
	key := strings.ToLower(msg.String())
	switch key {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+s":
		return m.submit()
	case "ctrl+r":
		return m, m.refreshCmd()
	case "ctrl+n":
		if m.session.SubmissionState().InFlight() {
			return m, nil
		}
		d.Reset()
		m.index = 0
		m.loadFieldIntoInput()
		m.statusMessage = "form reset to defaults"
		return m, nil
	case "up", "shift+tab":
		m.move(-1)
		return m, nil
	case "down", "tab", "enter":
		m.move(1)
		return m, nil
	}

	field := m.currentField()
	switch field.Kind {
	case studioFieldBool:
		switch key {
		case " ", "space", "left", "right", "h", "l":
			on, _ := parseBool(field.value(d))
			field.apply(d, boolToYN(!on))
		case "y":
			field.apply(d, "y")
		case "n":
			field.apply(d, "n")
		}
		m.loadFieldIntoInput()
		return m, nil
	case studioFieldSelect:
		switch key {
		case " ", "space", "right", "l":
			field.apply(d, cycleOption(field.Options, field.value(d), 1))
		case "left", "h":
			field.apply(d, cycleOption(field.Options, field.value(d), -1))
		}
		m.loadFieldIntoInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	field.apply(d, m.input.Value())
	return m, cmd
}

func (m studioModel) submit() (tea.Model, tea.Cmd) {
	if !m.session.CanSubmit() {
		if !m.session.SubmissionState().InFlight() {
			m.statusMessage = "add a source video and a duration between 5 and 180 seconds"
		}
		return m, nil
	}
	payload, err := m.session.BeginSubmit()
	if err != nil {
		m.statusMessage = "error: " + err.Error()
		return m, nil
	}
	m.statusMessage = ""
	return m, submitJobCmd(m.ctx, m.session.Service(), payload)
}

// submitFailureText renders a rejected submission as "Submit failed: <status>".
func submitFailureText(err error) string {
	var statusErr *clipapi.StatusError
	if errors.As(err, &statusErr) && statusErr.Op == "submit" {
		return fmt.Sprintf("Submit failed: %d", statusErr.StatusCode)
	}
	return err.Error()
}

func (m studioModel) refreshCmd() tea.Cmd {
	seq := m.session.BeginRefresh()
	return loadJobsCmd(m.ctx, m.session.Service(), seq)
}

func loadJobsCmd(ctx context.Context, svc studio.JobService, seq uint64) tea.Cmd {
	return func() tea.Msg {
		jobs, err := svc.ListJobs(ctx)
		return studioJobsMsg{seq: seq, jobs: jobs, err: err}
	}
}

func submitJobCmd(ctx context.Context, svc studio.JobService, payload draft.Payload) tea.Cmd {
	return func() tea.Msg {
		job, err := svc.CreateJob(ctx, payload)
		return studioSubmitMsg{job: job, err: err}
	}
}

func (m *studioModel) visibleFields() []studioField {
	d := m.session.Draft()
	out := make([]studioField, 0, len(m.fields))
	for _, f := range m.fields {
		if f.isVisible(d) {
			out = append(out, f)
		}
	}
	return out
}

func (m *studioModel) currentField() studioField {
	m.clampIndex()
	fields := m.visibleFields()
	if len(fields) == 0 {
		return studioField{}
	}
	return fields[m.index]
}

func (m *studioModel) clampIndex() {
	n := len(m.visibleFields())
	if m.index >= n {
		m.index = n - 1
	}
	if m.index < 0 {
		m.index = 0
	}
}

func (m *studioModel) move(step int) {
	m.index += step
	m.clampIndex()
	m.loadFieldIntoInput()
}

func (m *studioModel) loadFieldIntoInput() {
	field := m.currentField()
	m.input.SetValue(field.value(m.session.Draft()))
	m.input.CursorEnd()
}
