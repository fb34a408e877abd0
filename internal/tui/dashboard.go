// Live fleet dashboard rendered with bubbletea.
package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"devicesim/internal/sender"
	"devicesim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// sentMsg reports one successful send.
type sentMsg struct {
	deviceID string
	kind     telemetry.Kind
}

// droppedMsg reports one overflow drop.
type droppedMsg struct {
	deviceID string
	kind     telemetry.Kind
	reason   string
}

// failedMsg reports one failed send.
type failedMsg struct {
	deviceID string
	kind     telemetry.Kind
	cause    error
}

// Dashboard shows per-device send/drop counters and a scrolling event log.
// It implements the device Observer and wraps a sender to count successes.
type Dashboard struct {
	program teaProgram
	done    chan struct{}
}

// NewDashboard starts the bubbletea program in the background. When the
// user quits the dashboard, the process receives an interrupt so the
// simulation shuts down with it.
func NewDashboard() *Dashboard {
	d := &Dashboard{done: make(chan struct{})}
	p := tea.NewProgram(newModel(), tea.WithAltScreen())
	d.program = p
	go func() {
		_, _ = p.Run()
		close(d.done)
		if proc, err := os.FindProcess(os.Getpid()); err == nil {
			_ = proc.Signal(os.Interrupt)
		}
	}()
	return d
}

// Done is closed when the dashboard exits.
func (d *Dashboard) Done() <-chan struct{} { return d.done }

// MessageDropped implements device.Observer.
func (d *Dashboard) MessageDropped(deviceID string, kind telemetry.Kind, reason string) {
	d.program.Send(droppedMsg{deviceID: deviceID, kind: kind, reason: reason})
}

// SendFailed implements device.Observer.
func (d *Dashboard) SendFailed(deviceID string, kind telemetry.Kind, cause error) {
	d.program.Send(failedMsg{deviceID: deviceID, kind: kind, cause: cause})
}

// Wrap returns a sender that records successful sends on the dashboard
// before delegating to s.
func (d *Dashboard) Wrap(s sender.Sender) sender.Sender {
	return &countingSender{next: s, dash: d}
}

type countingSender struct {
	next sender.Sender
	dash *Dashboard
}

func (c *countingSender) Send(ctx context.Context, msg telemetry.Message) error {
	if err := c.next.Send(ctx, msg); err != nil {
		return err
	}
	c.dash.program.Send(sentMsg{deviceID: msg.DeviceID, kind: msg.Kind})
	return nil
}

type deviceStats struct {
	sent    int
	dropped int
	failed  int
	last    time.Time
}

type model struct {
	table   table.Model
	log     viewport.Model
	stats   map[string]*deviceStats
	order   []string
	events  []string
	width   int
	height  int
	ready   bool
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	logStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	dropStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const maxEvents = 200

func newModel() model {
	cols := []table.Column{
		{Title: "Device", Width: 42},
		{Title: "Sent", Width: 8},
		{Title: "Dropped", Width: 8},
		{Title: "Failed", Width: 8},
		{Title: "Last event", Width: 12},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(8))
	return model{
		table: t,
		stats: make(map[string]*deviceStats),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logHeight := m.height - m.table.Height() - 6
		if logHeight < 3 {
			logHeight = 3
		}
		if !m.ready {
			m.log = viewport.New(m.width-4, logHeight)
			m.ready = true
		} else {
			m.log.Width = m.width - 4
			m.log.Height = logHeight
		}
		m.refreshLog()
	case sentMsg:
		st := m.statsFor(msg.deviceID)
		st.sent++
		st.last = time.Now()
		m.refreshTable()
	case droppedMsg:
		st := m.statsFor(msg.deviceID)
		st.dropped++
		st.last = time.Now()
		m.addEvent(dropStyle.Render(fmt.Sprintf("DROP device=%s kind=%s reason=%s", msg.deviceID, msg.kind, msg.reason)))
		m.refreshTable()
	case failedMsg:
		st := m.statsFor(msg.deviceID)
		st.failed++
		st.last = time.Now()
		m.addEvent(failStyle.Render(fmt.Sprintf("FAIL device=%s kind=%s cause=%v", msg.deviceID, msg.kind, msg.cause)))
		m.refreshTable()
	}

	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

func (m *model) statsFor(deviceID string) *deviceStats {
	st, ok := m.stats[deviceID]
	if !ok {
		st = &deviceStats{}
		m.stats[deviceID] = st
		m.order = append(m.order, deviceID)
	}
	return st
}

func (m *model) addEvent(line string) {
	m.events = append(m.events, line)
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
	m.refreshLog()
}

func (m *model) refreshLog() {
	if !m.ready {
		return
	}
	content := ""
	for _, e := range m.events {
		content += e + "\n"
	}
	m.log.SetContent(wordwrap.String(content, m.log.Width))
	m.log.GotoBottom()
}

func (m *model) refreshTable() {
	rows := make([]table.Row, 0, len(m.order))
	for _, id := range m.order {
		st := m.stats[id]
		last := "-"
		if !st.last.IsZero() {
			last = st.last.Format("15:04:05")
		}
		rows = append(rows, table.Row{
			id,
			strconv.Itoa(st.sent),
			strconv.Itoa(st.dropped),
			strconv.Itoa(st.failed),
			last,
		})
	}
	m.table.SetRows(rows)
}

func (m model) View() string {
	if !m.ready {
		return "starting dashboard..."
	}
	return titleStyle.Render("devicesim fleet") + "\n" +
		m.table.View() + "\n" +
		logStyle.Render(m.log.View()) + "\n" +
		"q: quit"
}
