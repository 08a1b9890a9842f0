package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/vdash/internal/cache"
	"github.com/rileyhilliard/vdash/internal/notify"
	"github.com/rileyhilliard/vdash/internal/visits"
)

const (
	// toastDuration is how long a notification stays on screen.
	toastDuration = 4 * time.Second

	// ageInterval re-renders the "updated Xs ago" header.
	ageInterval = time.Second
)

// Refresher requests an immediate fetch of every polled resource.
// *poll.Scheduler implements it.
type Refresher interface {
	Trigger()
}

// Model is the Bubble Tea model for the visit dashboard.
type Model struct {
	cache         *cache.Cache
	refresher     Refresher
	notifications <-chan notify.Notification
	history       *visits.History
	now           func() time.Time

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	chartStyle ChartStyle
	toast      *notify.Notification
	width      int
	height     int
	showHelp   bool
	quitting   bool

	// lastCounter is the counter value last recorded into history.
	lastCounter *visits.CounterSnapshot
}

// Option configures a Model.
type Option func(*Model)

// WithRefresher wires the r key to r.Trigger.
func WithRefresher(r Refresher) Option {
	return func(m *Model) {
		m.refresher = r
	}
}

// WithNotifications shows notifications received on ch as toasts.
func WithNotifications(ch <-chan notify.Notification) Option {
	return func(m *Model) {
		m.notifications = ch
	}
}

// WithHistory sets the counter history used for the sparkline.
func WithHistory(h *visits.History) Option {
	return func(m *Model) {
		m.history = h
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// NewModel creates a dashboard over c.
func NewModel(c *cache.Cache, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{Frames: LoadingSpinnerFrames, FPS: 150 * time.Millisecond}
	sp.Style = LabelStyle

	m := Model{
		cache:   c,
		history: visits.NewHistory(visits.DefaultHistorySize),
		now:     time.Now,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: sp,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.recordHistory()
	return m
}

// cacheChangedMsg signals that at least one cache slot was written.
type cacheChangedMsg struct{}

// cacheClosedMsg signals that the cache was disposed.
type cacheClosedMsg struct{}

// notificationMsg carries one failure or info notification.
type notificationMsg notify.Notification

// toastExpiredMsg clears the toast raised at the given time.
type toastExpiredMsg struct{ raised time.Time }

// ageTickMsg refreshes time-relative text.
type ageTickMsg time.Time

// waitForChange blocks until the cache signals a write.
func waitForChange(c *cache.Cache) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-c.Changes(); !ok {
			return cacheClosedMsg{}
		}
		return cacheChangedMsg{}
	}
}

// waitForNotification blocks until the next notification. A closed
// channel ends the subscription.
func waitForNotification(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}

func expireToast(raised time.Time) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{raised: raised}
	})
}

func ageTickCmd() tea.Cmd {
	return tea.Tick(ageInterval, func(t time.Time) tea.Msg {
		return ageTickMsg(t)
	})
}

// Init subscribes to cache changes and notifications.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForChange(m.cache), m.spinner.Tick, ageTickCmd()}
	if m.notifications != nil {
		cmds = append(cmds, waitForNotification(m.notifications))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case cacheChangedMsg:
		m.recordHistory()
		return m, waitForChange(m.cache)

	case cacheClosedMsg:
		return m, nil

	case notificationMsg:
		n := notify.Notification(msg)
		m.toast = &n
		return m, tea.Batch(waitForNotification(m.notifications), expireToast(n.Time))

	case toastExpiredMsg:
		if m.toast != nil && m.toast.Time.Equal(msg.raised) {
			m.toast = nil
		}
		return m, nil

	case ageTickMsg:
		return m, ageTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.showHelp && key.Matches(msg, m.keys.Close) {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		if m.refresher != nil {
			m.refresher.Trigger()
		}

	case key.Matches(msg, m.keys.ToggleChart):
		m.chartStyle = m.chartStyle.Toggle()
	}
	return m, nil
}

// recordHistory pushes the counter value into history when it has been
// replaced since the last call.
func (m *Model) recordHistory() {
	if m.cache == nil || m.history == nil {
		return
	}
	v := m.cache.Counter.Load().Value
	if v == nil || v == m.lastCounter {
		return
	}
	m.history.Push(v)
	m.lastCounter = v
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// ChartStyle returns the current chart style.
func (m Model) ChartStyle() ChartStyle {
	return m.chartStyle
}

// Toast returns the notification currently on screen, if any.
func (m Model) Toast() *notify.Notification {
	return m.toast
}
