// Package console is the terminal review UI: pick a chatter, read their
// messages and flip review flags. All reads and writes go through the
// message service, so it can run next to a live server on the same store.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JohnSOGO/ChatMan/internal/domain"
)

// Store is the part of services.MessageService the console uses.
type Store interface {
	Users(ctx context.Context) ([]string, error)
	UserMessages(ctx context.Context, user string, desc, hideReviewed bool) ([]domain.Message, error)
	MarkReviewed(ctx context.Context, ids []int64, value bool) (int64, error)
}

const (
	opTimeout   = 5 * time.Second
	fixedWidth  = 3 + 7 + 19 + 4 + 10 // selection, id, time, reviewed, padding
	minTextCols = 20
)

type usersLoadedMsg struct {
	users []string
	err   error
}

type messagesLoadedMsg struct {
	user     string
	messages []domain.Message
	err      error
}

type markedMsg struct {
	matched int64
	value   bool
	err     error
}

// Model is the bubbletea model of the review console.
type Model struct {
	store Store
	ctx   context.Context
	keys  keyMap
	table table.Model
	help  help.Model

	users        []string
	userIdx      int
	messages     []domain.Message
	selected     map[int64]struct{}
	newestFirst  bool
	hideReviewed bool

	status  string
	pending string // mark result shown once the reload lands
	err     error

	width, height int
}

// New returns a console over store. ctx bounds every store call.
func New(ctx context.Context, store Store) *Model {
	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(15),
		table.WithKeyMap(tableKeys()),
		table.WithStyles(tableStyles()),
	)
	return &Model{
		store:       store,
		ctx:         ctx,
		keys:        defaultKeys(),
		table:       t,
		help:        help.New(),
		selected:    make(map[int64]struct{}),
		newestFirst: true,
		status:      "loading users…",
	}
}

func columns(width int) []table.Column {
	text := width - fixedWidth
	if text < minTextCols {
		text = minTextCols
	}
	return []table.Column{
		{Title: " ", Width: 1},
		{Title: "ID", Width: 5},
		{Title: "Time", Width: 19},
		{Title: "Rev", Width: 3},
		{Title: "Text", Width: text},
	}
}

// Init loads the user list.
func (m *Model) Init() tea.Cmd {
	return m.loadUsers()
}

// CurrentUser is the user whose messages are shown, "" when none.
func (m *Model) CurrentUser() string {
	if m.userIdx < 0 || m.userIdx >= len(m.users) {
		return ""
	}
	return m.users[m.userIdx]
}

// Update handles store results and key presses.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(max(3, msg.Height-9))
		m.refreshRows()
		return m, nil

	case usersLoadedMsg:
		if msg.err != nil {
			m.fail("load users", msg.err)
			return m, nil
		}
		m.err = nil
		cur := m.CurrentUser()
		m.users = msg.users
		m.userIdx = 0
		for i, u := range m.users {
			if u == cur {
				m.userIdx = i
				break
			}
		}
		if len(m.users) == 0 {
			m.messages = nil
			m.refreshRows()
			m.status = "no messages stored yet"
			return m, nil
		}
		return m, m.loadMessages()

	case messagesLoadedMsg:
		if msg.user != m.CurrentUser() {
			return m, nil // stale result after switching users
		}
		if msg.err != nil {
			m.fail("load messages", msg.err)
			return m, nil
		}
		m.err = nil
		m.messages = msg.messages
		m.pruneSelection()
		m.refreshRows()
		m.status = fmt.Sprintf("%d messages", len(m.messages))
		if m.pending != "" {
			m.status = m.pending + ", " + m.status
			m.pending = ""
		}
		return m, nil

	case markedMsg:
		if msg.err != nil {
			m.fail("mark", msg.err)
			return m, nil
		}
		m.err = nil
		m.selected = make(map[int64]struct{})
		word := "reviewed"
		if !msg.value {
			word = "unreviewed"
		}
		m.status = fmt.Sprintf("marked %d %s", msg.matched, word)
		m.pending = m.status
		return m, m.loadMessages()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.PrevUser):
		return m, m.switchUser(-1)
	case key.Matches(msg, m.keys.NextUser):
		return m, m.switchUser(1)
	case key.Matches(msg, m.keys.ToggleOrder):
		m.newestFirst = !m.newestFirst
		return m, m.loadMessages()
	case key.Matches(msg, m.keys.ToggleHidden):
		m.hideReviewed = !m.hideReviewed
		return m, m.loadMessages()
	case key.Matches(msg, m.keys.Select):
		m.toggleSelection()
		return m, nil
	case key.Matches(msg, m.keys.MarkReviewed):
		return m, m.mark(m.targetIDs(), true)
	case key.Matches(msg, m.keys.MarkOpen):
		return m, m.mark(m.targetIDs(), false)
	case key.Matches(msg, m.keys.MarkAll):
		ids := make([]int64, 0, len(m.messages))
		for _, msg := range m.messages {
			ids = append(ids, msg.ID)
		}
		return m, m.mark(ids, true)
	case key.Matches(msg, m.keys.Refresh):
		m.status = "refreshing…"
		return m, m.loadUsers()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) switchUser(step int) tea.Cmd {
	if len(m.users) == 0 {
		return nil
	}
	m.userIdx = (m.userIdx + step + len(m.users)) % len(m.users)
	m.selected = make(map[int64]struct{})
	m.table.SetCursor(0)
	return m.loadMessages()
}

func (m *Model) toggleSelection() {
	row := m.table.Cursor()
	if row < 0 || row >= len(m.messages) {
		return
	}
	id := m.messages[row].ID
	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
	} else {
		m.selected[id] = struct{}{}
	}
	m.refreshRows()
}

// targetIDs is the selection in display order, or the row under the
// cursor when nothing is selected.
func (m *Model) targetIDs() []int64 {
	ids := make([]int64, 0, len(m.selected))
	for _, msg := range m.messages {
		if _, ok := m.selected[msg.ID]; ok {
			ids = append(ids, msg.ID)
		}
	}
	if len(ids) == 0 {
		if row := m.table.Cursor(); row >= 0 && row < len(m.messages) {
			ids = append(ids, m.messages[row].ID)
		}
	}
	return ids
}

func (m *Model) pruneSelection() {
	shown := make(map[int64]struct{}, len(m.messages))
	for _, msg := range m.messages {
		shown[msg.ID] = struct{}{}
	}
	for id := range m.selected {
		if _, ok := shown[id]; !ok {
			delete(m.selected, id)
		}
	}
}

func (m *Model) fail(op string, err error) {
	m.err = fmt.Errorf("%s: %w", op, err)
	m.status = ""
	m.pending = ""
}

func (m *Model) refreshRows() {
	rows := make([]table.Row, 0, len(m.messages))
	for _, msg := range m.messages {
		mark := " "
		if _, ok := m.selected[msg.ID]; ok {
			mark = "●"
		}
		rev := ""
		if msg.Reviewed {
			rev = "✓"
		}
		rows = append(rows, table.Row{
			mark,
			strconv.FormatInt(msg.ID, 10),
			displayTime(msg),
			rev,
			oneLine(msg.Text),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func displayTime(msg domain.Message) string {
	t := msg.Time()
	if t.IsZero() {
		return msg.Timestamp
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ---- store commands ----

func (m *Model) loadUsers() tea.Cmd {
	store, parent := m.store, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, opTimeout)
		defer cancel()
		users, err := store.Users(ctx)
		return usersLoadedMsg{users: users, err: err}
	}
}

func (m *Model) loadMessages() tea.Cmd {
	user := m.CurrentUser()
	if user == "" {
		return nil
	}
	store, parent := m.store, m.ctx
	desc, hide := m.newestFirst, m.hideReviewed
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, opTimeout)
		defer cancel()
		ms, err := store.UserMessages(ctx, user, desc, hide)
		return messagesLoadedMsg{user: user, messages: ms, err: err}
	}
}

func (m *Model) mark(ids []int64, value bool) tea.Cmd {
	if len(ids) == 0 {
		m.status = "nothing to mark"
		return nil
	}
	store, parent := m.store, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, opTimeout)
		defer cancel()
		n, err := store.MarkReviewed(ctx, ids, value)
		return markedMsg{matched: n, value: value, err: err}
	}
}

// ---- view ----

// View renders the picker, the message table and the status line.
func (m *Model) View() string {
	header := titleStyle.Render("ChatMan review")
	picker := dimStyle.Render("no users")
	if u := m.CurrentUser(); u != "" {
		picker = fmt.Sprintf("%s %s",
			dimStyle.Render(fmt.Sprintf("user %d/%d", m.userIdx+1, len(m.users))),
			userStyle.Render(u))
	}
	flags := strings.Join([]string{
		flag("newest first", m.newestFirst),
		flag("hide reviewed", m.hideReviewed),
		dimStyle.Render(fmt.Sprintf("%d selected", len(m.selected))),
	}, "   ")

	status := dimStyle.Render(m.status)
	if m.err != nil {
		status = errorStyle.Render("error: " + m.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header+"  "+picker,
		flags,
		boxStyle.Render(m.table.View()),
		status,
		m.help.View(m.keys),
	)
}
