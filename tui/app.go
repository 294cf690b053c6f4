package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"concertcloud-cli/filter"
	"concertcloud-cli/model"
	"concertcloud-cli/seatmap"
	"concertcloud-cli/session"
	"concertcloud-cli/store"
)

type appState int

const (
	stateBrowse appState = iota
	stateEditField
	stateSelectRecent
)

type focusArea int

const (
	focusFilters focusArea = iota
	focusTable
	focusMap
	focusCount
)

type filterField int

const (
	fieldEvent filterField = iota
	fieldQty
	fieldMaxPrice
	fieldVerified
	fieldTogether
	fieldSort
	fieldCount
)

const (
	maxTableRows  = 100
	defaultWidth  = 80
	defaultHeight = 32
	minMapWidth   = 24
	minMapHeight  = 8
)

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8d3daf"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a1f1f")).Background(lipgloss.Color("#ffe0e0")).Padding(0, 1)
	fieldStyle        = lipgloss.NewStyle()
	focusedFieldStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2a1436")).Background(lipgloss.Color("#f2a7ff"))
	sectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5a2c82"))
)

type appModel struct {
	client session.Fetcher
	logger *zap.Logger

	sess    session.State
	pending []session.Request

	state appState
	focus focusArea
	field filterField

	width  int
	height int

	input      textinput.Model
	table      table.Model
	recentList list.Model
	spinner    spinner.Model
	styles     seatmap.Styles

	// cursor is the section under the keyboard cursor in the map.
	cursor *model.SectionID
}

type fetchedMsg struct {
	result session.Result
}

type recentEventsMsg struct {
	events []store.RecentEvent
	err    error
}

// New builds the program model. The initial listings and map fetches are
// queued here and issued by Init.
func New(client session.Fetcher, filters filter.State, logger *zap.Logger) tea.Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := appModel{
		client: client,
		logger: logger,
		sess:   session.New(filters),
		styles: seatmap.DefaultStyles(),
	}
	m.sess, m.pending = m.sess.Start()
	for _, req := range m.pending {
		m.sess = m.sess.Begin(req.Resource)
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 12
	m.input = input

	m.table = newTable()
	m.recentList = newList("Recent Events")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.pending)+1)
	for _, req := range m.pending {
		cmds = append(cmds, m.fetchCmd(req))
	}
	cmds = append(cmds, m.spinner.Tick)
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.sess.Loading() {
			return m, cmd
		}
		return m, nil

	case fetchedMsg:
		return m.applyResult(msg.result), nil

	case recentEventsMsg:
		if msg.err != nil {
			m.logger.Warn("load recent events", zap.Error(msg.err))
		}
		m.recentList.SetItems(buildRecentItems(msg.events))
		m.recentList.Select(0)
		m.state = stateSelectRecent
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateEditField:
		m.input, cmd = m.input.Update(msg)
	case stateSelectRecent:
		m.recentList, cmd = m.recentList.Update(msg)
	case stateBrowse:
		if m.focus == focusTable {
			m.table, cmd = m.table.Update(msg)
		}
	}
	return m, cmd
}

func (m appModel) applyResult(res session.Result) appModel {
	m.sess = m.sess.Apply(res)

	log := m.logger.With(
		zap.Stringer("resource", res.Request.Resource),
		zap.Int("event_id", res.Request.EventID),
	)
	if res.Err != nil {
		log.Warn("fetch failed", zap.Error(res.Err))
	}

	switch res.Request.Resource {
	case session.Listings:
		if res.Err == nil {
			log.Info("listings loaded", zap.Int("count", len(res.Listings)), zap.String("query", res.Request.Query.Encode()))
		}
		m.refreshTable()
	case session.Map:
		if res.Err == nil {
			log.Info("map loaded", zap.String("venue", res.Map.Venue.Name), zap.Int("sections", len(res.Map.Sections)))
			if err := store.RememberEvent(res.Request.EventID, res.Map.Venue.Name); err != nil {
				log.Debug("remember event", zap.Error(err))
			}
		}
		if m.cursor != nil && (m.sess.Map == nil || !m.sess.Map.HasSection(*m.cursor)) {
			m.cursor = nil
		}
	}
	return m
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit, true
	}

	switch m.state {
	case stateEditField:
		return m.handleEditKey(msg)
	case stateSelectRecent:
		return m.handleRecentKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit, true
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil, true
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil, true
	case "a":
		var req session.Request
		m.sess, req = m.sess.ApplyFilters()
		cmds := []tea.Cmd{m.start(req)}
		if m.sess.Map == nil && !m.sess.LoadingMap {
			cmds = append(cmds, m.start(m.sess.ReloadMap()))
		}
		cmd := tea.Batch(cmds...)
		return m, cmd, true
	case "m":
		cmd := m.start(m.sess.ReloadMap())
		return m, cmd, true
	case "c":
		if m.sess.Filters.SectionID == nil {
			return m, nil, true
		}
		m.sess = m.sess.ClearSection()
		cmd := m.start(m.sess.ReloadListings())
		return m, cmd, true
	case "r":
		return m, loadRecentEventsCmd(), true
	}

	switch m.focus {
	case focusFilters:
		return m.handleFilterKey(msg)
	case focusMap:
		return m.handleMapKey(msg)
	}
	return m, nil, false
}

func (m appModel) handleFilterKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "left", "h":
		m.field = (m.field + fieldCount - 1) % fieldCount
	case "right", "l":
		m.field = (m.field + 1) % fieldCount
	case "up", "+":
		m.bumpField(1)
	case "down", "-":
		m.bumpField(-1)
	case "enter", " ":
		return m.activateField()
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m *appModel) bumpField(delta int) {
	switch m.field {
	case fieldEvent:
		m.setEventID(m.sess.Filters.EventID + delta)
	case fieldQty:
		m.sess = m.sess.SetQuantity(m.sess.Filters.Quantity + delta)
	case fieldSort:
		m.sess = m.sess.SetSort(m.sess.Filters.Sort.Other())
	}
}

func (m appModel) activateField() (appModel, tea.Cmd, bool) {
	switch m.field {
	case fieldEvent, fieldQty, fieldMaxPrice:
		m.state = stateEditField
		m.input.SetValue(m.fieldText(m.field))
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd, true
	case fieldVerified:
		m.sess = m.sess.SetVerifiedOnly(!m.sess.Filters.VerifiedOnly)
	case fieldTogether:
		m.sess = m.sess.SetTogether(!m.sess.Filters.Together)
	case fieldSort:
		m.sess = m.sess.SetSort(m.sess.Filters.Sort.Other())
	}
	return m, nil, true
}

func (m appModel) handleEditKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "enter":
		m.commitField(m.input.Value())
		m.state = stateBrowse
		m.input.Blur()
		return m, nil, true
	case "esc":
		m.state = stateBrowse
		m.input.Blur()
		return m, nil, true
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, true
}

// commitField stores edited text. Unparseable numbers fall back to 1.
func (m *appModel) commitField(value string) {
	value = strings.TrimSpace(value)
	switch m.field {
	case fieldEvent:
		m.setEventID(atoiOr(value, 1))
	case fieldQty:
		m.sess = m.sess.SetQuantity(atoiOr(value, 1))
	case fieldMaxPrice:
		m.sess = m.sess.SetMaxPrice(filter.ParseMaxPrice(value))
	}
}

func (m *appModel) setEventID(id int) {
	before := m.sess.Filters.EventID
	m.sess = m.sess.SetEventID(id)
	if m.sess.Filters.EventID != before {
		m.cursor = nil
	}
}

func (m appModel) handleMapKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	if m.sess.Map == nil {
		return m, nil, false
	}
	switch msg.String() {
	case "left", "h", "up", "k":
		m.moveCursor(-1)
	case "right", "l", "down", "j":
		m.moveCursor(1)
	case "enter", " ":
		if m.cursor == nil {
			m.moveCursor(1)
		}
		if m.cursor == nil {
			return m, nil, true
		}
		next, cmd := m.clickSection(*m.cursor)
		return next, cmd, true
	default:
		return m, nil, false
	}
	return m, nil, true
}

func (m *appModel) moveCursor(delta int) {
	from := m.cursor
	if from == nil {
		from = m.sess.Filters.SectionID
	}
	if id, ok := m.layout().Next(from, delta); ok {
		m.cursor = &id
	}
}

func (m appModel) clickSection(id model.SectionID) (appModel, tea.Cmd) {
	var req session.Request
	m.sess, req = m.sess.ClickSection(id)
	cursor := id
	m.cursor = &cursor
	cmd := m.start(req)
	return m, cmd
}

func (m appModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state != stateBrowse || m.sess.Map == nil {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	layout := m.layout()
	x, y := msg.X, msg.Y-m.mapTop()
	if x < 0 || y < 0 || x >= layout.Width || y >= layout.Height {
		return m, nil
	}
	id, ok := layout.HitTest(x, y)
	if !ok {
		return m, nil
	}
	m.setFocus(focusMap)
	m, cmd := m.clickSection(id)
	return m, cmd
}

func (m appModel) handleRecentKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	if m.recentList.SettingFilter() {
		return m, nil, false
	}
	switch msg.String() {
	case "esc", "q":
		if m.recentList.IsFiltered() {
			m.recentList.ResetFilter()
			return m, nil, true
		}
		m.state = stateBrowse
		return m, nil, true
	case "enter":
		item, ok := m.recentList.SelectedItem().(recentItem)
		m.state = stateBrowse
		if !ok {
			return m, nil, true
		}
		m.setEventID(item.event.EventID)
		listings := m.sess.ReloadListings()
		venueMap := m.sess.ReloadMap()
		cmd := tea.Batch(m.start(listings), m.start(venueMap))
		return m, cmd, true
	}
	return m, nil, false
}

// start marks req's resource as loading and returns the command that
// performs it.
func (m *appModel) start(req session.Request) tea.Cmd {
	m.sess = m.sess.Begin(req.Resource)
	return tea.Batch(m.fetchCmd(req), m.spinner.Tick)
}

func (m *appModel) setFocus(focus focusArea) {
	m.focus = focus
	if focus == focusTable {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
	if focus == focusMap && m.cursor == nil && m.sess.Filters.SectionID != nil {
		id := *m.sess.Filters.SectionID
		m.cursor = &id
	}
}

func (m appModel) fetchCmd(req session.Request) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		return fetchedMsg{result: session.Execute(ctx, m.client, req)}
	}
}

func loadRecentEventsCmd() tea.Cmd {
	return func() tea.Msg {
		events, err := store.LoadRecentEvents()
		return recentEventsMsg{events: events, err: err}
	}
}

func (m *appModel) resize() {
	width := m.viewWidth()
	m.table.SetWidth(width)
	m.table.SetHeight(m.tableHeight())
	if m.height > 0 {
		h := m.height - 6
		if h < 6 {
			h = 6
		}
		m.recentList.SetSize(width, h)
	}
}

func (m appModel) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m appModel) tableHeight() int {
	height := m.height
	if height <= 0 {
		height = defaultHeight
	}
	return clamp(height/3, 5, 14)
}

func (m *appModel) refreshTable() {
	m.table.SetRows(buildListingRows(m.sess.Listings))
	m.table.GotoTop()
}

func newTable() table.Model {
	columns := []table.Column{
		{Title: "Section", Width: 16},
		{Title: "Row", Width: 6},
		{Title: "Seat", Width: 6},
		{Title: "Price", Width: 10},
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(8))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("#5a2c82"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#2a1436")).Background(lipgloss.Color("#f0b8ff"))
	t.SetStyles(styles)
	return t
}

func buildListingRows(listings []model.Listing) []table.Row {
	n := min(len(listings), maxTableRows)
	rows := make([]table.Row, 0, n)
	for _, l := range listings[:n] {
		rows = append(rows, table.Row{l.SectionLabel(), l.RowLabel(), l.SeatLabel(), formatPrice(l.Price)})
	}
	return rows
}

func formatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.SetFilteringEnabled(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

type recentItem struct {
	event store.RecentEvent
}

func (r recentItem) Title() string {
	return fmt.Sprintf("Event %d", r.event.EventID)
}

func (r recentItem) Description() string {
	parts := []string{}
	if r.event.Venue != "" {
		parts = append(parts, r.event.Venue)
	}
	if !r.event.OpenedAt.IsZero() {
		parts = append(parts, "opened "+r.event.OpenedAt.Local().Format(time.DateOnly))
	}
	return strings.Join(parts, " • ")
}

func (r recentItem) FilterValue() string {
	return strings.ToLower(fmt.Sprintf("%d %s", r.event.EventID, r.event.Venue))
}

func buildRecentItems(events []store.RecentEvent) []list.Item {
	items := make([]list.Item, 0, len(events))
	for _, event := range events {
		items = append(items, recentItem{event: event})
	}
	return items
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func atoiOr(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
