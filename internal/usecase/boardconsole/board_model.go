package boardconsole

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"freightdesk/internal/bootstrap/logging"
	"freightdesk/internal/domain/shipment"
	"freightdesk/internal/domain/tier"
	"freightdesk/internal/errs"
	"freightdesk/internal/ports"
	"freightdesk/internal/usecase/notifications"
	"freightdesk/internal/usecase/shipments"
	"freightdesk/internal/usecase/viewstate"
)

const (
	maxAuditLines    = 6
	maxTimelineLines = 3
	progressWidth    = 20
	defaultLoadLimit = 100
	defaultPageSize  = 10
)

type BoardOptions struct {
	Status          shipment.Status
	RefreshInterval time.Duration
	PageSize        int
	LoadLimit       int
}

// Board is the console board model. Close releases the notification
// subscription and is safe to call after the board already quit.
type Board interface {
	tea.Model
	Close()
}

type boardModel struct {
	ctx             context.Context
	shipments       *shipments.Service
	tracker         *notifications.Tracker
	statusFilter    shipment.Status
	refreshInterval time.Duration
	loadLimit       int

	table         *viewstate.Table[shipment.Shipment]
	listFence     viewstate.Fence
	detailFence   viewstate.Fence
	unreadFence   viewstate.Fence
	selectedIndex int
	detail        shipments.Detail
	hasDetail     bool
	unreadCount   int
	editingQuery  bool
	queryDraft    string
	status        string
	auditLogs     []string

	changes     chan ports.NotificationChange
	done        chan struct{}
	unsubscribe func()
}

type shipmentsLoadedMsg struct {
	seq   uint64
	items []shipment.Shipment
	err   error
}

type detailLoadedMsg struct {
	seq        uint64
	shipmentID int64
	detail     shipments.Detail
	err        error
}

type unreadLoadedMsg struct {
	seq   uint64
	count int
	err   error
}

type notificationChangedMsg struct {
	change ports.NotificationChange
}

type tickMsg struct{}

type actionDoneMsg struct {
	action     string
	shipmentID int64
	result     string
	err        error
}

// NewBoardModel subscribes to notification changes for the lifetime of the
// model. The subscription is released when the board quits or on Close.
func NewBoardModel(ctx context.Context, shipmentService *shipments.Service, tracker *notifications.Tracker, options BoardOptions) (Board, error) {
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	pageSize := options.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	loadLimit := options.LoadLimit
	if loadLimit <= 0 {
		loadLimit = defaultLoadLimit
	}

	model := &boardModel{
		ctx:             logging.WithComponent(ctx, "console.board"),
		shipments:       shipmentService,
		tracker:         tracker,
		statusFilter:    shipment.ParseStatus(string(options.Status)),
		refreshInterval: interval,
		loadLimit:       loadLimit,
		table:           newShipmentTable(pageSize),
		status:          "loading",
		changes:         make(chan ports.NotificationChange, 1),
		done:            make(chan struct{}),
	}

	if tracker != nil {
		unsubscribe, err := tracker.Subscribe(model.onChange)
		if err != nil {
			return nil, errs.Wrap(err, "subscribe to notification changes")
		}
		model.unsubscribe = unsubscribe
	}
	return model, nil
}

func newShipmentTable(pageSize int) *viewstate.Table[shipment.Shipment] {
	return viewstate.NewTable(
		pageSize,
		viewstate.Field(func(s shipment.Shipment) string { return s.ShipmentNumber }),
		viewstate.Field(func(s shipment.Shipment) string { return s.Origin }),
		viewstate.Field(func(s shipment.Shipment) string { return s.Destination }),
		viewstate.Field(func(s shipment.Shipment) string { return s.ConsigneeName }),
		viewstate.Field(func(s shipment.Shipment) string { return s.Status.Label() }),
	)
}

func (m *boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadShipmentsCmd(), m.refreshUnreadCmd(), m.waitForChangeCmd(), m.tickCmd())
}

func (m *boardModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadShipmentsCmd(), m.refreshUnreadCmd(), m.tickCmd())
	case shipmentsLoadedMsg:
		if !m.listFence.Admit(msg.seq) {
			return m, nil
		}
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.table.SetRows(msg.items)
		m.clampSelection()
		if m.table.Total() == 0 {
			m.hasDetail = false
			m.status = "no shipments"
			return m, nil
		}
		m.status = fmt.Sprintf("loaded %d shipments", len(msg.items))
		return m, m.loadDetailCmd()
	case detailLoadedMsg:
		if !m.detailFence.Admit(msg.seq) || !m.isSelected(msg.shipmentID) {
			return m, nil
		}
		if msg.err != nil {
			m.hasDetail = false
			m.status = "detail failed: " + msg.err.Error()
			return m, nil
		}
		m.detail = msg.detail
		m.hasDetail = true
		return m, nil
	case unreadLoadedMsg:
		if !m.unreadFence.Admit(msg.seq) {
			return m, nil
		}
		if msg.err != nil {
			m.status = "notifications unavailable: " + msg.err.Error()
			return m, nil
		}
		m.unreadCount = msg.count
		return m, nil
	case notificationChangedMsg:
		return m, tea.Batch(m.refreshUnreadCmd(), m.waitForChangeCmd())
	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
		} else {
			m.status = fmt.Sprintf("%s done: %s", msg.action, msg.result)
		}
		m.appendAuditLog(msg.action, msg.shipmentID, msg.result, msg.err)
		return m, tea.Batch(m.loadShipmentsCmd(), m.refreshUnreadCmd())
	case tea.KeyMsg:
		if m.editingQuery {
			return m.updateQuery(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.release()
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, tea.Batch(m.loadShipmentsCmd(), m.refreshUnreadCmd())
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				return m, m.loadDetailCmd()
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.table.Page())-1 {
				m.selectedIndex++
				return m, m.loadDetailCmd()
			}
			return m, nil
		case "left", "h":
			return m, m.changePage(m.table.PrevPage)
		case "right", "l":
			return m, m.changePage(m.table.NextPage)
		case "/":
			m.editingQuery = true
			m.queryDraft = m.table.Query()
			return m, nil
		case "a":
			return m, m.advanceCmd()
		case "n":
			return m, m.markAllReadCmd()
		}
	}
	return m, nil
}

func (m *boardModel) updateQuery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editingQuery = false
		m.table.SetQuery(m.queryDraft)
		m.selectedIndex = 0
		m.hasDetail = false
		return m, m.loadDetailCmd()
	case tea.KeyEsc:
		m.editingQuery = false
		m.queryDraft = ""
		return m, nil
	case tea.KeyBackspace:
		runes := []rune(m.queryDraft)
		if len(runes) > 0 {
			m.queryDraft = string(runes[:len(runes)-1])
		}
		return m, nil
	case tea.KeySpace:
		m.queryDraft += " "
		return m, nil
	case tea.KeyRunes:
		m.queryDraft += string(msg.Runes)
		return m, nil
	case tea.KeyCtrlC:
		m.release()
		return m, tea.Quit
	}
	return m, nil
}

func (m *boardModel) changePage(move func()) tea.Cmd {
	before := m.table.CurrentPage()
	move()
	if m.table.CurrentPage() == before {
		return nil
	}
	m.selectedIndex = 0
	m.hasDetail = false
	return m.loadDetailCmd()
}

func (m *boardModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Freight Board"))
	builder.WriteString("  ")
	builder.WriteString(badge(m.unreadCount))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"status=%s query=%q page=%d/%d matches=%d refresh=%s",
		firstNonEmpty(string(m.statusFilter), "all"),
		m.table.Query(),
		m.table.CurrentPage()+1,
		m.table.PageCount(),
		m.table.Total(),
		m.refreshInterval,
	)))
	builder.WriteString("\n")
	if m.editingQuery {
		builder.WriteString("Search: " + m.queryDraft + "█\n")
	}
	builder.WriteString("\n")

	builder.WriteString(sectionStyle.Render("Shipments"))
	builder.WriteString("\n")
	page := m.table.Page()
	if len(page) == 0 {
		builder.WriteString(dimStyle.Render("- no shipments"))
		builder.WriteString("\n\n")
	} else {
		for index, item := range page {
			line := fmt.Sprintf(
				"%s %s [%s]",
				firstNonEmpty(item.ShipmentNumber, fmt.Sprintf("#%d", item.ID)),
				item.Route(),
				item.Status.Label(),
			)
			if index == m.selectedIndex {
				builder.WriteString(selectedStyle.Render("> " + line))
			} else {
				builder.WriteString("  " + tierStyle(shipment.ColorTier(item.Status)).Render(line))
			}
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(sectionStyle.Render("Detail"))
	builder.WriteString("\n")
	if !m.hasDetail {
		builder.WriteString(dimStyle.Render("- no detail"))
		builder.WriteString("\n\n")
	} else {
		m.writeDetail(&builder, dimStyle)
	}

	builder.WriteString(sectionStyle.Render("Status"))
	builder.WriteString("\n")
	builder.WriteString("- " + firstNonEmpty(m.status, "ready"))
	builder.WriteString("\n\n")

	if len(m.auditLogs) > 0 {
		builder.WriteString(sectionStyle.Render("Actions"))
		builder.WriteString("\n")
		for _, line := range m.auditLogs {
			builder.WriteString("- " + line)
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(dimStyle.Render("Keys: ↑/k ↓/j move  ←/→ page  / search  a advance  n read all  g refresh  q quit"))
	return builder.String()
}

func (m *boardModel) writeDetail(builder *strings.Builder, dimStyle lipgloss.Style) {
	detail := m.detail
	item := detail.Shipment

	builder.WriteString(fmt.Sprintf("Shipment: %s (%s)\n", firstNonEmpty(item.ShipmentNumber, fmt.Sprintf("#%d", item.ID)), item.Route()))
	builder.WriteString(fmt.Sprintf("Consignee: %s\n", firstNonEmpty(item.ConsigneeName, "-")))
	builder.WriteString(fmt.Sprintf(
		"Progress: %s %s\n",
		tierStyle(detail.Tier).Render(progressBar(detail.Progress, progressWidth)),
		formatPercent(detail.Progress),
	))
	statusLine := item.Status.Label()
	if !item.Status.Known() {
		statusLine += " (unknown status)"
	}
	builder.WriteString(fmt.Sprintf("Status: %s\n", tierStyle(detail.Tier).Render(statusLine)))

	riskLine := detail.Risk.Headline
	if detail.Risk.Score != nil {
		riskLine = fmt.Sprintf("%s (score %s)", riskLine, detail.Risk.ScoreLabel())
	}
	builder.WriteString("Risk: " + tierStyle(detail.Risk.Tier).Render(riskLine) + "\n")

	switch {
	case detail.ComplianceErr != nil:
		builder.WriteString(dimStyle.Render("Compliance: unavailable"))
		builder.WriteString("\n")
	case detail.Compliance != nil:
		summary := detail.Compliance
		builder.WriteString(fmt.Sprintf("Compliance: %d T1 forms, %d seals\n", summary.T1Count(), summary.SealCount()))
		if summary.LatestT1 != nil {
			builder.WriteString(fmt.Sprintf(
				"Latest T1: %s %s\n",
				summary.LatestT1.FormNumber,
				bandStyle(summary.LatestT1.Status.Band()).Render(summary.LatestT1.Status.Label()),
			))
		}
		if summary.LatestSeal != nil {
			integrity := summary.LatestSeal.Integrity()
			builder.WriteString(fmt.Sprintf(
				"Latest seal: %s %s\n",
				summary.LatestSeal.SealNumber,
				bandStyle(integrity.Band).Render(integrity.Label),
			))
		}
	}

	if len(detail.Timeline) > 0 {
		builder.WriteString("Timeline:\n")
		start := len(detail.Timeline) - maxTimelineLines
		if start < 0 {
			start = 0
		}
		for _, event := range detail.Timeline[start:] {
			when := "-"
			if event.Timestamp != nil {
				when = event.Timestamp.Display(time.RFC3339, "-")
			}
			location := "-"
			if event.Location != nil {
				location = *event.Location
			}
			builder.WriteString(fmt.Sprintf("- %s %s at %s\n", when, event.Status.Label(), location))
		}
	}
	builder.WriteString("\n")
}

func (m *boardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *boardModel) loadShipmentsCmd() tea.Cmd {
	if m.shipments == nil {
		return nil
	}
	seq := m.listFence.Next()
	filter := shipment.ListFilter{Status: m.statusFilter, Limit: m.loadLimit}
	return func() tea.Msg {
		page, err := m.shipments.List(m.ctx, filter)
		if err != nil {
			return shipmentsLoadedMsg{seq: seq, err: err}
		}
		return shipmentsLoadedMsg{seq: seq, items: page.Items}
	}
}

func (m *boardModel) loadDetailCmd() tea.Cmd {
	selected, ok := m.selectedShipment()
	if !ok || m.shipments == nil {
		return nil
	}
	seq := m.detailFence.Next()
	return func() tea.Msg {
		detail, err := m.shipments.Detail(m.ctx, selected.ID)
		return detailLoadedMsg{seq: seq, shipmentID: selected.ID, detail: detail, err: err}
	}
}

func (m *boardModel) refreshUnreadCmd() tea.Cmd {
	if m.tracker == nil {
		return nil
	}
	seq := m.unreadFence.Next()
	return func() tea.Msg {
		unread, err := m.tracker.RefreshUnread(m.ctx)
		if err != nil {
			return unreadLoadedMsg{seq: seq, err: err}
		}
		return unreadLoadedMsg{seq: seq, count: len(unread)}
	}
}

func (m *boardModel) waitForChangeCmd() tea.Cmd {
	if m.unsubscribe == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case change := <-m.changes:
			return notificationChangedMsg{change: change}
		case <-m.done:
			return nil
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *boardModel) advanceCmd() tea.Cmd {
	selected, ok := m.selectedShipment()
	if !ok {
		m.status = "no shipment selected"
		return nil
	}
	if _, ok := shipment.NextStatus(selected.Status); !ok {
		m.status = fmt.Sprintf("%s cannot be advanced", selected.Status.Label())
		return nil
	}
	m.status = "advancing..."
	return func() tea.Msg {
		updated, err := m.shipments.Advance(m.ctx, selected.ID, "advanced from console")
		if err != nil {
			return actionDoneMsg{action: "advance", shipmentID: selected.ID, err: err}
		}
		return actionDoneMsg{action: "advance", shipmentID: selected.ID, result: string(updated.Status)}
	}
}

func (m *boardModel) markAllReadCmd() tea.Cmd {
	if m.tracker == nil {
		return nil
	}
	m.status = "marking notifications read..."
	return func() tea.Msg {
		if err := m.tracker.MarkAllRead(m.ctx); err != nil {
			return actionDoneMsg{action: "read-all", err: err}
		}
		return actionDoneMsg{action: "read-all", result: "0 unread"}
	}
}

// onChange runs on the publisher's goroutine. One pending signal is enough
// because the receiver refetches.
func (m *boardModel) onChange(change ports.NotificationChange) {
	select {
	case m.changes <- change:
	default:
	}
}

func (m *boardModel) Close() {
	m.release()
}

func (m *boardModel) release() {
	if m.unsubscribe == nil {
		return
	}
	m.unsubscribe()
	m.unsubscribe = nil
	close(m.done)
}

func (m *boardModel) selectedShipment() (shipment.Shipment, bool) {
	page := m.table.Page()
	if m.selectedIndex < 0 || m.selectedIndex >= len(page) {
		return shipment.Shipment{}, false
	}
	return page[m.selectedIndex], true
}

func (m *boardModel) isSelected(id int64) bool {
	selected, ok := m.selectedShipment()
	return ok && selected.ID == id
}

func (m *boardModel) clampSelection() {
	size := len(m.table.Page())
	if m.selectedIndex >= size {
		m.selectedIndex = size - 1
	}
	if m.selectedIndex < 0 {
		m.selectedIndex = 0
	}
}

func (m *boardModel) appendAuditLog(action string, shipmentID int64, result string, opErr error) {
	outcome := strings.TrimSpace(result)
	if opErr != nil {
		outcome = "error: " + opErr.Error()
	}
	if outcome == "" {
		outcome = "ok"
	}

	timestamp := time.Now().UTC().Format(time.RFC3339)
	line := fmt.Sprintf("%s action=%s shipment=%d result=%s", timestamp, action, shipmentID, outcome)
	m.auditLogs = append([]string{line}, m.auditLogs...)
	if len(m.auditLogs) > maxAuditLines {
		m.auditLogs = m.auditLogs[:maxAuditLines]
	}

	attrs := []slog.Attr{
		slog.String("action", action),
		slog.Int64("shipment_id", shipmentID),
		slog.String("result", outcome),
	}
	if opErr != nil {
		attrs = append(attrs, slog.Any("err", errs.Loggable(opErr)))
		logging.Warn(m.ctx, "board console action failed", attrs...)
		return
	}
	logging.Info(m.ctx, "board console action", attrs...)
}

func progressBar(percent float64, width int) string {
	filled := int(math.Round(percent / 100 * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func formatPercent(percent float64) string {
	return fmt.Sprintf("%.0f%%", percent)
}

func badge(count int) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if count > 0 {
		style = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160"))
	}
	return style.Render(fmt.Sprintf(" %d unread ", count))
}

var tierColors = map[tier.Tier]lipgloss.Color{
	tier.Success:   lipgloss.Color("42"),
	tier.Info:      lipgloss.Color("39"),
	tier.Warning:   lipgloss.Color("214"),
	tier.Error:     lipgloss.Color("160"),
	tier.Secondary: lipgloss.Color("245"),
	tier.Primary:   lipgloss.Color("63"),
}

func tierStyle(value tier.Tier) lipgloss.Style {
	color, ok := tierColors[value]
	if !ok {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(color)
}

func bandStyle(band tier.Band) lipgloss.Style {
	switch band {
	case tier.Positive:
		return tierStyle(tier.Success)
	case tier.Negative:
		return tierStyle(tier.Error)
	default:
		return tierStyle(tier.Warning)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if normalized != "" {
			return normalized
		}
	}
	return ""
}
