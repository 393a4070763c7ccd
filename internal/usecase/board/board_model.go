package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"remedia/internal/ports"
	"remedia/internal/usecase/transition"
)

const maxShownHistory = 6

// Options configures the review board.
type Options struct {
	TenantID        string
	Actor           string
	RefreshInterval time.Duration
}

type boardModel struct {
	ctx             context.Context
	service         *transition.Service
	tenantID        string
	actor           string
	refreshInterval time.Duration

	capas         []ports.Capa
	selectedIndex int
	detail        transition.CapaDetail
	hasDetail     bool
	status        string
}

type capasLoadedMsg struct {
	items []ports.Capa
	err   error
}

type detailLoadedMsg struct {
	capaID string
	detail transition.CapaDetail
	err    error
}

type actionDoneMsg struct {
	action string
	capaID string
	result string
	err    error
}

type tickMsg struct{}

// NewBoardModel builds the CAPA review board for one tenant.
func NewBoardModel(ctx context.Context, service *transition.Service, options Options) tea.Model {
	actor := strings.TrimSpace(options.Actor)
	if actor == "" {
		actor = "console"
	}
	interval := options.RefreshInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &boardModel{
		ctx:             ctx,
		service:         service,
		tenantID:        strings.TrimSpace(options.TenantID),
		actor:           actor,
		refreshInterval: interval,
		status:          "loading",
	}
}

func (m *boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCapasCmd(), m.tickCmd())
}

func (m *boardModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tickMsg:
		return m, tea.Batch(m.loadCapasCmd(), m.tickCmd())
	case capasLoadedMsg:
		if msg.err != nil {
			m.status = "refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.capas = msg.items
		if len(m.capas) == 0 {
			m.selectedIndex = 0
			m.hasDetail = false
			m.status = "no capas for tenant"
			return m, nil
		}
		if m.selectedIndex >= len(m.capas) {
			m.selectedIndex = len(m.capas) - 1
		}
		m.status = fmt.Sprintf("refreshed, %d capas", len(m.capas))
		return m, m.loadSelectedDetailCmd()
	case detailLoadedMsg:
		if !m.isSelected(msg.capaID) {
			return m, nil
		}
		if msg.err != nil {
			m.hasDetail = false
			m.status = "detail load failed: " + msg.err.Error()
			return m, nil
		}
		m.detail = msg.detail
		m.hasDetail = true
		return m, nil
	case actionDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
		} else {
			m.status = fmt.Sprintf("%s: %s", msg.action, msg.result)
		}
		return m, m.loadCapasCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "g":
			m.status = "refreshing"
			return m, m.loadCapasCmd()
		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		case "down", "j":
			if m.selectedIndex < len(m.capas)-1 {
				m.selectedIndex++
				return m, m.loadSelectedDetailCmd()
			}
			return m, nil
		case "c":
			return m, m.cascadeCmd()
		case "1", "2", "3":
			return m, m.transitionCmd(int(msg.String()[0] - '1'))
		}
	}
	return m, nil
}

func (m *boardModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62"))

	var builder strings.Builder
	builder.WriteString(titleStyle.Render("Remedia Review Board"))
	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render(fmt.Sprintf(
		"tenant=%s actor=%s refresh=%s",
		m.tenantID,
		m.actor,
		m.refreshInterval,
	)))
	builder.WriteString("\n\n")

	builder.WriteString(sectionStyle.Render("CAPAs"))
	builder.WriteString("\n")
	if len(m.capas) == 0 {
		builder.WriteString(dimStyle.Render("- none"))
		builder.WriteString("\n")
	}
	for i, capa := range m.capas {
		line := fmt.Sprintf("%-12s %s", capa.Status, capa.Title)
		if i == m.selectedIndex {
			builder.WriteString(selectedStyle.Render("> " + line))
		} else {
			builder.WriteString("  " + line)
		}
		builder.WriteString("\n")
	}

	if m.hasDetail {
		builder.WriteString("\n")
		builder.WriteString(sectionStyle.Render("Detail"))
		builder.WriteString("\n")
		builder.WriteString(fmt.Sprintf("id=%s status=%s\n", m.detail.Capa.CapaID, m.detail.Capa.Status))
		if m.detail.Capa.IssueID != nil {
			builder.WriteString(dimStyle.Render("finding: " + *m.detail.Capa.IssueID))
			builder.WriteString("\n")
		}

		builder.WriteString(sectionStyle.Render("Tasks"))
		builder.WriteString("\n")
		if len(m.detail.Tasks) == 0 {
			builder.WriteString(dimStyle.Render("- none"))
			builder.WriteString("\n")
		}
		for _, task := range m.detail.Tasks {
			builder.WriteString(fmt.Sprintf("  %-12s %s\n", task.Status, task.Name))
		}

		builder.WriteString(sectionStyle.Render("Next"))
		builder.WriteString("\n")
		if len(m.detail.AllowedNext) == 0 {
			builder.WriteString(dimStyle.Render("- terminal"))
			builder.WriteString("\n")
		}
		for i, status := range m.detail.AllowedNext {
			builder.WriteString(fmt.Sprintf("  [%d] %s\n", i+1, status))
		}

		builder.WriteString(sectionStyle.Render("History"))
		builder.WriteString("\n")
		if len(m.detail.History) == 0 {
			builder.WriteString(dimStyle.Render("- empty"))
			builder.WriteString("\n")
		}
		shown := m.detail.History
		if len(shown) > maxShownHistory {
			shown = shown[:maxShownHistory]
		}
		for _, row := range shown {
			previous := "-"
			if row.PreviousStatus != nil {
				previous = *row.PreviousStatus
			}
			builder.WriteString(fmt.Sprintf("  %s -> %s by %s (%s)\n", previous, row.NewStatus, row.ChangedByUserID, row.Source))
		}
	}

	builder.WriteString("\n")
	builder.WriteString(dimStyle.Render("keys: j/k move  1-3 transition  c cascade  g refresh  q quit"))
	builder.WriteString("\n")
	builder.WriteString(m.status)
	builder.WriteString("\n")
	return builder.String()
}

func (m *boardModel) isSelected(capaID string) bool {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.capas) {
		return false
	}
	return m.capas[m.selectedIndex].CapaID == capaID
}

func (m *boardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *boardModel) loadCapasCmd() tea.Cmd {
	return func() tea.Msg {
		items, err := m.service.ListCapas(m.ctx, m.tenantID)
		return capasLoadedMsg{items: items, err: err}
	}
}

func (m *boardModel) loadSelectedDetailCmd() tea.Cmd {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.capas) {
		return nil
	}
	capaID := m.capas[m.selectedIndex].CapaID

	return func() tea.Msg {
		detail, err := m.service.GetCapaDetail(m.ctx, m.tenantID, capaID)
		return detailLoadedMsg{capaID: capaID, detail: detail, err: err}
	}
}

func (m *boardModel) transitionCmd(index int) tea.Cmd {
	if !m.hasDetail || index < 0 || index >= len(m.detail.AllowedNext) {
		return nil
	}
	capaID := m.detail.Capa.CapaID
	target := m.detail.AllowedNext[index]

	return func() tea.Msg {
		updated, err := m.service.UpdateCapaStatus(m.ctx, m.tenantID, capaID, transition.StatusChangeInput{
			Status: string(target),
			Reason: "console transition",
		}, m.actor)
		if err != nil {
			return actionDoneMsg{action: "transition", capaID: capaID, err: err}
		}
		return actionDoneMsg{action: "transition", capaID: capaID, result: string(updated.Status)}
	}
}

func (m *boardModel) cascadeCmd() tea.Cmd {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.capas) {
		return nil
	}
	capaID := m.capas[m.selectedIndex].CapaID

	return func() tea.Msg {
		updated, err := m.service.CheckAndCascadeCapaClose(m.ctx, m.tenantID, capaID, m.actor)
		if err != nil {
			return actionDoneMsg{action: "cascade", capaID: capaID, err: err}
		}
		if updated == nil {
			return actionDoneMsg{action: "cascade", capaID: capaID, result: "not applicable"}
		}
		return actionDoneMsg{action: "cascade", capaID: capaID, result: string(updated.Status)}
	}
}
