package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hubble-exchange/web3-onboard/internal/state"
	"github.com/hubble-exchange/web3-onboard/internal/wallet"
)

const labelWidth = 9

// renderMain renders header, slice panel and footer.
func (m Model) renderMain() string {
	styles := m.theme.Styles()
	sections := []string{
		m.renderHeader(styles),
		styles.Panel.Render(m.renderSlices(styles)),
	}
	if len(m.logs) > 0 {
		sections = append(sections, m.renderLogs(styles))
	}
	sections = append(sections, m.renderFooter(styles))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderLogs(styles Styles) string {
	lines := make([]string, len(m.logs))
	for i, line := range m.logs {
		lines[i] = styles.FaintText.Render(truncate(line, m.help.Width))
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to max runes with an ellipsis. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func (m Model) renderHeader(styles Styles) string {
	st := m.state
	parts := []string{styles.Logo.Render("walletsync")}
	if st.App.Name != "" && st.App.Name != "walletsync" {
		parts = append(parts, styles.MutedText.Render(st.App.Name))
	}
	if st.Connected {
		parts = append(parts, styles.StatusStyle("connected").Render(st.Wallet))
	} else {
		parts = append(parts, styles.StatusStyle("disconnected").Render("disconnected"))
	}
	if st.WrongNetwork {
		want := wallet.NetworkName(st.App.NetworkID)
		parts = append(parts, styles.StatusStyle("wrong network").Render("wrong network"),
			styles.WarningText.Render("switch to "+want))
	}
	return styles.Header.Render(strings.Join(parts, "  "))
}

func (m Model) renderSlices(styles Styles) string {
	rows := make([]string, 0, len(wallet.SliceNames))
	for _, slice := range wallet.SliceNames {
		label := styles.MutedText.Render(fmt.Sprintf("%-*s", labelWidth, slice))
		rows = append(rows, label+" "+m.sliceValue(slice, styles)+"  "+m.sliceStatus(slice, styles))
	}
	return strings.Join(rows, "\n")
}

func (m Model) sliceValue(slice string, styles Styles) string {
	st := m.state
	var v string
	switch slice {
	case wallet.SliceAddress:
		v = st.Address
	case wallet.SliceNetwork:
		if st.Phases[slice] == state.PhaseSynced {
			v = wallet.NetworkName(st.Network)
		}
	case wallet.SliceBalance:
		if st.BalanceEther != "" {
			v = st.BalanceEther + " ETH"
		}
	}
	if v == "" {
		return styles.FaintText.Render("-")
	}
	if slice == wallet.SliceNetwork && st.WrongNetwork {
		return styles.DangerText.Render(v)
	}
	return styles.Text.Render(v)
}

func (m Model) sliceStatus(slice string, styles Styles) string {
	if m.state.IsSyncing(slice) {
		return m.spinner.View() + styles.StatusStyle("syncing").Render("syncing")
	}
	phase := m.state.Phases[slice].String()
	return styles.StatusStyle(phase).Render(phase)
}

func (m Model) renderFooter(styles Styles) string {
	line := m.help.View(m.keys)
	if m.status != "" {
		msg := styles.SuccessText.Render(m.status)
		if m.statusErr {
			msg = styles.DangerText.Render(m.status)
		}
		line += "  " + msg
	}
	return styles.Footer.Render(line)
}
