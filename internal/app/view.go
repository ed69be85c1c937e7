package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nateberkopec/toastdemo/internal/toast"
)

const (
	titleHeight  = 1
	helpHeight   = 1
	inputHeight  = 3
	statusHeight = 1

	columnGap = "  "
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("247"))

	rowStyle = lipgloss.NewStyle()

	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("57")).
				Foreground(lipgloss.Color("230"))

	statusNeutralStyle = lipgloss.NewStyle()
	statusErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	statusSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("120"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	inputStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputFocusedStyle = inputStyle.BorderForeground(lipgloss.Color("105"))

	toastBaseStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	toastTitleStyle = lipgloss.NewStyle().Bold(true)
)

var toastColors = map[toast.Category]lipgloss.Color{
	toast.CategorySuccess: lipgloss.Color("120"),
	toast.CategoryError:   lipgloss.Color("203"),
	toast.CategoryWarning: lipgloss.Color("221"),
	toast.CategoryInfo:    lipgloss.Color("75"),
	toast.CategoryLoading: lipgloss.Color("245"),
}

func renderView(m *Model) string {
	if m.width == 0 || m.height == 0 {
		return "Loading…"
	}

	var out []string
	out = append(out, renderHeader(m))
	out = append(out, renderBody(m))
	out = append(out, renderHelpText(m))
	out = append(out, renderInputField(m))
	out = append(out, renderStatusLine(m))

	return strings.Join(out, "\n")
}

func renderHeader(m *Model) string {
	desktop := "off"
	if m.desktopNotify {
		desktop = "on"
	}
	text := fmt.Sprintf("toastdemo • %d active • desktop: %s", m.registry.Len(), desktop)
	return titleStyle.Width(m.width).Render(pad(text, m.width))
}

func renderBody(m *Model) string {
	height := m.bodyHeight()
	toastWidth := toastColumnWidth(m.width)
	gapWidth := lipgloss.Width(columnGap)
	actionsWidth := max(1, m.width-toastWidth-gapWidth)

	left := renderActions(m, actionsWidth, height)
	right := renderToasts(m, toastWidth, height, actionsWidth+gapWidth)
	gap := strings.TrimSuffix(strings.Repeat(columnGap+"\n", height), "\n")

	return lipgloss.JoinHorizontal(lipgloss.Top, left, gap, right)
}

func renderActions(m *Model, width, height int) string {
	lines := []string{headerStyle.Render(pad("Demo actions", width))}
	for i, action := range demoActions {
		label := truncate(fmt.Sprintf("[%s] %s", strings.Join(action.keys, "/"), action.label), width)
		if i == m.selectedIndex && m.focus == focusActions {
			lines = append(lines, selectedRowStyle.Width(width).Render(label))
		} else {
			lines = append(lines, rowStyle.Width(width).Render(label))
		}
	}
	return fillLines(lines, width, height)
}

// renderToasts draws the stack oldest first and records where each toast
// landed so clicks can dismiss it.
func renderToasts(m *Model, width, height, left int) string {
	m.toastAreas = m.toastAreas[:0]
	active := m.registry.Active()

	if len(active) == 0 {
		return fillLines([]string{helpStyle.Render(pad("No toasts", width))}, width, height)
	}

	var lines []string
	shown := 0
	for _, msg := range active {
		box := renderToast(msg, width, m.spin.View())
		boxLines := strings.Split(box, "\n")
		if len(lines)+len(boxLines) > height {
			break
		}
		m.toastAreas = append(m.toastAreas, toastArea{
			area: area{
				top:    titleHeight + len(lines),
				height: len(boxLines),
				left:   left,
				width:  width,
			},
			id: msg.ID,
		})
		lines = append(lines, boxLines...)
		shown++
	}

	if hidden := len(active) - shown; hidden > 0 && len(lines) < height {
		lines = append(lines, helpStyle.Render(pad(fmt.Sprintf("+%d more", hidden), width)))
	}
	return fillLines(lines, width, height)
}

func renderToast(msg toast.Message, width int, spin string) string {
	inner := max(1, width-4)
	heading := fmt.Sprintf("%s %s", categoryIcon(msg.Category, spin), msg.Title)

	lines := []string{toastTitleStyle.Render(truncate(heading, inner))}
	if msg.Body != "" {
		lines = append(lines, truncate(msg.Body, inner))
	}

	style := toastBaseStyle.BorderForeground(toastColors[msg.Category])
	return style.Width(max(1, width-2)).Render(strings.Join(lines, "\n"))
}

func categoryIcon(category toast.Category, spin string) string {
	switch category {
	case toast.CategorySuccess:
		return "✔"
	case toast.CategoryError:
		return "✖"
	case toast.CategoryWarning:
		return "!"
	case toast.CategoryLoading:
		return spin
	default:
		return "i"
	}
}

func renderHelpText(m *Model) string {
	help := "[s/e/w/i/l] show • [d] dismiss newest • [D] dismiss all • [click] dismiss • [tab] type • [q] quit"
	return helpStyle.Width(m.width).Render(pad(truncate(help, m.width), m.width))
}

func renderStatusLine(m *Model) string {
	msg := m.status.text

	style := statusNeutralStyle
	switch m.status.kind {
	case statusError:
		style = statusErrorStyle
	case statusSuccess:
		style = statusSuccessStyle
	}

	return style.Width(m.width).Render(pad(msg, m.width))
}

func renderInputField(m *Model) string {
	view := m.input.View()
	if m.focus == focusInput {
		return inputFocusedStyle.Render(view)
	}
	return inputStyle.Render(view)
}

func toastColumnWidth(total int) int {
	w := total / 2
	if w > 44 {
		w = 44
	}
	if w < 16 {
		w = 16
	}
	return w
}

func fillLines(lines []string, width, height int) string {
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", max(0, width)))
	}
	return strings.Join(lines[:height], "\n")
}

func truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(text) <= width {
		return text
	}
	if width <= 1 {
		return lipgloss.NewStyle().MaxWidth(1).Render(text)
	}
	trimmed := lipgloss.NewStyle().MaxWidth(width - 1).Render(text)
	return trimmed + "…"
}

func pad(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
