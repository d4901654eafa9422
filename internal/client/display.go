package client

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	freeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	takenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	mineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
)

// Success renders a confirmation line.
func Success(message string) string {
	return successStyle.Render("✓ " + message)
}

// Error renders a failure line.
func Error(message string) string {
	return errorStyle.Render("✗ " + message)
}

// Info renders a neutral status line.
func Info(message string) string {
	return infoStyle.Render("ℹ " + message)
}

// RenderDay renders one day's slot table. The caller's own reservations are
// highlighted when username is non-empty.
func RenderDay(day DaySchedule, username string) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("── %s ──", day.Day)))
	sb.WriteString("\n")
	for _, slot := range day.Slots {
		label := fmt.Sprintf("  %-13s", slot.TimeSlot)
		switch {
		case slot.Available:
			sb.WriteString(label + freeStyle.Render("available"))
		case username != "" && slot.ReservedBy == username:
			sb.WriteString(label + mineStyle.Render("yours"))
		default:
			sb.WriteString(label + takenStyle.Render("reserved by "+slot.ReservedBy))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderWeek renders the full grid as a compact table, one row per hour and
// one column per day. Free cells show a dash, occupied cells the owner.
func RenderWeek(days []DaySchedule, username string) string {
	if len(days) == 0 {
		return Info("schedule is empty")
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%-13s", "slot")))
	for _, day := range days {
		sb.WriteString(headerStyle.Render(fmt.Sprintf("%-8s", day.Day)))
	}
	sb.WriteString("\n")

	for i, slot := range days[0].Slots {
		sb.WriteString(fmt.Sprintf("%-13s", slot.TimeSlot))
		for _, day := range days {
			if i >= len(day.Slots) {
				continue
			}
			cell := day.Slots[i]
			switch {
			case cell.Available:
				sb.WriteString(freeStyle.Render(fmt.Sprintf("%-8s", "-")))
			case username != "" && cell.ReservedBy == username:
				sb.WriteString(mineStyle.Render(fmt.Sprintf("%-8s", cell.ReservedBy)))
			default:
				sb.WriteString(takenStyle.Render(fmt.Sprintf("%-8s", cell.ReservedBy)))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderReservations lists the caller's bookings.
func RenderReservations(reservations []Reservation) string {
	if len(reservations) == 0 {
		return Info("you have no reservations")
	}
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Your reservations:"))
	sb.WriteString("\n")
	for _, res := range reservations {
		sb.WriteString(fmt.Sprintf("  %s %s\n", res.Day, res.TimeSlot))
	}
	return sb.String()
}
