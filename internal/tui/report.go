// SPDX-License-Identifier: MIT
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"glitch/internal/analysis"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75")).Bold(true)
)

// RenderReport formats an analysis report for the terminal. name is shown
// in the title.
func RenderReport(name string, r *analysis.Report) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(name))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%d ch • %d Hz • %d frames • %v\n",
		r.Channels, r.SampleRate, r.Frames, r.Duration)
	sb.WriteString(dimStyle.Render(fmt.Sprintf("spectrum: first %d frames, %s window", r.FFTSize, r.Window)))
	sb.WriteString("\n\n")

	if r.Channels == 0 || r.Frames == 0 {
		sb.WriteString("Empty buffer.\n")
		return sb.String()
	}

	headers := []string{""}
	for ch := range r.Channels {
		headers = append(headers, "ch"+strconv.Itoa(ch))
	}

	rows := [][]string{
		channelRow("peak", r, func(c analysis.ChannelReport, _ int) string { return fmt.Sprintf("%.4f", c.Peak) }),
		channelRow("rms", r, func(c analysis.ChannelReport, _ int) string { return fmt.Sprintf("%.4f", c.RMS) }),
		channelRow("dc", r, func(c analysis.ChannelReport, _ int) string { return fmt.Sprintf("%+.4f", c.DC) }),
		channelRow("cycles", r, func(c analysis.ChannelReport, _ int) string { return strconv.Itoa(c.Cycles) }),
		channelRow("cycle len", r, func(c analysis.ChannelReport, _ int) string {
			return fmt.Sprintf("%.1f", c.MeanCycleLen)
		}),
		channelRow("cycle hz", r, func(_ analysis.ChannelReport, ch int) string {
			return fmt.Sprintf("%.1f", r.CycleHz(ch))
		}),
		channelRow("dominant hz", r, func(c analysis.ChannelReport, _ int) string {
			return fmt.Sprintf("%.1f", c.DominantHz)
		}),
		channelRow("onsets", r, func(c analysis.ChannelReport, _ int) string { return strconv.Itoa(c.Onsets) }),
	}

	// Band rows follow the first channel's band list; every channel uses
	// the same bands.
	for i, be := range r.PerChannel[0].Bands {
		rows = append(rows, channelRow(be.Band.Name, r, func(c analysis.ChannelReport, _ int) string {
			if i >= len(c.Bands) {
				return "-"
			}
			return fmt.Sprintf("%.3f", c.Bands[i].Level)
		}))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return headerStyle
			}
			return cellStyle
		})
	sb.WriteString(t.Render())
	sb.WriteString("\n")

	for ch, c := range r.PerChannel {
		if c.NonFinite > 0 {
			sb.WriteString(warnStyle.Render(fmt.Sprintf("ch%d: %d non-finite samples", ch, c.NonFinite)))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func channelRow(label string, r *analysis.Report, cell func(analysis.ChannelReport, int) string) []string {
	row := []string{label}
	for ch, c := range r.PerChannel {
		row = append(row, cell(c, ch))
	}
	return row
}
