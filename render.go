package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mrdg/synthbridge/audio"
)

var (
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
	valueStyle  = lipgloss.NewStyle().Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f80"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0c0"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555"))
)

type status struct {
	stats      audio.Stats
	sampleRate float64
	frames     int
	channels   int
	queued     int
	capacity   int
	dropped    uint64
	reports    uint64 // reports dropped
	source     string
	streaming  bool
}

func (s *session) status() status {
	return status{
		stats:      s.sink.Stats(),
		sampleRate: s.cfg.Audio.SampleRate,
		frames:     s.cfg.Audio.FramesPerBuffer,
		channels:   s.cfg.Audio.Channels,
		queued:     s.sender.Len(),
		capacity:   s.sender.Cap(),
		dropped:    s.sender.Dropped(),
		reports:    s.reports.Dropped(),
		source:     s.source,
		streaming:  s.streaming,
	}
}

func renderStatus(st status) string {
	elapsed := time.Duration(st.stats.Timestamp)
	source := st.source
	if source == "" {
		source = "none"
	}
	state := "stopped"
	if st.streaming {
		state = activeStyle.Render("streaming")
	}
	rows := [][2]string{
		{"audio", fmt.Sprintf("%s, %g Hz, %d frames, %d channels", state, st.sampleRate, st.frames, st.channels)},
		{"rendered", fmt.Sprintf("%d chunks, %s", st.stats.Chunks, elapsed.Truncate(time.Millisecond))},
		{"silent", count(st.stats.Silent)},
		{"commands", fmt.Sprintf("%d applied, %d/%d queued", st.stats.Commands, st.queued, st.capacity)},
		{"dropped", count(st.dropped)},
		{"reports lost", count(st.reports)},
		{"midi", source},
	}
	var lines []string
	for _, row := range rows {
		label := labelStyle.Render(fmt.Sprintf("%-12s", row[0]))
		lines = append(lines, label+" "+valueStyle.Render(row[1]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func count(n uint64) string {
	if n == 0 {
		return "0"
	}
	return warnStyle.Render(strconv.FormatUint(n, 10))
}

func renderSources(sources []string, current string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("#", "source", "").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return labelStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for i, name := range sources {
		mark := ""
		if name == current {
			mark = activeStyle.Render("connected")
		}
		t.Row(strconv.Itoa(i), name, mark)
	}
	return strings.TrimRight(t.String(), "\n")
}
