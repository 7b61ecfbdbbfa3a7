package status

import (
	"fmt"
	"math"
	"time"

	"github.com/bnema/pairline/internal/application"
	"github.com/bnema/pairline/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const shortIDLength = 8

type RenderOptions struct {
	Now time.Time
	// StaleAfter flags snapshots older than this relative to Now.
	StaleAfter time.Duration
	// Width cuts every line to this many cells; zero leaves lines whole.
	Width int
}

func renderView(stats application.Stats, opts RenderOptions, s styles) string {
	header := fmt.Sprintf("connected: %d  waiting: %d  sessions: %d active, %d complete",
		stats.Connected, len(stats.Waiting), stats.ActiveSessions, stats.DoneSessions)
	if isStale(stats.GeneratedAt, opts) {
		header += " " + s.warning.Render("[stale]")
	}

	lines := []string{
		s.title.Render("Pairline Lobby"),
		s.header.Render(header),
		s.section.Render(renderWaiting(stats.Waiting, s)),
		s.section.Render(renderSessions(stats.Sessions, opts, s)),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderWaiting(waiting []domain.Name, s styles) string {
	parts := []string{s.heading.Render("Waiting")}
	if len(waiting) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(parts, s.empty.Render("Nobody is waiting."))...)
	}

	for i, name := range waiting {
		parts = append(parts, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.position.Render(fmt.Sprintf("%2d.", i+1)),
			" ",
			s.name.Render(name.String()),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderSessions(sessions []application.SessionView, opts RenderOptions, s styles) string {
	parts := []string{s.heading.Render("Sessions")}
	if len(sessions) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(parts, s.empty.Render("No sessions."))...)
	}

	for _, session := range sessions {
		parts = append(parts, sessionLine(session, opts, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func sessionLine(session application.SessionView, opts RenderOptions, s styles) string {
	state := s.active.Render("[active]")
	if session.State == domain.SessionComplete {
		label := "[complete]"
		if session.Reason != "" {
			label = fmt.Sprintf("[complete: %s]", session.Reason)
		}
		state = s.complete.Render(label)
	}

	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.meta.Render(shortID(session.ID)),
		" ",
		s.session.Render(fmt.Sprintf("%s vs %s", session.Members[0], session.Members[1])),
		" ",
		state,
	)

	if age := sessionAge(session, opts.Now); age != "" {
		line += " " + s.meta.Render("("+age+")")
	}
	return line
}

func shortID(id domain.SessionID) string {
	if len(id) <= shortIDLength {
		return string(id)
	}
	return string(id[:shortIDLength])
}

func sessionAge(session application.SessionView, now time.Time) string {
	if now.IsZero() || session.CreatedAt.IsZero() {
		return ""
	}

	end := now
	if session.CompletedAt != nil {
		end = *session.CompletedAt
	}
	return formatDuration(end.Sub(session.CreatedAt))
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		seconds := int(math.Max(0, math.Round(d.Seconds())))
		return fmt.Sprintf("%ds", seconds)
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

func isStale(generatedAt time.Time, opts RenderOptions) bool {
	if opts.Now.IsZero() || opts.StaleAfter <= 0 || generatedAt.IsZero() {
		return false
	}
	return opts.Now.Sub(generatedAt) > opts.StaleAfter
}
