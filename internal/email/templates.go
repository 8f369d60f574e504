package email

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/a-h/templ"
)

type Message struct {
	Subject string
	Body    string
}

type TeamsDetails struct {
	GameDayID int64
	Date      time.Time
	BaseURL   string
	TeamA     []string
	TeamB     []string
}

func FormatGameDate(date time.Time) string {
	if date.IsZero() {
		return "TBD"
	}
	return date.Format("Monday, Jan 2, 2006")
}

// GameDayURL links to the game day page.
func GameDayURL(baseURL string, gameDayID int64) string {
	return fmt.Sprintf("%s/footy/day/%d", strings.TrimRight(baseURL, "/"), gameDayID)
}

// BuildTeamsEmail renders the team announcement with both rosters sorted by name.
func BuildTeamsEmail(ctx context.Context, details TeamsDetails) (Message, error) {
	details.TeamA = sortedNames(details.TeamA)
	details.TeamB = sortedNames(details.TeamB)

	var buf bytes.Buffer
	if err := TeamsComponent(details).Render(ctx, &buf); err != nil {
		return Message{}, fmt.Errorf("render teams email: %w", err)
	}

	return Message{
		Subject: fmt.Sprintf("Footy teams for %s", FormatGameDate(details.Date)),
		Body:    buf.String(),
	}, nil
}

// TeamsComponent renders the HTML announcement body.
func TeamsComponent(details TeamsDetails) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		link := GameDayURL(details.BaseURL, details.GameDayID)
		if _, err := io.WriteString(w, fmt.Sprintf(`<p>Teams for %s are in.</p>`, html.EscapeString(FormatGameDate(details.Date)))); err != nil {
			return err
		}
		if err := writeRoster(w, "Team A", details.TeamA); err != nil {
			return err
		}
		if err := writeRoster(w, "Team B", details.TeamB); err != nil {
			return err
		}
		_, err := io.WriteString(w, fmt.Sprintf(`<p><a href="%s">See the game page</a></p>`, html.EscapeString(link)))
		return err
	})
}

func writeRoster(w io.Writer, title string, names []string) error {
	var b strings.Builder
	b.WriteString(`<h3>`)
	b.WriteString(html.EscapeString(title))
	b.WriteString(`</h3><ul>`)
	for _, name := range names {
		b.WriteString(`<li>`)
		b.WriteString(html.EscapeString(name))
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul>`)
	_, err := io.WriteString(w, b.String())
	return err
}

func sortedNames(names []string) []string {
	sorted := append([]string(nil), names...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := strings.ToLower(sorted[i]), strings.ToLower(sorted[j])
		if a != b {
			return a < b
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}
