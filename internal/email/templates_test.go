package email

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestBuildTeamsEmailSortsRostersAndLinksGameDay(t *testing.T) {
	msg, err := BuildTeamsEmail(context.Background(), TeamsDetails{
		GameDayID: 42,
		Date:      time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC),
		BaseURL:   "https://footy.example.com/",
		TeamA:     []string{"zoe", "Adam", "mike"},
		TeamB:     []string{"Bob", "alice"},
	})
	if err != nil {
		t.Fatalf("BuildTeamsEmail: %v", err)
	}

	if msg.Subject != "Footy teams for Wednesday, Mar 6, 2024" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, `href="https://footy.example.com/footy/day/42"`) {
		t.Fatalf("body missing game day link: %s", msg.Body)
	}

	teamA := "<h3>Team A</h3><ul><li>Adam</li><li>mike</li><li>zoe</li></ul>"
	teamB := "<h3>Team B</h3><ul><li>alice</li><li>Bob</li></ul>"
	if !strings.Contains(msg.Body, teamA) {
		t.Fatalf("team A roster not sorted: %s", msg.Body)
	}
	if !strings.Contains(msg.Body, teamB) {
		t.Fatalf("team B roster not sorted: %s", msg.Body)
	}
	if strings.Index(msg.Body, teamA) > strings.Index(msg.Body, teamB) {
		t.Fatalf("team A should be listed before team B")
	}
}

func TestBuildTeamsEmailEscapesNames(t *testing.T) {
	msg, err := BuildTeamsEmail(context.Background(), TeamsDetails{
		GameDayID: 1,
		BaseURL:   "http://localhost:8080",
		TeamA:     []string{"<script>"},
		TeamB:     []string{"O'Neil & Sons"},
	})
	if err != nil {
		t.Fatalf("BuildTeamsEmail: %v", err)
	}
	if strings.Contains(msg.Body, "<script>") {
		t.Fatalf("name was not escaped: %s", msg.Body)
	}
	if !strings.Contains(msg.Body, "O&#39;Neil &amp; Sons") {
		t.Fatalf("expected escaped name in body: %s", msg.Body)
	}
	if msg.Subject != "Footy teams for TBD" {
		t.Fatalf("subject = %q", msg.Subject)
	}
}

func TestBuildTeamsEmailDoesNotReorderCallerSlices(t *testing.T) {
	teamA := []string{"b", "a"}
	if _, err := BuildTeamsEmail(context.Background(), TeamsDetails{TeamA: teamA}); err != nil {
		t.Fatalf("BuildTeamsEmail: %v", err)
	}
	if teamA[0] != "b" {
		t.Fatalf("caller slice was modified: %v", teamA)
	}
}
