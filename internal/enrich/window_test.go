package enrich

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gamehub-backend/internal/domain"
)

func TestValidateWindow(t *testing.T) {
	cases := []struct {
		page, limit int
		wantErr     bool
	}{
		{1, 1, false},
		{1, 10, false},
		{1, 50, false},
		{7, 25, false},
		{0, 10, true},
		{-1, 10, true},
		{1, 0, true},
		{1, -5, true},
		{1, 51, true},
	}

	for _, tc := range cases {
		err := ValidateWindow(tc.page, tc.limit)
		if tc.wantErr && !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("ValidateWindow(%d, %d) = %v, want ErrInvalidInput", tc.page, tc.limit, err)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("ValidateWindow(%d, %d) = %v, want nil", tc.page, tc.limit, err)
		}
	}
}

func TestWindow(t *testing.T) {
	cases := []struct {
		page, limit, total int
		wantStart, wantEnd int
	}{
		{1, 5, 12, 0, 5},
		{2, 5, 12, 5, 10},
		{3, 5, 12, 10, 12},
		{4, 5, 12, 12, 12},
		{10, 5, 12, 12, 12},
		{1, 50, 3, 0, 3},
		{1, 5, 0, 0, 0},
	}

	for _, tc := range cases {
		start, end := Window(tc.page, tc.limit, tc.total)
		if start != tc.wantStart || end != tc.wantEnd {
			t.Errorf("Window(%d, %d, %d) = [%d, %d), want [%d, %d)",
				tc.page, tc.limit, tc.total, start, end, tc.wantStart, tc.wantEnd)
		}
	}
}

func TestPageOf(t *testing.T) {
	games := make([]domain.OwnedGame, 12)
	for i := range games {
		games[i] = domain.OwnedGame{ExternalGameID: fmt.Sprintf("game-%d", i)}
	}

	page := PageOf(games, 2, 5)
	if len(page) != 5 {
		t.Fatalf("Expected 5 games on page 2, got %d", len(page))
	}
	if page[0].ExternalGameID != "game-5" || page[4].ExternalGameID != "game-9" {
		t.Errorf("Expected games 5-9 on page 2, got %s..%s", page[0].ExternalGameID, page[4].ExternalGameID)
	}

	// Past the end of the list
	empty := PageOf(games, 5, 5)
	if len(empty) != 0 {
		t.Errorf("Expected empty page past the end, got %d games", len(empty))
	}
}
