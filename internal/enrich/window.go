package enrich

import "github.com/gamehub-backend/internal/domain"

// Pagination bounds accepted by ValidateWindow
const (
	MinPageSize = 1
	MaxPageSize = 50
)

// ValidateWindow rejects out-of-range pagination input. page is 1-indexed.
func ValidateWindow(page, limit int) error {
	if page < 1 || limit < MinPageSize || limit > MaxPageSize {
		return domain.ErrInvalidInput
	}
	return nil
}

// Window returns the half-open [start, end) bounds of a 1-indexed page over
// total items, clamped to the available range. Applying the window before
// per-title fetches keeps network cost proportional to page size.
func Window(page, limit, total int) (start, end int) {
	start = (page - 1) * limit
	if start > total {
		start = total
	}
	end = start + limit
	if end > total {
		end = total
	}
	return start, end
}

// PageOf slices a game list down to one page
func PageOf(games []domain.OwnedGame, page, limit int) []domain.OwnedGame {
	start, end := Window(page, limit, len(games))
	return games[start:end]
}
