package steam

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gamehub-backend/internal/config"
	"github.com/gamehub-backend/internal/domain"
)

const testSteamID = "76561198000000000"

var testIdentity = domain.PlayerIdentity{Platform: domain.PlatformSteam, ID: testSteamID}

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewAdapter(&config.VendorConfig{
		APIKey:            "test-key",
		BaseURL:           server.URL,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             100,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestListOwnedGames(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != ownedGamesEndpoint {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Error("API key not sent")
		}
		if r.URL.Query().Get("steamid") != testSteamID {
			t.Errorf("steamid = %s, want %s", r.URL.Query().Get("steamid"), testSteamID)
		}
		if r.URL.Query().Get("include_played_free_games") != "true" {
			t.Error("Free games not requested")
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"response": {
				"game_count": 2,
				"games": [
					{"appid": 440, "name": "Team Fortress 2", "img_icon_url": "e3f595a92552da3d664ad00277fad2107345f743", "playtime_forever": 600, "playtime_2weeks": 120},
					{"appid": 570, "name": "Dota 2", "playtime_forever": 30}
				]
			}
		}`)
	})

	games, err := adapter.ListOwnedGames(context.Background(), testIdentity)
	if err != nil {
		t.Fatalf("ListOwnedGames failed: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("Expected 2 games, got %d", len(games))
	}

	tf2 := games[0]
	if tf2.ExternalGameID != "440" || tf2.Name != "Team Fortress 2" {
		t.Errorf("Game 0 = %s/%s, want 440/Team Fortress 2", tf2.ExternalGameID, tf2.Name)
	}
	if tf2.TotalPlaytimeMinutes != 600 || tf2.RecentPlaytimeMinutes != 120 {
		t.Errorf("Playtime = %d/%d, want 600/120", tf2.TotalPlaytimeMinutes, tf2.RecentPlaytimeMinutes)
	}
	if tf2.IconURL != "https://media.steampowered.com/steamcommunity/public/images/apps/440/e3f595a92552da3d664ad00277fad2107345f743.jpg" {
		t.Errorf("Unexpected icon URL %s", tf2.IconURL)
	}
	// Missing icon hash means no URL
	if games[1].IconURL != "" {
		t.Errorf("Expected empty icon URL without hash, got %s", games[1].IconURL)
	}
}

func TestGetAchievementState(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"playerstats": {
				"steamID": "76561198000000000",
				"gameName": "Half-Life 2",
				"success": true,
				"achievements": [
					{"apiname": "HL2_KILL_ODESSAGUNSHIP", "achieved": 1, "unlocktime": 1600000000},
					{"apiname": "HL2_BEAT_GAME", "achieved": 0, "unlocktime": 0}
				]
			}
		}`)
	})

	states, err := adapter.GetAchievementState(context.Background(), testIdentity, "220")
	if err != nil {
		t.Fatalf("GetAchievementState failed: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("Expected 2 states, got %d", len(states))
	}

	if !states[0].Achieved || states[0].UnlockedAt == nil {
		t.Errorf("State 0 = %+v, want achieved with unlock time", states[0])
	}
	if got := states[0].UnlockedAt.Unix(); got != 1600000000 {
		t.Errorf("UnlockedAt = %d, want 1600000000", got)
	}
	if states[1].Achieved || states[1].UnlockedAt != nil {
		t.Errorf("State 1 = %+v, want locked without unlock time", states[1])
	}
}

func TestGetAchievementStateNoStats(t *testing.T) {
	// Steam answers 400 for titles without achievement stats
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	states, err := adapter.GetAchievementState(context.Background(), testIdentity, "730")
	if err != nil {
		t.Fatalf("Expected no error for stats-less title, got %v", err)
	}
	if len(states) != 0 {
		t.Errorf("Expected empty states, got %d", len(states))
	}
}

func TestGetAchievementStateSuccessFalse(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"playerstats": {"success": false, "error": "Requested app has no stats"}}`)
	})

	states, err := adapter.GetAchievementState(context.Background(), testIdentity, "730")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(states) != 0 {
		t.Errorf("Expected empty states, got %d", len(states))
	}
}

func TestGetAchievementStateUpstreamError(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := adapter.GetAchievementState(context.Background(), testIdentity, "220")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("Expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestGetAchievementSchema(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"game": {
				"gameName": "Half-Life 2",
				"availableGameStats": {
					"achievements": [
						{"name": "HL2_BEAT_GAME", "displayName": "Singularity Collapse", "description": "Destroy the reactor", "icon": "http://i/unlocked.jpg", "icongray": "http://i/locked.jpg"}
					]
				}
			}
		}`)
	})

	defs, err := adapter.GetAchievementSchema(context.Background(), testIdentity, "220")
	if err != nil {
		t.Fatalf("GetAchievementSchema failed: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("Expected 1 definition, got %d", len(defs))
	}
	d := defs[0]
	if d.APIName != "HL2_BEAT_GAME" || d.DisplayName != "Singularity Collapse" {
		t.Errorf("Definition = %+v", d)
	}
	if d.IconURL != "http://i/unlocked.jpg" || d.IconGrayURL != "http://i/locked.jpg" {
		t.Errorf("Icons = %s/%s", d.IconURL, d.IconGrayURL)
	}
}

func TestGetGlobalRarity(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("gameid") != "220" {
			t.Errorf("gameid = %s, want 220", r.URL.Query().Get("gameid"))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"achievementpercentages": {
				"achievements": [
					{"name": "HL2_BEAT_GAME", "percent": 7.3}
				]
			}
		}`)
	})

	rarities, err := adapter.GetGlobalRarity(context.Background(), testIdentity, "220")
	if err != nil {
		t.Fatalf("GetGlobalRarity failed: %v", err)
	}
	if len(rarities) != 1 || rarities[0].GlobalPercent != 7.3 {
		t.Errorf("Rarities = %+v", rarities)
	}
}

func TestResolveIdentity(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("vanityurl") != "gaben" {
			t.Errorf("vanityurl = %s, want gaben", r.URL.Query().Get("vanityurl"))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"response": {"steamid": "76561197960287930", "success": 1}}`)
	})

	id, err := adapter.ResolveIdentity(context.Background(), "gaben")
	if err != nil {
		t.Fatalf("ResolveIdentity failed: %v", err)
	}
	if id != "76561197960287930" {
		t.Errorf("Resolved ID = %s", id)
	}
}

func TestResolveIdentityNoMatch(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"response": {"success": 42, "message": "No match"}}`)
	})

	_, err := adapter.ResolveIdentity(context.Background(), "nobody-here")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"response": {
				"players": [
					{"steamid": "76561198000000000", "personaname": "TestPlayer", "profileurl": "https://steamcommunity.com/id/testplayer/", "avatarfull": "http://a/full.jpg", "loccountrycode": "DE"}
				]
			}
		}`)
	})

	profile, err := adapter.GetProfile(context.Background(), testIdentity)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.Platform != domain.PlatformSteam || profile.ID != testSteamID {
		t.Errorf("Profile identity = %s/%s", profile.Platform, profile.ID)
	}
	if profile.DisplayName != "TestPlayer" || profile.Region != "DE" {
		t.Errorf("Profile = %+v", profile)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"response": {"players": []}}`)
	})

	_, err := adapter.GetProfile(context.Background(), testIdentity)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
