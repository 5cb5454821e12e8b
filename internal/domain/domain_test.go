package domain

import "testing"

func TestPlatformValid(t *testing.T) {
	for _, p := range []Platform{PlatformSteam, PlatformXbox, PlatformPSN} {
		if !p.Valid() {
			t.Errorf("Platform %q should be valid", p)
		}
	}
	for _, p := range []Platform{"", "nintendo", "STEAM"} {
		if p.Valid() {
			t.Errorf("Platform %q should be invalid", p)
		}
	}
}

func TestPlatinum(t *testing.T) {
	cases := []struct {
		name    string
		summary GameAchievementSummary
		want    bool
	}{
		{"all unlocked", GameAchievementSummary{TotalCount: 10, AchievedCount: 10}, true},
		{"partial", GameAchievementSummary{TotalCount: 10, AchievedCount: 9}, false},
		{"no achievements", GameAchievementSummary{TotalCount: 0, AchievedCount: 0}, false},
	}

	for _, tc := range cases {
		if got := tc.summary.Platinum(); got != tc.want {
			t.Errorf("%s: Platinum() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{Username: "player1", Email: "player@example.com", Password: "supersecret"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Valid request rejected: %v", err)
	}

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"short username", RegisterRequest{Username: "ab", Email: "a@b.com", Password: "supersecret"}},
		{"bad email", RegisterRequest{Username: "player1", Email: "not-an-email", Password: "supersecret"}},
		{"short password", RegisterRequest{Username: "player1", Email: "a@b.com", Password: "short"}},
	}
	for _, tc := range cases {
		if err := tc.req.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}

	// Surrounding whitespace is stripped before validation
	padded := RegisterRequest{Username: "  player1  ", Email: " player@example.com ", Password: "supersecret"}
	if err := padded.Validate(); err != nil {
		t.Errorf("Padded request rejected: %v", err)
	}
	if padded.Username != "player1" {
		t.Errorf("Username not trimmed: %q", padded.Username)
	}
}

func TestUserPlatformID(t *testing.T) {
	steamID := "76561198000000000"
	empty := ""
	user := User{SteamID: &steamID, XboxID: &empty}

	if id, ok := user.PlatformID(PlatformSteam); !ok || id != steamID {
		t.Errorf("PlatformID(steam) = %q, %v", id, ok)
	}
	// An empty string counts as unlinked
	if _, ok := user.PlatformID(PlatformXbox); ok {
		t.Error("Empty xbox_id should report unlinked")
	}
	if _, ok := user.PlatformID(PlatformPSN); ok {
		t.Error("Nil psn_id should report unlinked")
	}
}
