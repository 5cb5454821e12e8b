package steam

// Wire shapes for the Steam Web API. Every field the adapter reads is
// declared explicitly; absent fields decode to their zero value.

type ownedGamesEnvelope struct {
	Response struct {
		GameCount int         `json:"game_count"`
		Games     []ownedGame `json:"games"`
	} `json:"response"`
}

type ownedGame struct {
	AppID           int64  `json:"appid"`
	Name            string `json:"name"`
	ImgIconURL      string `json:"img_icon_url"`
	PlaytimeForever int64  `json:"playtime_forever"`
	Playtime2Weeks  int64  `json:"playtime_2weeks"`
}

type playerAchievementsEnvelope struct {
	PlayerStats struct {
		SteamID      string              `json:"steamID"`
		GameName     string              `json:"gameName"`
		Achievements []playerAchievement `json:"achievements"`
		Success      bool                `json:"success"`
		Error        string              `json:"error"`
	} `json:"playerstats"`
}

type playerAchievement struct {
	APIName    string `json:"apiname"`
	Achieved   int    `json:"achieved"`
	UnlockTime int64  `json:"unlocktime"`
}

type schemaEnvelope struct {
	Game struct {
		GameName           string `json:"gameName"`
		AvailableGameStats struct {
			Achievements []schemaAchievement `json:"achievements"`
		} `json:"availableGameStats"`
	} `json:"game"`
}

type schemaAchievement struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IconGray    string `json:"icongray"`
}

type globalPercentagesEnvelope struct {
	AchievementPercentages struct {
		Achievements []globalPercentage `json:"achievements"`
	} `json:"achievementpercentages"`
}

type globalPercentage struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

type vanityEnvelope struct {
	Response struct {
		SteamID string `json:"steamid"`
		Success int    `json:"success"`
		Message string `json:"message"`
	} `json:"response"`
}

type playerSummariesEnvelope struct {
	Response struct {
		Players []playerSummary `json:"players"`
	} `json:"response"`
}

type playerSummary struct {
	SteamID        string `json:"steamid"`
	PersonaName    string `json:"personaname"`
	ProfileURL     string `json:"profileurl"`
	AvatarFull     string `json:"avatarfull"`
	LocCountryCode string `json:"loccountrycode"`
}
