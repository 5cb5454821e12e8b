package xbox

// Wire shapes for the xbl.io Xbox Live API.

type searchResponse struct {
	People []person `json:"people"`
}

type person struct {
	XUID           string `json:"xuid"`
	Gamertag       string `json:"gamertag"`
	DisplayPicRaw  string `json:"displayPicRaw"`
	GamerScore     string `json:"gamerScore"`
	PresenceState  string `json:"presenceState"`
	RealName       string `json:"realName"`
	Location       string `json:"location"`
	ModernGamertag string `json:"modernGamertag"`
}

type titlesResponse struct {
	XUID   string  `json:"xuid"`
	Titles []title `json:"titles"`
}

type title struct {
	TitleID      string   `json:"titleId"`
	Name         string   `json:"name"`
	DisplayImage string   `json:"displayImage"`
	Devices      []string `json:"devices"`
	Achievement  struct {
		CurrentAchievements int `json:"currentAchievements"`
		TotalAchievements   int `json:"totalAchievements"`
		CurrentGamerscore   int `json:"currentGamerscore"`
	} `json:"achievement"`
	TitleHistory struct {
		LastTimePlayed string `json:"lastTimePlayed"`
	} `json:"titleHistory"`
}

type titleAchievementsResponse struct {
	Achievements []titleAchievement `json:"achievements"`
}

type titleAchievement struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	LockedDesc    string `json:"lockedDescription"`
	ProgressState string `json:"progressState"`
	Progression   struct {
		TimeUnlocked string `json:"timeUnlocked"`
	} `json:"progression"`
	MediaAssets []mediaAsset `json:"mediaAssets"`
	Rarity      struct {
		CurrentCategory   string  `json:"currentCategory"`
		CurrentPercentage float64 `json:"currentPercentage"`
	} `json:"rarity"`
}

type mediaAsset struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
}
