package psn

// Wire shapes for the PlayStation Network universal search API.

type searchRequest struct {
	SearchTerm     string          `json:"searchTerm"`
	DomainRequests []domainRequest `json:"domainRequests"`
}

type domainRequest struct {
	Domain string `json:"domain"`
}

type searchResponse struct {
	DomainResponses []domainResponse `json:"domainResponses"`
}

type domainResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	SocialMetadata socialMetadata `json:"socialMetadata"`
}

type socialMetadata struct {
	AccountID string `json:"accountId"`
	OnlineID  string `json:"onlineId"`
	AvatarURL string `json:"avatarUrl"`
	Country   string `json:"country"`
	IsPsPlus  bool   `json:"isPsPlus"`
}
