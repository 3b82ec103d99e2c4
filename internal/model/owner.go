package model

import "fmt"

// OwnerInfo decorates a result row with the owning player's resolved profile.
// Username is nil when the lookup failed or the player is unknown.
type OwnerInfo struct {
	UUID     string   `json:"uuid"`
	Username *string  `json:"username"`
	Profiles []string `json:"profiles,omitempty"`
}

// NewOwnerInfo builds the decoration for a player UUID. Profile URLs are
// deterministic string templates over the UUID; no lookups happen here.
func NewOwnerInfo(uuid string, username *string) *OwnerInfo {
	return &OwnerInfo{
		UUID:     uuid,
		Username: username,
		Profiles: []string{
			fmt.Sprintf("https://sky.shiiyu.moe/stats/%s", uuid),
			fmt.Sprintf("https://plancke.io/hypixel/player/stats/%s", uuid),
		},
	}
}
