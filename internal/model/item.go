package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Item represents one collectible armor piece. Rows are written by the bulk
// importer and read-only afterwards.
type Item struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"` // canonical "#RRGGBB", empty if undyed
	Rarity    string    `json:"rarity,omitempty"`
	Price     float64   `json:"price,omitempty"`
	Extra     ItemExtra `json:"extra"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemExtra is the typed view of the item's JSON side channel. Parsed once at
// the row-loading boundary; unknown keys are ignored, malformed payloads leave
// the zero value.
type ItemExtra struct {
	OwnerUUID string `json:"owner_playerUuid,omitempty"`
	Reforge   string `json:"reforge,omitempty"`
}

// ParseExtra decodes a raw side-channel payload. A malformed payload is not an
// error at this level; the caller gets the zero value and the row stays usable
// for paths that don't need an owner.
func ParseExtra(raw string) ItemExtra {
	var extra ItemExtra
	if raw == "" {
		return extra
	}
	if err := json.Unmarshal([]byte(raw), &extra); err != nil {
		return ItemExtra{}
	}
	return extra
}

// ReforgeLabel is the display form of the reforge modifier, e.g.
// "ancient" -> "Ancient".
func (e ItemExtra) ReforgeLabel() string {
	if e.Reforge == "" {
		return ""
	}
	return strings.ToUpper(e.Reforge[:1]) + strings.ToLower(e.Reforge[1:])
}
