package model

import "github.com/erazemk/exotics/internal/piece"

// SetPiece is one slot of an assembled set.
type SetPiece struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SetGroup is an ephemeral aggregate of up to four pieces held by one owner,
// matched against a single target color. It is never persisted.
type SetGroup struct {
	OwnerUUID   string                   `json:"owner_uuid"`
	Label       string                   `json:"label"`
	TargetColor string                   `json:"target_color"`
	Rarity      string                   `json:"rarity,omitempty"`
	Pieces      map[piece.Kind]*SetPiece `json:"pieces"`
	Distances   map[piece.Kind]int       `json:"-"`
	MaxDist     int                      `json:"max_distance"`
	AvgDist     float64                  `json:"avg_distance"`
	Exact       bool                     `json:"exact"`
	Owner       *OwnerInfo               `json:"owner,omitempty"`
}
