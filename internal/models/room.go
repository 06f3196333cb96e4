package models

import (
	"time"

	"github.com/lib/pq"
)

// RoomType categorizes rooms for placement eligibility.
type RoomType string

const (
	RoomTypeClassroom   RoomType = "classroom"
	RoomTypeLaboratory  RoomType = "laboratory"
	RoomTypeComputerLab RoomType = "computer_lab"
	RoomTypeAuditorium  RoomType = "auditorium"
)

// Room represents a bookable teaching space.
type Room struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Type      RoomType       `db:"type" json:"type"`
	Capacity  int            `db:"capacity" json:"capacity"`
	Building  string         `db:"building" json:"building"`
	Equipment pq.StringArray `db:"equipment" json:"equipment"`
	Available bool           `db:"available" json:"available"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// HasEquipment reports whether the room provides every required tag.
func (r Room) HasEquipment(required []string) bool {
	if len(required) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(r.Equipment))
	for _, tag := range r.Equipment {
		have[tag] = struct{}{}
	}
	for _, tag := range required {
		if _, ok := have[tag]; !ok {
			return false
		}
	}
	return true
}

// RoomFilter captures supported filters for listing rooms.
type RoomFilter struct {
	Type        RoomType
	Building    string
	MinCapacity int
	Available   *bool
	Search      string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}
