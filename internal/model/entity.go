package model

import "time"

type Member struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex" json:"username"`
	Password string `json:"-"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
	Team     string `json:"team"`
}

// ReportArchive holds one member's report history as a single JSON blob:
// an array of at most 20 HistoryEntry objects, most-recent-first.
type ReportArchive struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Owner     string    `gorm:"uniqueIndex;size:191" json:"owner"`
	Blob      string    `gorm:"type:longtext" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Member) TableName() string        { return "members" }
func (ReportArchive) TableName() string { return "report_archives" }
