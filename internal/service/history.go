package service

import (
	"context"
	"encoding/json"
	"fmt"

	"report-forge/internal/logger"
	"report-forge/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// historyCap bounds each member's archive: the 20 most recent reports,
// newest first.
const historyCap = 20

// HistoryService persists each member's report history as one JSON blob,
// overwritten whole on every save. Single writer per owner, so no lock
// discipline is needed beyond the row upsert.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService { return &HistoryService{db: db} }

// Save prepends the entry to the owner's archive and truncates to the cap.
func (s *HistoryService) Save(ctx context.Context, owner string, entry model.HistoryEntry) error {
	entries, err := s.Load(ctx, owner)
	if err != nil {
		return err
	}
	entries = prependCapped(entries, entry, historyCap)

	blob, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	rec := model.ReportArchive{Owner: owner, Blob: string(blob)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}},
		DoUpdates: clause.AssignmentColumns([]string{"blob", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	return nil
}

// Load returns the owner's archive, newest first. A missing or corrupt blob
// reads as empty history; storage trouble is never fatal to the caller.
func (s *HistoryService) Load(ctx context.Context, owner string) ([]model.HistoryEntry, error) {
	var rec model.ReportArchive
	err := s.db.WithContext(ctx).Where("owner = ?", owner).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return []model.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return decodeHistory(owner, rec.Blob), nil
}

func decodeHistory(owner, blob string) []model.HistoryEntry {
	var entries []model.HistoryEntry
	if err := json.Unmarshal([]byte(blob), &entries); err != nil {
		logger.Warn("history blob unreadable, treating as empty", "owner", owner, "err", err)
		return []model.HistoryEntry{}
	}
	return entries
}

func prependCapped(entries []model.HistoryEntry, entry model.HistoryEntry, limit int) []model.HistoryEntry {
	out := make([]model.HistoryEntry, 0, len(entries)+1)
	out = append(out, entry)
	out = append(out, entries...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
