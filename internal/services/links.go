package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// linkTable toggles rows of a (user, target) link table. The table carries a
// unique index on the pair, so a concurrent duplicate that slips past the
// existence check still fails with ErrAlreadyExists. Callers run these inside
// their transaction and record metrics only once it commits.
type linkTable[L any] struct {
	name         string
	targetColumn string
	newLink      func(userID, targetID uint) *L
}

func (t linkTable[L]) exists(tx *gorm.DB, userID, targetID uint) (bool, error) {
	var count int64
	err := tx.Model(new(L)).
		Where("user_id = ? AND "+t.targetColumn+" = ?", userID, targetID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check %s link: %w", t.name, err)
	}
	return count > 0, nil
}

// add inserts the link or fails with ErrAlreadyExists
func (t linkTable[L]) add(tx *gorm.DB, userID, targetID uint) error {
	exists, err := t.exists(tx, userID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s %d: %w", t.name, targetID, ErrAlreadyExists)
	}

	if err := tx.Create(t.newLink(userID, targetID)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%s %d: %w", t.name, targetID, ErrAlreadyExists)
		}
		return fmt.Errorf("create %s link: %w", t.name, err)
	}
	return nil
}

// remove deletes the link or fails with ErrLinkNotFound
func (t linkTable[L]) remove(tx *gorm.DB, userID, targetID uint) error {
	result := tx.Where("user_id = ? AND "+t.targetColumn+" = ?", userID, targetID).Delete(new(L))
	if result.Error != nil {
		return fmt.Errorf("delete %s link: %w", t.name, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", t.name, targetID, ErrLinkNotFound)
	}
	return nil
}

// targetIDs returns which of candidates are linked to userID
func (t linkTable[L]) targetIDs(tx *gorm.DB, userID uint, candidates []uint) (map[uint]bool, error) {
	linked := make(map[uint]bool, len(candidates))
	if userID == 0 || len(candidates) == 0 {
		return linked, nil
	}

	var ids []uint
	err := tx.Model(new(L)).
		Where("user_id = ? AND "+t.targetColumn+" IN ?", userID, candidates).
		Pluck(t.targetColumn, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load %s links: %w", t.name, err)
	}
	for _, id := range ids {
		linked[id] = true
	}
	return linked, nil
}
