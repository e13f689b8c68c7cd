// Package ordering maintains the integer position column shared by lists and
// cards. Appends are made atomic by locking the parent row inside a
// serializable transaction; moves overwrite position verbatim and never
// renumber siblings, so read paths must order by (position, created_at).
package ordering

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrRowNotFound = errors.New("row not found")

// allowed table/column identifiers; position SQL is built by string
// concatenation, so only known names may pass through.
var (
	tables        = map[string]bool{"boards": true, "lists": true, "cards": true}
	parentColumns = map[string]bool{"board_id": true, "list_id": true}
)

// Serializable returns the transaction options for every position-affecting
// write. The parent-row lock below is the actual serialization point; the
// isolation level backs it up against phantom sibling inserts.
func Serializable() *sql.TxOptions {
	return &sql.TxOptions{Isolation: sql.LevelSerializable}
}

// LockRow takes an exclusive lock on one parent row (the board row for list
// inserts, the list row for card inserts). A concurrent transaction targeting
// the same parent blocks here until the holder commits or rolls back.
func LockRow(tx *gorm.DB, table string, id uint64) error {
	if !tables[table] {
		return fmt.Errorf("unknown table %q", table)
	}
	var lockedID uint64
	err := tx.Raw("SELECT id FROM "+table+" WHERE id = ? FOR UPDATE", id).Scan(&lockedID).Error
	if err != nil {
		return err
	}
	if lockedID == 0 {
		return ErrRowNotFound
	}
	return nil
}

// NextPosition computes the append position over all siblings of parentID.
// Must run inside the same transaction that holds the parent lock.
func NextPosition(tx *gorm.DB, table, parentColumn string, parentID uint64) (int, error) {
	if !tables[table] {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	if !parentColumns[parentColumn] {
		return 0, fmt.Errorf("unknown parent column %q", parentColumn)
	}
	var position int
	err := tx.Raw(
		"SELECT COALESCE(MAX(position), -1) + 1 FROM "+table+" WHERE "+parentColumn+" = ?",
		parentID,
	).Scan(&position).Error
	if err != nil {
		return 0, err
	}
	return position, nil
}
