// Package store persists events, venues and users with gorm. Memory* types
// implement the same methods without a database.
package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user text into an ILIKE substring pattern.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
