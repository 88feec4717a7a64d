package repository

import "gorm.io/gorm/clause"

// lockForUpdate issues SELECT ... FOR UPDATE inside a transaction.
func lockForUpdate() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}
