package repositories

import (
	"database/sql"

	"gorm.io/gorm"
)

// TxRunner is the transaction contract services depend on. *gorm.DB satisfies
// it; tests substitute a fake that invokes fn directly.
type TxRunner interface {
	Transaction(fn func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}
