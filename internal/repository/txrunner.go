package repository

import "gorm.io/gorm"

// TxRunner is the transaction boundary used by services. It exists as an
// interface so service tests can run the transactional path without a
// database behind it.
type TxRunner interface {
	Transaction(fn func(tx *gorm.DB) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}
