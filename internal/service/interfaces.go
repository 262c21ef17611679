// Package service defines the interfaces shared between the ledger's layers.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/alertledger/internal/model"
)

// Extractor turns one alert into a statement.
type Extractor interface {
	Extract(text string) (*model.Statement, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Statement operations
	SaveStatement(ctx context.Context, accountID string, stmt *model.Statement) (bool, error)
	SaveStatements(ctx context.Context, accountID string, stmts []*model.Statement) (int, error)
	GetStatement(ctx context.Context, id string) (*model.Statement, error)
	CountStatements(ctx context.Context, accountID string) (int, error)
	ListStatements(ctx context.Context, accountID string, filter model.Filter, cursor string, limit int) (*Page, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Page is one slice of a cursor-paged listing. NextCursor is empty on the
// last page.
type Page struct {
	NextCursor string             `json:"nextCursor,omitempty"`
	Statements []*model.Statement `json:"data"`
	Limit      int                `json:"limit"`
}

// HasMore reports whether another page follows.
func (p *Page) HasMore() bool {
	return p.NextCursor != ""
}

// ImportStats summarises a bulk import run.
type ImportStats struct {
	Total      int
	Inserted   int
	Duplicates int
	Failed     int
	Duration   time.Duration
}
