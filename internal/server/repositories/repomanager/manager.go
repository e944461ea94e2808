package repomanager

import (
	"context"
	"database/sql"

	"github.com/dishubaceh/damprah/internal/dbx"
	"github.com/dishubaceh/damprah/internal/server/repositories/documents"
	"github.com/dishubaceh/damprah/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Documents(db dbx.DBTX) documents.Repository
}
