package documents

import (
	"context"

	"github.com/dishubaceh/damprah/internal/server/models"
)

type Repository interface {
	Insert(ctx context.Context, doc *models.Document) (*models.Document, error)
	SelectByPort(ctx context.Context, portID string) ([]*models.Document, error)
	SelectByPortAndTemplate(ctx context.Context, portID, templateID string) ([]*models.Document, error)
	GetByID(ctx context.Context, id string) (*models.Document, error)
	DeleteByPath(ctx context.Context, path string) (int64, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
}
