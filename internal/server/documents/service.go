// Package documents implements the file lifecycle of the dashboard: upload,
// delete, signed-URL issuance and the per-port reconciled document table.
// Within one upload the object write is strictly ordered before the metadata
// insert; within one delete the object removal is strictly ordered before
// the metadata delete. Independent operations are not ordered against each
// other; distinct storage paths keep them from conflicting.
package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dishubaceh/damprah/internal/common"
	"github.com/dishubaceh/damprah/internal/logging"
	"github.com/dishubaceh/damprah/internal/server/auth"
	"github.com/dishubaceh/damprah/internal/server/models"
	"github.com/dishubaceh/damprah/internal/server/preview"
	"github.com/dishubaceh/damprah/internal/server/reconcile"
	"github.com/dishubaceh/damprah/internal/server/registry"
	docrepo "github.com/dishubaceh/damprah/internal/server/repositories/documents"
	"github.com/dishubaceh/damprah/internal/server/storage"
)

// nowMillis is a seam so tests can pin the path timestamp.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

const urlCacheSize = 512

// Service is the file lifecycle controller. It owns the per-port in-memory
// views (the reconciliation engine's state) and the signed-URL cache; the
// metadata store and the gateway remain the durable source of truth.
type Service struct {
	repo    docrepo.Repository
	gateway storage.Gateway
	logger  logging.Logger
	urlTTL  time.Duration

	urlCache *expirable.LRU[string, string]

	mu    sync.Mutex
	views map[string]*reconcile.View
}

// NewService constructs the controller. urlTTL is the issuer-enforced signed
// URL lifetime; cached URLs are dropped earlier so a cache hit never hands
// out a URL that is already expired server-side (still best-effort: a caller
// may race past expiry while using it).
func NewService(repo docrepo.Repository, gateway storage.Gateway, logger logging.Logger, urlTTL time.Duration) *Service {
	cacheTTL := urlTTL - 5*time.Minute
	if cacheTTL <= 0 {
		cacheTTL = urlTTL / 2
	}
	return &Service{
		repo:     repo,
		gateway:  gateway,
		logger:   logger.With("component", "documents"),
		urlTTL:   urlTTL,
		urlCache: expirable.NewLRU[string, string](urlCacheSize, nil, cacheTTL),
		views:    make(map[string]*reconcile.View),
	}
}

// PortDocuments returns the reconciled document table of a port, one row per
// template in registry order. On a metadata failure after a successful first
// load the previous rows are served unchanged (stale=true); before any
// successful load every template reads NotUploaded.
func (s *Service) PortDocuments(ctx context.Context, portID string) ([]reconcile.RowView, bool, error) {
	if _, ok := registry.PortByID(portID); !ok {
		return nil, false, fmt.Errorf("%w: unknown port %q", common.ErrValidation, portID)
	}

	s.mu.Lock()
	view, ok := s.views[portID]
	if !ok {
		view = reconcile.NewView(registry.Templates())
		s.views[portID] = view
	}
	s.mu.Unlock()

	rows, err := s.repo.SelectByPort(ctx, portID)
	if err != nil {
		s.logger.Error(ctx, "port documents query failed, serving last known view",
			"port", portID, "error", err.Error())
		s.mu.Lock()
		defer s.mu.Unlock()
		return view.Rows(), view.Loaded(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	view.Load(rows)
	return view.Rows(), false, nil
}

// FilesForTemplate returns one template's file group, newest first. The
// group is loaded lazily when the file browser opens and always re-queried;
// staleness is low-risk, so no per-template cache is kept.
func (s *Service) FilesForTemplate(ctx context.Context, portID, templateID string) ([]*models.Document, error) {
	if _, ok := registry.PortByID(portID); !ok {
		return nil, fmt.Errorf("%w: unknown port %q", common.ErrValidation, portID)
	}
	if _, ok := registry.TemplateByID(templateID); !ok {
		return nil, fmt.Errorf("%w: unknown template %q", common.ErrValidation, templateID)
	}

	rows, err := s.repo.SelectByPortAndTemplate(ctx, portID, templateID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}
	return rows, nil
}

// Upload writes the file to the gateway and mirrors it into the metadata
// store. The storage path is "<portID>/<templateID>/<unixMillis>_<fileName>"
// and must be preserved exactly; reconciliation of legacy rows depends on
// it. If the object write succeeds but the insert fails, the object stays in
// the bucket and the caller gets an OrphanedObjectError naming its path;
// there is no cross-store transaction to roll the write back.
func (s *Service) Upload(ctx context.Context, sess *auth.Session, portID, templateID, fileName string, body io.Reader, contentType string) (*models.Document, error) {
	if sess == nil || !sess.IsAdmin() {
		return nil, common.ErrForbidden
	}
	if _, ok := registry.PortByID(portID); !ok {
		return nil, fmt.Errorf("%w: unknown port %q", common.ErrValidation, portID)
	}
	if _, ok := registry.TemplateByID(templateID); !ok {
		return nil, fmt.Errorf("%w: unknown template %q", common.ErrValidation, templateID)
	}
	if fileName == "" || body == nil {
		return nil, fmt.Errorf("%w: no file supplied", common.ErrValidation)
	}

	fileName = path.Base(fileName)
	objectPath := fmt.Sprintf("%s/%s/%d_%s", portID, templateID, nowMillis(), fileName)

	if err := s.gateway.Put(ctx, objectPath, body, contentType); err != nil {
		uploadsTotal.WithLabelValues("gateway_error").Inc()
		return nil, err
	}

	doc := &models.Document{
		PortID:     portID,
		TemplateID: templateID,
		FileName:   fileName,
		Path:       objectPath,
		UploadedBy: sess.Name,
	}
	doc, err := s.repo.Insert(ctx, doc)
	if err != nil {
		uploadsTotal.WithLabelValues("orphaned").Inc()
		s.logger.Error(ctx, "metadata insert failed after storage write, object orphaned",
			"path", objectPath, "error", err.Error())
		return nil, &common.OrphanedObjectError{Path: objectPath, Err: err}
	}

	s.patchView(portID, reconcile.Delta{Kind: reconcile.FileAdded, Row: doc})
	uploadsTotal.WithLabelValues("success").Inc()
	s.logger.Info(ctx, "document uploaded", "port", portID, "template", templateID, "path", objectPath)
	return doc, nil
}

// Delete removes a stored file. The object removal goes first; if it fails
// nothing else happens, so the view can never show a file as gone while it
// still exists in storage. The metadata row is then deleted by path with an
// id fallback for normalization mismatches, and the cached signed URL is
// purged.
func (s *Service) Delete(ctx context.Context, sess *auth.Session, documentID string) error {
	if sess == nil || !sess.IsAdmin() {
		return common.ErrForbidden
	}

	doc, err := s.repo.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}

	if err := s.gateway.Remove(ctx, doc.Path); err != nil {
		deletesTotal.WithLabelValues("gateway_error").Inc()
		return err
	}

	n, err := s.repo.DeleteByPath(ctx, doc.Path)
	if err != nil {
		deletesTotal.WithLabelValues("metadata_error").Inc()
		return fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}
	if n == 0 {
		n, err = s.repo.DeleteByID(ctx, doc.ID)
		if err != nil {
			deletesTotal.WithLabelValues("metadata_error").Inc()
			return fmt.Errorf("%w: %v", common.ErrMetadata, err)
		}
		if n == 0 {
			// Row vanished between lookup and delete; the object is gone
			// either way, so just note it.
			s.logger.Warn(ctx, "metadata row already gone on delete", "id", doc.ID, "path", doc.Path)
		}
	}

	s.urlCache.Remove(doc.Path)
	s.patchView(doc.PortID, reconcile.Delta{Kind: reconcile.FileRemoved, Row: doc})
	deletesTotal.WithLabelValues("success").Inc()
	s.logger.Info(ctx, "document deleted", "port", doc.PortID, "path", doc.Path)
	return nil
}

// SignedURL returns a time-limited download URL for a storage path, serving
// from the process-local cache when possible. The cache is a latency
// optimization only; callers must tolerate a stale URL failing at use time.
func (s *Service) SignedURL(ctx context.Context, objectPath string) (string, error) {
	if url, ok := s.urlCache.Get(objectPath); ok {
		signedURLCacheHits.Inc()
		return url, nil
	}
	signedURLCacheMisses.Inc()

	url, err := s.gateway.SignedURL(ctx, objectPath, s.urlTTL)
	if err != nil {
		return "", err
	}
	s.urlCache.Add(objectPath, url)
	return url, nil
}

// Preview resolves a document to a signed URL and the render plan derived
// from its file name.
func (s *Service) Preview(ctx context.Context, documentID string) (*models.Document, preview.RenderPlan, error) {
	doc, err := s.repo.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, preview.RenderPlan{}, common.ErrNotFound
		}
		return nil, preview.RenderPlan{}, fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}

	url, err := s.SignedURL(ctx, doc.Path)
	if err != nil {
		return nil, preview.RenderPlan{}, err
	}

	return doc, preview.Plan(preview.Classify(doc.FileName), url), nil
}

func (s *Service) patchView(portID string, delta reconcile.Delta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if view, ok := s.views[portID]; ok && view.Loaded() {
		view.Apply(delta)
	}
}
