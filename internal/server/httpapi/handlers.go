package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dishubaceh/damprah/internal/common"
	"github.com/dishubaceh/damprah/internal/server/models"
	"github.com/dishubaceh/damprah/internal/server/registry"
)

const maxUploadSize = 64 << 20 // 64 MiB

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type userResponse struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User: userResponse{
			ID:    res.User.ID,
			Email: res.User.Email,
			Name:  res.User.Name,
			Role:  res.User.Role,
		},
	})
}

type portResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Region string  `json:"region"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

func (s *Server) handlePorts(w http.ResponseWriter, r *http.Request) {
	ports := registry.Ports()
	resp := make([]portResponse, 0, len(ports))
	for _, p := range ports {
		resp = append(resp, portResponse{ID: p.ID, Name: p.Name, Region: p.Region, Lat: p.Lat, Lng: p.Lng})
	}
	writeJSON(w, http.StatusOK, resp)
}

type rowResponse struct {
	TemplateID     string     `json:"template_id"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	FileCount      int        `json:"file_count"`
	LastFileName   string     `json:"last_file_name,omitempty"`
	LastUploadedAt *time.Time `json:"last_uploaded_at,omitempty"`
	Note           string     `json:"note,omitempty"`
}

type portDocumentsResponse struct {
	Port  portResponse  `json:"port"`
	Rows  []rowResponse `json:"rows"`
	Stale bool          `json:"stale"`
}

func (s *Server) handlePortDocuments(w http.ResponseWriter, r *http.Request) {
	portID := chi.URLParam(r, "portID")

	port, ok := registry.PortByID(portID)
	if !ok {
		writeErrorMessage(w, http.StatusNotFound, "unknown port")
		return
	}

	rows, stale, err := s.documents.PortDocuments(r.Context(), portID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := portDocumentsResponse{
		Port:  portResponse{ID: port.ID, Name: port.Name, Region: port.Region, Lat: port.Lat, Lng: port.Lng},
		Rows:  make([]rowResponse, 0, len(rows)),
		Stale: stale,
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, rowResponse{
			TemplateID:     row.TemplateID,
			Title:          row.Title,
			Status:         string(row.Status),
			FileCount:      row.FileCount,
			LastFileName:   row.LastFileName,
			LastUploadedAt: row.LastUploadedAt,
			Note:           row.Note,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type fileResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	Path       string    `json:"path"`
	UploadedAt time.Time `json:"uploaded_at"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	URL        string    `json:"url,omitempty"`
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	portID := chi.URLParam(r, "portID")
	templateID := chi.URLParam(r, "templateID")

	docs, err := s.documents.FilesForTemplate(r.Context(), portID, templateID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]fileResponse, 0, len(docs))
	for _, doc := range docs {
		fr := fileResponse{
			ID:         doc.ID,
			FileName:   doc.FileName,
			Path:       doc.Path,
			UploadedAt: doc.UploadedAt,
			UploadedBy: doc.UploadedBy,
		}
		// Download URL is best effort; the listing stays useful without it.
		if url, err := s.documents.SignedURL(r.Context(), doc.Path); err == nil {
			fr.URL = url
		} else {
			s.logger.Warn(r.Context(), "signed URL failed", "path", doc.Path, "error", err.Error())
		}
		resp = append(resp, fr)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	portID := chi.URLParam(r, "portID")
	templateID := chi.URLParam(r, "templateID")
	sess := SessionFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	doc, err := s.documents.Upload(r.Context(), sess, portID, templateID,
		header.Filename, file, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, fileResponse{
		ID:         doc.ID,
		FileName:   doc.FileName,
		Path:       doc.Path,
		UploadedAt: doc.UploadedAt,
		UploadedBy: doc.UploadedBy,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")
	sess := SessionFromContext(r.Context())

	// Destructive call; the client has to state it meant it.
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, fmt.Errorf("%w: deletion requires confirm=true", common.ErrValidation))
		return
	}

	if err := s.documents.Delete(r.Context(), sess, documentID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type previewResponse struct {
	Document fileResponse `json:"document"`
	Kind     string       `json:"kind"`
	Mode     string       `json:"mode"`
	URL      string       `json:"url"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	doc, plan, err := s.documents.Preview(r.Context(), documentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, previewResponse{
		Document: fileResponse{
			ID:         doc.ID,
			FileName:   doc.FileName,
			Path:       doc.Path,
			UploadedAt: doc.UploadedAt,
			UploadedBy: doc.UploadedBy,
		},
		Kind: string(plan.Kind),
		Mode: string(plan.Mode),
		URL:  plan.URL,
	})
}
