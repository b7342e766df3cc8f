package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"galeria-pdf/internal/database"
	"galeria-pdf/internal/models"
	"galeria-pdf/internal/query"
	"galeria-pdf/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/jaevor/go-nanoid"
)

// Upload ceiling, matching the 10 MB limit the web client advertises.
const maxUploadSize = 10 << 20

func (s *Server) generateUniquePdfID(ctx context.Context) (string, error) {
	maxRetries := 10

	generateID, err := nanoid.Standard(21)
	if err != nil {
		return "", fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	for i := 0; i < maxRetries; i++ {
		id := generateID()
		exists, err := s.store.PdfExists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("failed to check for pdf existence: %w", err)
		}
		if !exists {
			return id, nil
		}
	}

	return "", fmt.Errorf("failed to generate a unique ID after %d attempts", maxRetries)
}

type PdfListResponse struct {
	Pdfs []models.PdfDocument `json:"pdfs"`
}

// @Summary      List PDF documents
// @Description  Lists documents visible to the caller (their own plus public ones), with search, sort and date filtering.
// @Tags         pdfs
// @Produce      json
// @Security     BearerAuth
// @Param        search      query     string  false  "Substring to search for"
// @Param        searchBy    query     string  false  "all | title | description | tags"
// @Param        sort        query     string  false  "newest | oldest | name | size"
// @Param        filter      query     string  false  "all | public | private"
// @Param        dateFilter  query     string  false  "all | today | week | month"
// @Success      200  {object}  PdfListResponse
// @Failure      401  {string}  string "Unauthorized"
// @Router       /pdfs [get]
func (s *Server) ListPdfsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	q := r.URL.Query()
	spec := query.Build(claims.UserID, query.Params{
		Search:     q.Get("search"),
		SearchBy:   q.Get("searchBy"),
		Sort:       q.Get("sort"),
		Filter:     q.Get("filter"),
		DateFilter: q.Get("dateFilter"),
	})

	pdfs, err := s.store.ListPdfs(r.Context(), spec)
	if err != nil {
		log.Printf("ERROR: Failed to list pdfs for user %d: %v", claims.UserID, err)
		http.Error(w, "Failed to list PDFs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PdfListResponse{Pdfs: pdfs})
}

// @Summary      Get a single PDF document
// @Tags         pdfs
// @Produce      json
// @Security     BearerAuth
// @Param        pdfId  path      string  true  "Document ID"
// @Success      200    {object}  models.PdfDocument
// @Failure      401    {string}  string "Unauthorized"
// @Failure      404    {string}  string "Not found or not visible"
// @Router       /pdfs/{pdfId} [get]
func (s *Server) GetPdfHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	pdfID := chi.URLParam(r, "pdfId")

	pdf, err := s.store.GetPdfByID(r.Context(), pdfID, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve PDF", http.StatusInternalServerError)
		return
	}
	if pdf == nil {
		// Absent and not-visible are deliberately indistinguishable.
		http.Error(w, "PDF not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pdf)
}

func (s *Server) UploadPdfHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	// One extra MiB of headroom for the multipart framing and the
	// metadata fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "File exceeds the 10 MB limit", http.StatusBadRequest)
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Please upload a PDF file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if handler.Header.Get("Content-Type") != "application/pdf" {
		http.Error(w, "Only PDF files are allowed", http.StatusBadRequest)
		return
	}
	if handler.Size == 0 {
		http.Error(w, "Please upload a PDF file", http.StatusBadRequest)
		return
	}
	if handler.Size > maxUploadSize {
		http.Error(w, "File exceeds the 10 MB limit", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = handler.Filename
	}

	storedName, err := storage.NewStoredName()
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	written, err := s.storage.Save(storedName, file)
	if err != nil {
		log.Printf("ERROR: Failed to save blob %s: %v", storedName, err)
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	pdfID, err := s.generateUniquePdfID(r.Context())
	if err != nil {
		s.discardBlob(storedName)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	params := database.CreatePdfParams{
		ID:          pdfID,
		OwnerID:     claims.UserID,
		Title:       title,
		Description: strings.TrimSpace(r.FormValue("description")),
		Tags:        models.ParseTags(r.FormValue("tags")),
		IsPublic:    r.FormValue("isPublic") == "true",
		FileSize:    written,
		StoredPath:  storedName,
	}

	pdf, err := s.store.CreatePdf(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: Failed to create pdf record for blob %s: %v", storedName, err)
		s.discardBlob(storedName)
		http.Error(w, "Failed to create PDF record", http.StatusInternalServerError)
		return
	}
	pdf.UploadedBy = claims.Username

	s.logPdfEvent(r.Context(), claims.UserID, database.EventPdfUploaded, pdf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(pdf)
}

// discardBlob removes a blob whose metadata insert never happened.
// Failure only widens the orphan window, so it is just logged.
func (s *Server) discardBlob(storedName string) {
	if err := s.storage.Delete(storedName); err != nil {
		log.Printf("WARN: Failed to remove orphaned blob %s: %v", storedName, err)
	}
}

func (s *Server) logPdfEvent(ctx context.Context, userID int64, eventType string, pdf *models.PdfDocument) {
	payload := map[string]interface{}{
		"id":    pdf.ID,
		"title": pdf.Title,
	}
	if err := s.store.LogEvent(ctx, userID, eventType, payload); err != nil {
		log.Printf("WARN: Failed to journal %s for pdf %s: %v", eventType, pdf.ID, err)
	}
}

type UpdatePdfRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
	IsPublic    *bool   `json:"isPublic"`
}

// @Summary      Update PDF metadata
// @Description  Updates title, description, tags and/or visibility. Any other submitted field is ignored; owner, file size and stored path are immutable.
// @Tags         pdfs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        pdfId             path      string            true  "Document ID"
// @Param        updatePdfRequest  body      UpdatePdfRequest  true  "Mutable fields"
// @Success      200  {object}  models.PdfDocument
// @Failure      400  {string}  string "Invalid request body"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      404  {string}  string "Not found or not owned"
// @Router       /pdfs/{pdfId} [put]
func (s *Server) UpdatePdfHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	pdfID := chi.URLParam(r, "pdfId")

	var req UpdatePdfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := database.UpdatePdfParams{
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}

	if req.Title != nil {
		newTitle := strings.TrimSpace(*req.Title)
		if newTitle == "" {
			http.Error(w, "Title cannot be empty", http.StatusBadRequest)
			return
		}
		params.Title = &newTitle
	}

	if req.Tags != nil {
		// ParseTags never returns nil, so an empty tags string clears
		// the list instead of keeping the old one.
		params.Tags = models.ParseTags(*req.Tags)
	}

	pdf, err := s.store.UpdatePdf(r.Context(), pdfID, claims.UserID, params)
	if err != nil {
		log.Printf("ERROR: Failed to update pdf %s: %v", pdfID, err)
		http.Error(w, "Failed to update PDF", http.StatusInternalServerError)
		return
	}
	if pdf == nil {
		http.Error(w, "PDF not found", http.StatusNotFound)
		return
	}

	s.logPdfEvent(r.Context(), claims.UserID, database.EventPdfUpdated, pdf)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pdf)
}

// @Summary      Delete a PDF document
// @Description  Removes the metadata record, then best-effort removes the blob. A blob that cannot be removed is logged and never fails the delete.
// @Tags         pdfs
// @Produce      json
// @Security     BearerAuth
// @Param        pdfId  path      string  true  "Document ID"
// @Success      200    {object}  map[string]string
// @Failure      401    {string}  string "Unauthorized"
// @Failure      404    {string}  string "Not found or not owned"
// @Router       /pdfs/{pdfId} [delete]
func (s *Server) DeletePdfHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	pdfID := chi.URLParam(r, "pdfId")

	pdf, err := s.store.DeletePdf(r.Context(), pdfID, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to delete PDF", http.StatusInternalServerError)
		return
	}
	if pdf == nil {
		http.Error(w, "PDF not found", http.StatusNotFound)
		return
	}

	// Metadata is gone at this point; a dangling blob is preferable
	// to a record pinned by a missing file.
	if err := s.storage.Delete(pdf.StoredPath); err != nil {
		log.Printf("WARN: Failed to remove blob %s for deleted pdf %s: %v", pdf.StoredPath, pdf.ID, err)
	}

	s.logPdfEvent(r.Context(), claims.UserID, database.EventPdfDeleted, pdf)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "PDF deleted successfully"})
}

// @Summary      Download a PDF document
// @Description  Streams the stored blob with an attachment filename derived from the title.
// @Tags         pdfs
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        pdfId  path      string  true  "Document ID"
// @Success      200    {file}    binary
// @Failure      401    {string}  string "Unauthorized"
// @Failure      404    {string}  string "Not found, not visible, or blob missing"
// @Router       /pdfs/{pdfId}/download [get]
func (s *Server) DownloadPdfHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	pdfID := chi.URLParam(r, "pdfId")

	pdf, err := s.store.GetPdfByID(r.Context(), pdfID, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve PDF metadata", http.StatusInternalServerError)
		return
	}
	if pdf == nil {
		http.Error(w, "PDF not found", http.StatusNotFound)
		return
	}

	fileStream, err := s.storage.Get(pdf.StoredPath)
	if err != nil {
		// Metadata exists but the blob is gone. Keep the record for
		// manual remediation and report 404 to the caller.
		log.Printf("ERROR: Blob %s missing for pdf %s: %v", pdf.StoredPath, pdf.ID, err)
		http.Error(w, "PDF not found", http.StatusNotFound)
		return
	}
	defer fileStream.Close()

	filename := strings.ReplaceAll(pdf.Title, `"`, "") + ".pdf"
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", pdf.FileSize))

	io.Copy(w, fileStream)
}
