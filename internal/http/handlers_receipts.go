package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/receipts"
	"fintrack/internal/services"
)

// maxUploadFiles bounds the number of files in one upload.
const maxUploadFiles = 10

// multipartMemory is the part of a multipart form kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

func (s *Server) handleUploadReceipts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.deps.Receipts.MaxSize()*maxUploadFiles+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, receipts.ErrTooLarge)
			return
		}
		writeError(w, r, fmt.Errorf("%w: %v", errMalformedBody, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) > maxUploadFiles {
		BadRequestError(fmt.Sprintf("at most %d files per upload", maxUploadFiles)).Write(w)
		return
	}

	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, uploadFileOf(fh))
	}

	uploaded, err := s.deps.Receipts.UploadMany(r.Context(), files)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.appMetrics.receiptsUploaded.Add(int64(len(uploaded)))

	NewResponse().
		Status(http.StatusCreated).
		Trigger(EventReceiptsUploaded, map[string]any{"count": len(uploaded)}).
		TriggerSuccessNotification(fmt.Sprintf("Uploaded %d receipt(s)", len(uploaded))).
		JSON(map[string]any{"receipts": uploaded}).
		Write(w)
}

func uploadFileOf(fh *multipart.FileHeader) services.UploadFile {
	return services.UploadFile{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	rs, err := s.deps.Receipts.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	views := make([]receiptView, 0, len(rs))
	for _, rc := range rs {
		views = append(views, s.receiptView(rc))
	}
	NewResponse().JSON(map[string]any{"receipts": views}).Write(w)
}

func (s *Server) handleDownloadReceipt(w http.ResponseWriter, r *http.Request) {
	body, meta, err := s.deps.Receipts.Download(r.Context(), r.PathValue("name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer body.Close()
	writeReceipt(w, r, body, meta)
}

func (s *Server) handleReceiptURL(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := receipts.ValidateName(name); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := s.deps.Receipts.URL(name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	NewResponse().JSON(map[string]string{"name": name, "url": u}).Write(w)
}

func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.deps.Receipts.Delete(r.Context(), name); err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Receipt deleted", log.FieldReceipt, name)
	NewResponse().
		Status(http.StatusNoContent).
		Trigger(EventReceiptDeleted, map[string]any{"name": name}).
		Write(w)
}

// handleServeLocalReceipt serves files of the local receipt directory at
// their public URL.
func (s *Server) handleServeLocalReceipt(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := receipts.ValidateName(name); err != nil {
		writeError(w, r, err)
		return
	}
	body, meta, err := s.deps.LocalReceipts.Download(r.Context(), name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer body.Close()
	writeReceipt(w, r, body, meta)
}

func writeReceipt(w http.ResponseWriter, r *http.Request, body io.Reader, meta core.Receipt) {
	ct := meta.ContentType
	if ct == "" {
		ct = receipts.ContentType(meta.Name)
	}
	w.Header().Set("Content-Type", ct)
	if meta.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", meta.Name))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Receipt transfer interrupted",
			log.FieldReceipt, meta.Name, log.FieldError, err)
	}
}
