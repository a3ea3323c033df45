package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ports"
	"fintrack/internal/receipts"

	"golang.org/x/sync/errgroup"
)

// maxParallelUploads bounds concurrent store writes per request.
const maxParallelUploads = 4

var ErrNoFiles = errors.New("no files to upload")

// UploadFile is one file of a multi-file upload. Open is called once, from
// the goroutine that uploads the file.
type UploadFile struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// UploadedReceipt pairs a stored name with the client's file name.
type UploadedReceipt struct {
	Name     string `json:"name"`
	Original string `json:"original"`
	URL      string `json:"url,omitempty"`
}

// ReceiptService validates and stores receipt files.
type ReceiptService struct {
	store   ports.ReceiptStore
	maxSize int64
	now     func() time.Time
}

func NewReceiptService(store ports.ReceiptStore, maxSize int64) *ReceiptService {
	if maxSize <= 0 {
		maxSize = receipts.DefaultMaxSize
	}
	return &ReceiptService{store: store, maxSize: maxSize, now: time.Now}
}

// MaxSize returns the per-file upload limit in bytes.
func (s *ReceiptService) MaxSize() int64 { return s.maxSize }

// UploadMany stores all files concurrently. Either every file is stored or an
// error is returned and the files written so far are removed. Results keep
// the order of files.
func (s *ReceiptService) UploadMany(ctx context.Context, files []UploadFile) ([]UploadedReceipt, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	for _, f := range files {
		if err := receipts.CheckExtension(f.Filename); err != nil {
			return nil, err
		}
		if f.Size > s.maxSize {
			return nil, fmt.Errorf("%w: %q is %d bytes (max %d)", receipts.ErrTooLarge, f.Filename, f.Size, s.maxSize)
		}
	}

	out := make([]UploadedReceipt, len(files))
	stored := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for i, f := range files {
		g.Go(func() error {
			name, err := receipts.NewName(f.Filename, s.now())
			if err != nil {
				return err
			}
			rc, err := f.Open()
			if err != nil {
				return fmt.Errorf("open %q: %w", f.Filename, err)
			}
			defer rc.Close()

			body := &limitReader{r: rc, remaining: s.maxSize}
			if err := s.store.Upload(gctx, name, body, receipts.ContentType(name)); err != nil {
				return fmt.Errorf("upload %q: %w", f.Filename, err)
			}
			stored[i] = true
			out[i] = UploadedReceipt{Name: name, Original: f.Filename}
			if u, err := s.store.PublicURL(name); err == nil {
				out[i].URL = u
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.rollback(ctx, out, stored)
		return nil, err
	}
	slog.InfoContext(ctx, "Receipts uploaded", "count", len(out))
	return out, nil
}

func (s *ReceiptService) rollback(ctx context.Context, out []UploadedReceipt, stored []bool) {
	// Cleanup must run even when the request context is already canceled.
	ctx = context.WithoutCancel(ctx)
	for i, ok := range stored {
		if !ok {
			continue
		}
		if err := s.store.Delete(ctx, out[i].Name); err != nil {
			slog.WarnContext(ctx, "Failed to remove partial upload", "name", out[i].Name, "error", err)
		}
	}
}

// List returns stored receipts, newest first.
func (s *ReceiptService) List(ctx context.Context) ([]core.Receipt, error) {
	rs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return rs, nil
}

func (s *ReceiptService) Download(ctx context.Context, name string) (io.ReadCloser, core.Receipt, error) {
	if err := receipts.ValidateName(name); err != nil {
		return nil, core.Receipt{}, err
	}
	return s.store.Download(ctx, name)
}

func (s *ReceiptService) Delete(ctx context.Context, name string) error {
	if err := receipts.ValidateName(name); err != nil {
		return err
	}
	return s.store.Delete(ctx, name)
}

func (s *ReceiptService) URL(name string) (string, error) {
	return s.store.PublicURL(name)
}

// limitReader fails with receipts.ErrTooLarge once more than remaining bytes
// have been read, so a lying Size cannot bypass the limit.
type limitReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, receipts.ErrTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return 0, receipts.ErrTooLarge
	}
	return n, err
}
