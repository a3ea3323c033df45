package receipts

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"fintrack/internal/core"
)

// LocalStore keeps receipts as files in a directory.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates dir if needed. Public URLs are built as
// <baseURL>/receipts/<name>.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipts directory: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Upload(ctx context.Context, name string, data io.Reader, _ string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write receipt %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("store receipt %s: %w", name, err)
	}

	slog.InfoContext(ctx, "Receipt stored", "name", name, "size_bytes", n, "backend", "local")
	return nil
}

// List returns the stored receipts, newest first.
func (s *LocalStore) List(_ context.Context) ([]core.Receipt, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read receipts directory: %w", err)
	}
	out := make([]core.Receipt, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, core.Receipt{
			Name:        e.Name(),
			Size:        info.Size(),
			ContentType: ContentType(e.Name()),
			CreatedAt:   info.ModTime().UTC(),
		})
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(rs []core.Receipt) {
	slices.SortFunc(rs, func(a, b core.Receipt) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.Name, a.Name)
	})
}

func (s *LocalStore) Download(_ context.Context, name string) (io.ReadCloser, core.Receipt, error) {
	if err := ValidateName(name); err != nil {
		return nil, core.Receipt{}, err
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.Receipt{}, fmt.Errorf("receipt %s: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return nil, core.Receipt{}, fmt.Errorf("open receipt: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, core.Receipt{}, fmt.Errorf("stat receipt: %w", err)
	}
	return f, core.Receipt{
		Name:        name,
		Size:        info.Size(),
		ContentType: ContentType(name),
		CreatedAt:   info.ModTime().UTC(),
	}, nil
}

func (s *LocalStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("receipt %s: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete receipt: %w", err)
	}
	slog.InfoContext(ctx, "Receipt deleted", "name", name, "backend", "local")
	return nil
}

func (s *LocalStore) PublicURL(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return s.baseURL + "/receipts/" + url.PathEscape(name), nil
}

// Dir returns the directory backing the store.
func (s *LocalStore) Dir() string { return s.dir }
