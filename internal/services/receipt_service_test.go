package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"fintrack/internal/receipts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func file(name, body string) UploadFile {
	return UploadFile{
		Filename: name,
		Size:     int64(len(body)),
		Open:     func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(body)), nil },
	}
}

func TestUploadManyStoresAll(t *testing.T) {
	store := newFakeReceiptStore()
	svc := NewReceiptService(store, 0)
	assert.Equal(t, int64(receipts.DefaultMaxSize), svc.MaxSize())

	got, err := svc.UploadMany(context.Background(), []UploadFile{
		file("invoice.pdf", "pdf"),
		file("photo.JPG", "jpg"),
		file("scan.png", "png"),
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "invoice.pdf", got[0].Original)
	assert.True(t, strings.HasSuffix(got[1].Name, ".jpg"))
	assert.Equal(t, "http://files/"+got[2].Name, got[2].URL)
	assert.Equal(t, 3, store.uploaded)
}

func TestUploadManyRejectsBeforeWriting(t *testing.T) {
	store := newFakeReceiptStore()
	svc := NewReceiptService(store, 4)

	_, err := svc.UploadMany(context.Background(), []UploadFile{file("ok.pdf", "1"), file("virus.exe", "2")})
	assert.ErrorIs(t, err, receipts.ErrUnsupportedType)

	_, err = svc.UploadMany(context.Background(), []UploadFile{file("big.pdf", "12345")})
	assert.ErrorIs(t, err, receipts.ErrTooLarge)

	_, err = svc.UploadMany(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoFiles)
	assert.Zero(t, store.uploaded)
}

func TestUploadManyEnforcesLimitOnBody(t *testing.T) {
	store := newFakeReceiptStore()
	svc := NewReceiptService(store, 4)
	lying := file("small.pdf", "far more than four bytes")
	lying.Size = 2

	_, err := svc.UploadMany(context.Background(), []UploadFile{lying})
	assert.ErrorIs(t, err, receipts.ErrTooLarge)
	assert.Zero(t, store.uploaded)
}

func TestUploadManyRollsBack(t *testing.T) {
	store := newFakeReceiptStore()
	store.failOn = func(name string) bool { return strings.HasSuffix(name, ".png") }
	svc := NewReceiptService(store, 0)

	_, err := svc.UploadMany(context.Background(), []UploadFile{
		file("a.pdf", "a"),
		file("b.png", "b"),
		file("c.gif", "c"),
	})
	require.Error(t, err)

	list, _ := svc.List(context.Background())
	assert.Empty(t, list, "partial uploads are removed")
	assert.Equal(t, store.uploaded, len(store.deleted))
}

func TestReceiptNameValidation(t *testing.T) {
	svc := NewReceiptService(newFakeReceiptStore(), 0)
	assert.ErrorIs(t, svc.Delete(context.Background(), "../etc/passwd"), receipts.ErrInvalidName)
	_, _, err := svc.Download(context.Background(), "a/b.pdf")
	assert.ErrorIs(t, err, receipts.ErrInvalidName)
}
