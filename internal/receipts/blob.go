package receipts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"fintrack/internal/core"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

const (
	// Well-known Azurite development account.
	azuriteAccountName = "devstoreaccount1"
	azuriteAccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
)

// BlobStore keeps receipts in an Azure Blob Storage container.
type BlobStore struct {
	client     *azblob.Client
	serviceURL string
	container  string
}

// isLocalEndpoint reports whether the service URL points at an emulator.
func isLocalEndpoint(serviceURL string) bool {
	return strings.HasPrefix(serviceURL, "http://")
}

// NewBlobStore connects to the blob service. Plain http endpoints are treated
// as Azurite and use its shared key; anything else authenticates with
// DefaultAzureCredential.
func NewBlobStore(serviceURL, container string) (*BlobStore, error) {
	if serviceURL == "" {
		return nil, fmt.Errorf("blob service URL is required")
	}
	if container == "" {
		return nil, fmt.Errorf("blob container is required")
	}

	slog.Info("initializing blob store", "blob_url", serviceURL, "container", container)

	var client *azblob.Client
	if isLocalEndpoint(serviceURL) {
		slog.Info("using Azurite shared key credentials for blob store")
		cred, err := azblob.NewSharedKeyCredential(azuriteAccountName, azuriteAccountKey)
		if err != nil {
			return nil, fmt.Errorf("create shared key credential: %w", err)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("create blob client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("create default azure credential: %w", err)
		}
		client, err = azblob.NewClient(serviceURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("create blob client: %w", err)
		}
	}

	return &BlobStore{
		client:     client,
		serviceURL: strings.TrimRight(serviceURL, "/"),
		container:  container,
	}, nil
}

func newDefaultAzureCredential() (azcore.TokenCredential, error) {
	slog.Info("using default Azure credentials")
	return azidentity.NewDefaultAzureCredential(nil)
}

// EnsureContainer creates the container when it does not exist yet.
func (s *BlobStore) EnsureContainer(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("create container %s: %w", s.container, err)
	}
	return nil
}

func (s *BlobStore) Upload(ctx context.Context, name string, data io.Reader, contentType string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if contentType == "" {
		contentType = ContentType(name)
	}
	_, err := s.client.UploadStream(ctx, s.container, name, data, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr(contentType)},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to upload blob", "container", s.container, "blob_name", name, "error", err)
		return fmt.Errorf("upload blob %s/%s: %w", s.container, name, err)
	}
	slog.InfoContext(ctx, "Receipt stored", "name", name, "backend", "azblob")
	return nil
}

// List returns the blobs of the container, newest first.
func (s *BlobStore) List(ctx context.Context) ([]core.Receipt, error) {
	var out []core.Receipt
	pager := s.client.NewListBlobsFlatPager(s.container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list blobs: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item == nil || item.Name == nil {
				continue
			}
			r := core.Receipt{Name: *item.Name, ContentType: ContentType(*item.Name)}
			if p := item.Properties; p != nil {
				if p.ContentLength != nil {
					r.Size = *p.ContentLength
				}
				if p.ContentType != nil && *p.ContentType != "" {
					r.ContentType = *p.ContentType
				}
				if p.CreationTime != nil {
					r.CreatedAt = p.CreationTime.UTC()
				} else if p.LastModified != nil {
					r.CreatedAt = p.LastModified.UTC()
				}
			}
			out = append(out, r)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *BlobStore) Download(ctx context.Context, name string) (io.ReadCloser, core.Receipt, error) {
	if err := ValidateName(name); err != nil {
		return nil, core.Receipt{}, err
	}
	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return nil, core.Receipt{}, fmt.Errorf("receipt %s: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return nil, core.Receipt{}, fmt.Errorf("download blob %s/%s: %w", s.container, name, err)
	}
	r := core.Receipt{Name: name, ContentType: ContentType(name)}
	if resp.ContentLength != nil {
		r.Size = *resp.ContentLength
	}
	if resp.ContentType != nil && *resp.ContentType != "" {
		r.ContentType = *resp.ContentType
	}
	if resp.LastModified != nil {
		r.CreatedAt = resp.LastModified.UTC()
	}
	return resp.Body, r, nil
}

func (s *BlobStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	_, err := s.client.DeleteBlob(ctx, s.container, name, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return fmt.Errorf("receipt %s: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete blob %s/%s: %w", s.container, name, err)
	}
	slog.InfoContext(ctx, "Receipt deleted", "name", name, "backend", "azblob")
	return nil
}

// PublicURL returns the blob URL. Reading it requires the container to allow
// anonymous blob access.
func (s *BlobStore) PublicURL(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return s.serviceURL + "/" + url.PathEscape(s.container) + "/" + url.PathEscape(name), nil
}
