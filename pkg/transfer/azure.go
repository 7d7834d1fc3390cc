package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
)

// azure uploads through a SAS URL. The SAS token carries authorization, so the
// client is created without credentials per target. The SDK's retry policy is
// disabled: a failed upload surfaces immediately.
type azure struct {
	options *blockblob.ClientOptions
	logger  *slog.Logger
}

func newAzure(client *http.Client, logger *slog.Logger) *azure {
	return &azure{
		options: &blockblob.ClientOptions{
			ClientOptions: azcore.ClientOptions{
				Transport: client,
				Retry:     policy.RetryOptions{MaxRetries: -1},
			},
		},
		logger: logger,
	}
}

func (a *azure) Put(ctx context.Context, target string, data []byte, contentType string) error {
	if err := validateTarget(target); err != nil {
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	client, err := blockblob.NewClientWithNoCredential(target, a.options)
	if err != nil {
		return fmt.Errorf("%w: create blob client: %w", ErrTransferFailed, err)
	}

	opts := &blockblob.UploadOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	if _, err := client.Upload(ctx, streaming.NopCloser(bytes.NewReader(data)), opts); err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) {
			return &StatusError{Status: respErr.StatusCode, Body: respErr.ErrorCode}
		}
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	a.logger.DebugContext(
		ctx, "transfer complete",
		"target", Redact(target),
		"bytes", len(data),
	)
	return nil
}
