package notes

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

var maxNoteSize int64 = 64 << 20

// DownloadInfo describes a fetched note document.
type DownloadInfo struct {
	ContentType string
	Size        int64
	// PageCount is set for PDF documents whose pages could be counted.
	PageCount *int
}

// Download fetches location and copies the document to w.
func Download(ctx context.Context, client *http.Client, location string, w io.Writer) (*DownloadInfo, error) {
	if err := validateLocation(location); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d %s", ErrDownloadFailed, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxNoteSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrDownloadFailed, err)
	}
	if int64(len(data)) > maxNoteSize {
		return nil, fmt.Errorf("%w: note exceeds %d bytes", ErrDownloadFailed, maxNoteSize)
	}

	info := &DownloadInfo{
		ContentType: contentType(resp.Header.Get("Content-Type"), data),
		Size:        int64(len(data)),
	}

	if info.ContentType == "application/pdf" {
		if count, err := api.PageCount(bytes.NewReader(data), nil); err == nil {
			info.PageCount = &count
		}
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("write note: %w", err)
	}

	return info, nil
}

func contentType(header string, data []byte) string {
	if header != "" && header != "application/octet-stream" {
		if mt, _, err := mime.ParseMediaType(header); err == nil {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}
