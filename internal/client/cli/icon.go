package cli

import (
	"context"
	"os"

	"github.com/pashield/pashield/internal/client/api"
	"github.com/pashield/pashield/internal/netx"
)

// uploadIcon is a test seam for the presigned PUT upload.
var uploadIcon = netx.UploadToPresignedURL

// SetIcon uploads an image for an existing entry: the server hands out a
// presigned URL, the bytes go straight to object storage, and the entry is
// updated to reference the stored object key.
func (a *App) SetIcon(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Enter entry id:", os.Stdout)
	if err != nil {
		return err
	}
	path, err := GetSimpleText(a.reader, "Enter icon file path:", os.Stdout)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	upload, err := a.client.PresignIconUpload(ctx)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	if err := uploadIcon(ctx, upload.URL, data); err != nil {
		printlnFn("Upload failed:", err)
		return err
	}

	entry, err := a.client.GetEntry(ctx, id)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	_, err = a.client.UpdateEntry(ctx, id, &api.EntryRequest{
		Location: entry.Location,
		Username: entry.Username,
		Password: entry.Password,
		IconName: upload.Key,
	})
	if err != nil {
		printlnFn("Error:", err)
		return err
	}

	printlnFn("Icon set for entry", id)
	return nil
}
