package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// listPageSize is the pageSize value for children listing requests.
// 1000 is the maximum the Drive API allows.
const listPageSize = 1000

// fileFields is the fields projection requested for every file response.
const fileFields = "id,name,mimeType,parents,trashed,modifiedTime"

// fileResponse mirrors the Drive API file resource JSON exactly.
// Unexported — callers use File via toFile() normalization.
type fileResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MimeType     string   `json:"mimeType"`
	Parents      []string `json:"parents"`
	Trashed      bool     `json:"trashed"`
	ModifiedTime string   `json:"modifiedTime"`
}

type fileListResponse struct {
	Files         []fileResponse `json:"files"`
	NextPageToken string         `json:"nextPageToken"`
}

type updateFileRequest struct {
	Trashed *bool `json:"trashed,omitempty"`
}

type aboutResponse struct {
	User struct {
		DisplayName  string `json:"displayName"`
		EmailAddress string `json:"emailAddress"`
	} `json:"user"`
}

// toFile normalizes a Drive API file resource into our File type.
func (f *fileResponse) toFile(logger *slog.Logger) File {
	file := File{
		ID:       f.ID,
		Name:     f.Name,
		MimeType: f.MimeType,
		Trashed:  f.Trashed,
	}

	if len(f.Parents) > 0 {
		file.ParentID = f.Parents[0]
	}

	if f.ModifiedTime != "" {
		ts, err := time.Parse(time.RFC3339, f.ModifiedTime)
		if err != nil {
			logger.Warn("unparseable modifiedTime, using current time",
				slog.String("file_id", f.ID),
				slog.String("modified_time", f.ModifiedTime),
			)

			ts = time.Now().UTC()
		}

		file.ModifiedAt = ts
	}

	return file
}

// modeQuery adds the team-drive addressing parameters when set.
func modeQuery(q url.Values, corpora, teamDriveID string) {
	if corpora != "" {
		q.Set("corpora", corpora)
	}

	if teamDriveID != "" {
		q.Set("teamDriveId", teamDriveID)
	}

	// Required for any request that can touch shared drive content.
	q.Set("supportsAllDrives", "true")
	q.Set("includeItemsFromAllDrives", "true")
}

// ListChildren returns all non-trashed direct children of the given folder,
// following pagination until exhausted.
func (c *Client) ListChildren(ctx context.Context, folderID string, opts ListOptions) ([]File, error) {
	var (
		files     []File
		pageToken string
	)

	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("q", fmt.Sprintf("'%s' in parents and trashed = false", folderID))
		q.Set("fields", "nextPageToken,files("+fileFields+")")
		q.Set("pageSize", fmt.Sprint(listPageSize))
		modeQuery(q, opts.Corpora, opts.TeamDriveID)

		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		resp, err := c.Do(ctx, http.MethodGet, "/files?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("drive: listing children of %s (page %d): %w", folderID, page, err)
		}

		var list fileListResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&list)
		resp.Body.Close()

		if decodeErr != nil {
			return nil, fmt.Errorf("drive: decoding children of %s: %w", folderID, decodeErr)
		}

		for i := range list.Files {
			files = append(files, list.Files[i].toFile(c.logger))
		}

		if list.NextPageToken == "" {
			return files, nil
		}

		pageToken = list.NextPageToken
	}
}

// GetFile fetches a single file's metadata.
func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	q := url.Values{}
	q.Set("fields", fileFields)
	q.Set("supportsAllDrives", "true")

	resp, err := c.Do(ctx, http.MethodGet, "/files/"+url.PathEscape(fileID)+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("drive: fetching file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	var fr fileResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("drive: decoding file %s: %w", fileID, err)
	}

	file := fr.toFile(c.logger)

	return &file, nil
}

// Update reparents a file per opts: the new parent is added and the old one
// removed in a single files.update call. Team-mode addressing parameters are
// included when set on opts.
func (c *Client) Update(ctx context.Context, opts UpdateOptions) (*File, error) {
	c.logger.Info("moving file",
		slog.String("file_id", opts.FileID),
		slog.String("add_parent", opts.AddParentID),
		slog.String("remove_parent", opts.RemoveParentID),
		slog.String("corpora", opts.Corpora),
	)

	q := url.Values{}
	q.Set("fields", fileFields)

	if opts.AddParentID != "" {
		q.Set("addParents", opts.AddParentID)
	}

	if opts.RemoveParentID != "" {
		q.Set("removeParents", opts.RemoveParentID)
	}

	modeQuery(q, opts.Corpora, opts.TeamDriveID)

	return c.patchFile(ctx, opts.FileID, q, updateFileRequest{})
}

// Trash marks a file as trashed. The file keeps its id and can be restored
// from the Drive UI; it simply disappears from normal navigation.
func (c *Client) Trash(ctx context.Context, fileID string, opts UpdateOptions) (*File, error) {
	c.logger.Info("trashing file", slog.String("file_id", fileID))

	q := url.Values{}
	q.Set("fields", fileFields)
	modeQuery(q, opts.Corpora, opts.TeamDriveID)

	trashed := true

	return c.patchFile(ctx, fileID, q, updateFileRequest{Trashed: &trashed})
}

// patchFile issues a files.update PATCH and decodes the response.
func (c *Client) patchFile(ctx context.Context, fileID string, q url.Values, body updateFileRequest) (*File, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("drive: marshaling update request: %w", err)
	}

	path := "/files/" + url.PathEscape(fileID) + "?" + q.Encode()

	resp, err := c.Do(ctx, http.MethodPatch, path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var fr fileResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("drive: decoding update response: %w", err)
	}

	file := fr.toFile(c.logger)

	return &file, nil
}

// ExportHTML renders a Workspace document as HTML via the export endpoint.
func (c *Client) ExportHTML(ctx context.Context, fileID string) (string, error) {
	q := url.Values{}
	q.Set("mimeType", MimeHTML)

	path := "/files/" + url.PathEscape(fileID) + "/export?" + q.Encode()

	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", fmt.Errorf("drive: exporting %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	html, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("drive: reading export of %s: %w", fileID, err)
	}

	return string(html), nil
}

// About returns the authenticated user, or an error if authentication cannot
// be established. Used as the auth probe before mutating operations.
func (c *Client) About(ctx context.Context) (*User, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/about?fields=user", nil)
	if err != nil {
		return nil, fmt.Errorf("drive: fetching account info: %w", err)
	}
	defer resp.Body.Close()

	var ar aboutResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("drive: decoding account info: %w", err)
	}

	return &User{
		DisplayName: ar.User.DisplayName,
		Email:       ar.User.EmailAddress,
	}, nil
}

// Verify probes authentication with a cheap about call.
func (c *Client) Verify(ctx context.Context) error {
	_, err := c.About(ctx)

	return err
}
