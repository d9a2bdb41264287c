package drive

import "time"

// Google Workspace MIME types the site cares about.
const (
	MimeFolder      = "application/vnd.google-apps.folder"
	MimeDocument    = "application/vnd.google-apps.document"
	MimeSpreadsheet = "application/vnd.google-apps.spreadsheet"
	MimeHTML        = "text/html"
)

// File represents a Drive file or folder. Fields are normalized from the
// API response — callers never see raw API data.
type File struct {
	ID         string
	Name       string
	MimeType   string
	ParentID   string // first (and in practice only) parent
	Trashed    bool
	ModifiedAt time.Time
}

// IsFolder reports whether the file is a Drive folder.
func (f *File) IsFolder() bool {
	return f.MimeType == MimeFolder
}

// User identifies the authenticated account, from the about endpoint.
type User struct {
	DisplayName string
	Email       string
}

// Mode selects how requests address the containing collection.
type Mode string

// Drive addressing modes. Team mode sends corpora=teamDrive plus the
// configured teamDriveId; shared mode (the default) omits both.
const (
	ModeDefault Mode = ""
	ModeTeam    Mode = "team"
	ModeShared  Mode = "shared"
)

// ParseMode maps a config string to a Mode. Unknown values fall back to
// the default (shared) addressing.
func ParseMode(s string) Mode {
	switch s {
	case string(ModeTeam):
		return ModeTeam
	case string(ModeShared):
		return ModeShared
	default:
		return ModeDefault
	}
}

// UpdateOptions describes a files.update call that reparents a file.
// Corpora and TeamDriveID are only set in team mode.
type UpdateOptions struct {
	FileID         string
	AddParentID    string
	RemoveParentID string
	Corpora        string
	TeamDriveID    string
}

// ListOptions describes a children listing call. PageToken is consumed
// internally by ListChildren.
type ListOptions struct {
	Corpora     string
	TeamDriveID string
}
