// Package index mirrors the remote folder hierarchy into an addressable
// local tree with stable paths. It holds per-resource metadata keyed by id,
// resolves public paths, and derives the folders-only navigation tree.
package index

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/drivewiki/drivewiki/internal/drive"
)

// ResourceType classifies a mirrored resource.
type ResourceType string

// Supported resource types. Spreadsheets are deliberately unsupported —
// they have no useful HTML rendering on the site.
const (
	TypeFolder   ResourceType = "folder"
	TypeDocument ResourceType = "document"
	TypeHTML     ResourceType = "text/html"
)

// TypeForMime maps a Drive MIME type to a ResourceType. The second return
// is false for unsupported types, which the syncer skips.
func TypeForMime(mime string) (ResourceType, bool) {
	switch mime {
	case drive.MimeFolder:
		return TypeFolder, true
	case drive.MimeDocument:
		return TypeDocument, true
	case drive.MimeHTML:
		return TypeHTML, true
	default:
		return "", false
	}
}

// Resource is the mirrored metadata for one remote file or folder.
type Resource struct {
	ID       string
	ParentID string
	// Path is the resolved ancestor-joined path, excluding this resource's
	// own slug. Empty for resources directly under the root container.
	Path string
	// Slug is the final path segment. Unique among siblings.
	Slug string
	// Name is the remote display name the slug was derived from.
	Name string
	// SortKey orders members of the same type among siblings.
	SortKey string
	Type    ResourceType
	// ModifiedAt is the remote last-modified timestamp.
	ModifiedAt int64
}

// FullPath returns the public path for the resource: path + "/" + slug.
// The root container (empty slug) maps to the empty string so that joining
// a child slug onto it yields "/child".
func (r Resource) FullPath() string {
	if r.Slug == "" {
		return ""
	}

	return r.Path + "/" + r.Slug
}

// Slugify derives a URL slug from a remote display name: NFC-normalized,
// lowercased, with runs of non-alphanumerics collapsed to single dashes.
func Slugify(name string) string {
	name = strings.ToLower(norm.NFC.String(name))

	var b strings.Builder

	dash := true // suppress a leading dash

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)

			dash = false
		default:
			if !dash {
				b.WriteByte('-')

				dash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// SortKeyFor returns the sibling ordering key for a display name.
func SortKeyFor(name string) string {
	return strings.ToLower(norm.NFC.String(name))
}
