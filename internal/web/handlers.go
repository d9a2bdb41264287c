package web

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/drivewiki/drivewiki/internal/drive"
	"github.com/drivewiki/drivewiki/internal/index"
	"github.com/drivewiki/drivewiki/internal/metrics"
	"github.com/drivewiki/drivewiki/internal/mover"
	"github.com/drivewiki/drivewiki/internal/pagecache"
)

var folderTemplate = template.Must(template.New("folder").Parse(`<!doctype html>
<html><head><title>{{.Title}}</title></head><body>
<h1>{{.Title}}</h1>
<ul>
{{- range .Entries}}
<li><a href="{{.Href}}">{{.Name}}</a></li>
{{- end}}
</ul>
</body></html>
`))

type folderEntry struct {
	Href string
	Name string
}

type folderPage struct {
	Title   string
	Entries []folderEntry
}

// handlePage serves a page by its public path. Cached HTML is served
// directly; on a miss the document is exported from the remote store and
// the result cached. Folders render a listing of their children.
func (s *Server) handlePage(c echo.Context) error {
	path := normalizePath(c.Request().URL.Path)

	if path == "" {
		return s.renderFolder(c, index.Resource{ID: s.idx.RootID()})
	}

	ctx := c.Request().Context()

	entry, cached, err := s.cache.Get(ctx, path)
	if err != nil {
		s.metrics.PageErrors.Inc()
		s.logger.Error("page cache read failed", "path", path, "error", err)

		return echo.NewHTTPError(http.StatusInternalServerError, "cache unavailable")
	}

	res, found := s.idx.ByPath(path)

	// A cached page is only servable while the index still maps its path to
	// the same file. After a folder move the descendants' old paths go
	// stale, and those entries must not keep serving.
	if cached && entry.HasHTML() && found && res.ID == entry.FileID {
		s.metrics.PageHits.Inc()

		return c.HTML(http.StatusOK, entry.HTML)
	}

	if !found {
		if cached {
			if purgeErr := s.cache.Purge(ctx, path, entry.ModifiedAt); purgeErr != nil {
				s.logger.Warn("purging orphaned page failed", "path", path, "error", purgeErr)
			}
		}

		return echo.NewHTTPError(http.StatusNotFound, "no such page")
	}

	if res.Type == index.TypeFolder {
		return s.renderFolder(c, res)
	}

	return s.renderDocument(c, path, res)
}

// renderDocument exports the document's HTML and caches it under path.
// A cache write failure is logged but does not fail the request — the
// export already succeeded.
func (s *Server) renderDocument(c echo.Context, path string, res index.Resource) error {
	ctx := c.Request().Context()

	s.metrics.PageMisses.Inc()

	start := time.Now()

	html, err := s.render.ExportHTML(ctx, res.ID)
	if err != nil {
		s.metrics.PageErrors.Inc()
		s.logger.Error("document export failed", "path", path, "file_id", res.ID, "error", err)

		if drive.IsAuthError(err) {
			return echo.NewHTTPError(http.StatusUnauthorized, "remote store authentication failed")
		}

		return echo.NewHTTPError(http.StatusBadGateway, "remote store unavailable")
	}

	s.metrics.RenderDuration.Observe(time.Since(start).Seconds())

	addErr := s.cache.Add(ctx, pagecache.Entry{
		Path:       path,
		FileID:     res.ID,
		ModifiedAt: time.Unix(res.ModifiedAt, 0),
		HTML:       html,
	})
	if addErr != nil {
		s.logger.Warn("caching rendered page failed", "path", path, "error", addErr)
	}

	return c.HTML(http.StatusOK, html)
}

func (s *Server) renderFolder(c echo.Context, res index.Resource) error {
	title := res.Name
	if title == "" {
		if root, ok := s.idx.GetMeta(s.idx.RootID()); ok {
			title = root.Name
		}
	}

	page := folderPage{Title: title}
	for _, child := range s.idx.Children(res.ID) {
		page.Entries = append(page.Entries, folderEntry{
			Href: child.FullPath(),
			Name: child.Name,
		})
	}

	var b strings.Builder
	if err := folderTemplate.Execute(&b, page); err != nil {
		return fmt.Errorf("web: rendering folder listing: %w", err)
	}

	return c.HTML(http.StatusOK, b.String())
}

// handleFolders returns the folders-only navigation tree as JSON.
func (s *Server) handleFolders(c echo.Context) error {
	folders, err := s.tree.GetFolders(c.Request().Context())
	if err != nil {
		s.logger.Error("folder tree build failed", "error", err)

		return echo.NewHTTPError(http.StatusBadGateway, "remote store unavailable")
	}

	return c.JSON(http.StatusOK, folders)
}

// handleMove moves a file and redirects to its new path. Validation
// failures are the caller's fault and map to 400; auth failures to 401;
// anything else from the remote store to 502.
func (s *Server) handleMove(c echo.Context) error {
	fileID := c.FormValue("file_id")
	destinationID := c.FormValue("destination_id")
	mode := drive.ParseMode(c.FormValue("mode"))

	if fileID == "" || destinationID == "" {
		s.metrics.MoveRequests.WithLabelValues(metrics.OutcomeRejected).Inc()

		return echo.NewHTTPError(http.StatusBadRequest, "file_id and destination_id are required")
	}

	path, err := s.mover.MoveFile(c.Request().Context(), fileID, destinationID, mode)
	if err != nil {
		switch {
		case mover.IsValidationError(err):
			s.metrics.MoveRequests.WithLabelValues(metrics.OutcomeRejected).Inc()

			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case drive.IsAuthError(err):
			s.metrics.MoveRequests.WithLabelValues(metrics.OutcomeFailed).Inc()

			return echo.NewHTTPError(http.StatusUnauthorized, "remote store authentication failed")
		default:
			s.metrics.MoveRequests.WithLabelValues(metrics.OutcomeFailed).Inc()
			s.logger.Error("move failed", "file_id", fileID, "destination_id", destinationID, "error", err)

			return echo.NewHTTPError(http.StatusBadGateway, "move failed")
		}
	}

	outcome := metrics.OutcomeMoved
	if destinationID == mover.TrashDestination {
		outcome = metrics.OutcomeTrashed
	} else if err := s.idx.Reparent(fileID, destinationID); err != nil {
		// The mirror catches up on the next refresh.
		s.logger.Warn("index reparent after move failed", "file_id", fileID, "error", err)
	}

	s.metrics.MoveRequests.WithLabelValues(outcome).Inc()

	return c.Redirect(http.StatusSeeOther, path)
}

// normalizePath strips the trailing slash so /guides/ and /guides resolve
// to the same resource. The site root maps to the empty path.
func normalizePath(p string) string {
	if p == "" || p == "/" {
		return ""
	}

	return strings.TrimSuffix(p, "/")
}
