package main

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/usmanzafar/portfolio/internal/resume"
)

const sessionCookie = "portfolio_session"

// sessionID returns the caller's session id, issuing a new cookie when the
// request carries none.
func (a *app) sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(a.cfg.SessionIdle.Seconds()), "/", "", false, true)
	return id
}

func (a *app) selector(c *gin.Context) *resume.Selector {
	return a.sessions.Get(a.sessionID(c))
}

// assetFile maps a same-origin asset path into the public directory.
func (a *app) assetFile(asset resume.Asset) string {
	return filepath.Join(a.cfg.PublicDir, filepath.FromSlash(strings.TrimPrefix(asset.SourcePath, "/")))
}

func (a *app) renderModal(c *gin.Context) {
	c.HTML(http.StatusOK, "resume-modal.html", gin.H{
		"title":    ResumeModalTitle,
		"subtitle": ResumeModalSubtitle,
		"footer":   ResumeModalFooter,
		"choices":  resume.Choices(),
	})
}

func (a *app) setupResumeRoutes(r *gin.Engine) {
	// Raw assets at their same-origin paths
	for _, opt := range resume.Options() {
		asset, _ := opt.Asset()
		r.StaticFile(asset.SourcePath, a.assetFile(asset))
	}

	group := r.Group("/resume")

	// HTMX: open the chooser and return its markup
	group.GET("/modal", func(c *gin.Context) {
		a.selector(c).Open()
		a.renderModal(c)
	})

	// Close control and backdrop both post here
	group.POST("/modal/close", func(c *gin.Context) {
		a.selector(c).Close()
		c.String(http.StatusOK, "")
	})

	// Polled once after a download so the client picks up the auto-close
	group.GET("/modal/status", func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil {
			c.String(http.StatusOK, "")
			return
		}
		sel, ok := a.sessions.Lookup(id)
		if !ok || !sel.IsOpen() {
			c.String(http.StatusOK, "")
			return
		}
		a.renderModal(c)
	})

	group.GET("/download/:option", func(c *gin.Context) {
		opt, err := resume.ParseOption(c.Param("option"))
		if err != nil {
			c.String(http.StatusNotFound, "unknown resume")
			return
		}

		asset, _, err := a.selector(c).Select(opt)
		if err != nil {
			c.String(http.StatusNotFound, "unknown resume")
			return
		}

		if !doNotTrack(c) {
			go a.tracker.recordDownload(c.ClientIP(), opt, asset)
		}

		// A missing file surfaces as the file server's 404; the chooser
		// closes on schedule either way.
		c.FileAttachment(a.assetFile(asset), asset.DownloadName)
	})
}
