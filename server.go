package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/usmanzafar/portfolio/internal/config"
	"github.com/usmanzafar/portfolio/internal/portfolio"
	"github.com/usmanzafar/portfolio/internal/resume"
	"github.com/usmanzafar/portfolio/internal/scroll"
	"github.com/usmanzafar/portfolio/internal/store"
)

// retention is how long visit and download records are kept.
const retention = 12 * 30 * 24 * time.Hour

// app carries everything the handlers share.
type app struct {
	cfg      config.Config
	profile  portfolio.Profile
	sessions *resume.Registry
	store    *store.Store
	tracker  *tracker
	admin    *adminAuth
}

func newApp(cfg config.Config, profile portfolio.Profile, st *store.Store, sessions *resume.Registry) *app {
	a := &app{
		cfg:      cfg,
		profile:  profile,
		sessions: sessions,
		store:    st,
		tracker:  newTracker(st, generateToken(), cfg.TrackVisitors),
		admin:    newAdminAuth(cfg, generateToken()),
	}

	if gin.IsDebugging() {
		sessions.OnCreate(func(id string, sel *resume.Selector) {
			short := shortID(id)
			sel.Subscribe(func(open bool) {
				log.Printf("session %s: resume modal open=%t", short, open)
			})
		})
	}
	return a
}

func (a *app) router() *gin.Engine {
	r := gin.Default()
	r.SetFuncMap(templateFuncs())
	r.LoadHTMLGlob(a.cfg.TemplatesGlob)

	r.Static("/images", a.cfg.PublicDir+"/images")
	r.Static("/static", a.cfg.PublicDir+"/static")

	r.Use(a.tracker.middleware())

	a.setupPageRoutes(r)
	a.setupResumeRoutes(r)
	a.setupAdminRoutes(r)
	return r
}

func (a *app) setupPageRoutes(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"profile":           a.profile,
			"nav":               NavItems,
			"scrolled":          scroll.Scrolled(0),
			"scrollThreshold":   scroll.Threshold,
			"experienceTagline": ExperienceTagline,
			"projectsTagline":   ProjectsTagline,
			"skillsTagline":     SkillsTagline,
			"contactTagline":    ContactTagline,
		})
	})

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":   "Privacy Policy",
			"profile": a.profile,
		})
	})

	r.GET("/healthz", func(c *gin.Context) {
		if err := a.store.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// cleanupOldRecords purges records past the retention window.
func (a *app) cleanupOldRecords(ctx context.Context) {
	n, err := a.store.PurgeBefore(ctx, time.Now().Add(-retention))
	if err != nil {
		log.Printf("Error cleaning up old records: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Privacy cleanup: removed %d records older than 12 months", n)
	}
}

// serve runs the HTTP server until ctx is cancelled.
func serve(ctx context.Context, cfg config.Config) error {
	profile, err := portfolio.LoadFile(cfg.ContentPath)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	sessions := resume.NewRegistry(cfg.SessionIdle)
	a := newApp(cfg, profile, st, sessions)

	go sessions.Run(ctx)
	go a.cleanupOldRecords(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Serving %s on %s", profile.Name, cfg.Addr())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"headerClass": scroll.HeaderClass,
		"lower":       strings.ToLower,
		"ago":         humanize.Time,
		"comma":       humanize.Comma,
	}
}

func generateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate token:", err)
	}
	return hex.EncodeToString(bytes)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
