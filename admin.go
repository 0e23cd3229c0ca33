// admin.go - privacy-conscious visitor/download tracking and the admin area
package main

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/usmanzafar/portfolio/internal/config"
	"github.com/usmanzafar/portfolio/internal/resume"
	"github.com/usmanzafar/portfolio/internal/store"
)

const adminCookie = "admin_token"

// Paths that are never counted as visits
var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/admin/",
	"/resume/",
	"/favicon",
	"/privacy",
	"/healthz",
}

// tracker records visits and downloads with salted, truncated IP hashes.
type tracker struct {
	store   *store.Store
	salt    string
	enabled bool
}

func newTracker(st *store.Store, salt string, enabled bool) *tracker {
	if enabled {
		log.Println("Privacy: visitor tracking enabled with hashed IP addresses")
	}
	return &tracker{store: st, salt: salt, enabled: enabled}
}

// Hash IP address for privacy (consistent per IP for the process lifetime)
func (t *tracker) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + t.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func doNotTrack(c *gin.Context) bool {
	return c.GetHeader("DNT") == "1"
}

func tracked(path string) bool {
	if strings.HasSuffix(path, ".pdf") {
		return false
	}
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

func (t *tracker) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !t.enabled || c.Request.Method != http.MethodGet || !tracked(path) || doNotTrack(c) {
			c.Next()
			return
		}

		go t.recordVisit(c.ClientIP(), c.GetHeader("User-Agent"), path)
		c.Next()
	}
}

func (t *tracker) recordVisit(ip, userAgent, path string) {
	err := t.store.RecordVisit(context.Background(), store.Visit{
		HashedIP:  t.hashIP(ip),
		UserAgent: userAgent,
		Path:      path,
	})
	if err != nil {
		log.Printf("Error recording visitor: %v", err)
	}
}

func (t *tracker) recordDownload(ip string, opt resume.Option, asset resume.Asset) {
	if !t.enabled {
		return
	}
	err := t.store.RecordDownload(context.Background(), store.Download{
		Variant:  opt.String(),
		FileName: asset.DownloadName,
		HashedIP: t.hashIP(ip),
	})
	if err != nil {
		log.Printf("Error recording download: %v", err)
	}
}

// adminAuth holds the admin credentials and the per-process session token.
type adminAuth struct {
	username string
	password string
	token    string
}

func newAdminAuth(cfg config.Config, token string) *adminAuth {
	a := &adminAuth{username: cfg.AdminUsername, password: cfg.AdminPassword, token: token}

	// Default credentials only in debug mode
	if !cfg.AdminConfigured() {
		if gin.Mode() == gin.DebugMode {
			a.username, a.password = "admin", "admin123"
			log.Println("WARNING: Using default admin credentials. Set ADMIN_USERNAME and ADMIN_PASSWORD.")
		} else {
			log.Println("Admin login disabled: ADMIN_USERNAME and ADMIN_PASSWORD are not set")
		}
	}

	log.Printf("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		log.Printf("Admin token (dev only): %s", token)
	}
	return a
}

func (a *adminAuth) check(username, password string) bool {
	if a.username == "" || a.password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	return userOK && passOK
}

// Middleware to check admin authentication
func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Setup all admin routes
func (a *app) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if a.admin.check(c.PostForm("username"), c.PostForm("password")) {
			c.SetCookie(adminCookie, a.admin.token, 3600*24, "/admin", "", false, true)
			log.Printf("Admin login successful from %s", a.tracker.hashIP(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		log.Printf("Failed admin login attempt from %s", a.tracker.hashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(a.admin.middleware())

	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"sessions": a.sessions.Len(),
		})
	})

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load visitors"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"visitors": visitors})
	})

	adminGroup.GET("/downloads", func(c *gin.Context) {
		downloads, err := a.store.RecentDownloads(c.Request.Context(), 200)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load downloads"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"downloads": downloads})
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		go a.cleanupOldRecords(context.Background())
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup initiated"})
	})

	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=portfolio-stats.json")
		log.Printf("Admin stats exported by %s", a.tracker.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}
