// admin.go - privacy-conscious visitor tracking and the admin dashboard
package main

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const adminCookie = "admin_token"

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// adminAuthMiddleware redirects to the login page unless the admin cookie
// carries the current token.
func (s *Site) adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !constantTimeEqual(token, s.adminToken) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// countsAsVisit reports whether a request is a full page view worth recording.
func (s *Site) countsAsVisit(r *http.Request) bool {
	path := r.URL.Path
	if strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, s.cfg.Gallery.URLPrefix+"/") ||
		strings.HasPrefix(path, "/admin/") ||
		strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/favicon") ||
		strings.HasPrefix(path, "/privacy") {
		return false
	}

	// HTMX fragments (paging, viewer, loading poll) belong to a page view
	// that was already counted.
	if r.Header.Get("HX-Request") != "" {
		return false
	}

	// Respect Do Not Track
	return r.Header.Get("DNT") != "1"
}

// visitorTrackingMiddleware records page views with hashed IPs.
func (s *Site) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.countsAsVisit(c.Request) {
			go s.analytics.TrackVisitor(c.ClientIP(), c.GetHeader("User-Agent"), c.Request.URL.Path)
		}
		c.Next()
	}
}

func (s *Site) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")
		who := s.analytics.HashIP(c.ClientIP())

		if constantTimeEqual(username, s.cfg.Admin.Username) && constantTimeEqual(password, s.cfg.Admin.Password) {
			c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", false, true)
			s.logger.Info("admin login successful", "from", who)
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		s.logger.Warn("failed admin login attempt", "from", who)
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		s.logger.Info("admin logout", "from", s.analytics.HashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuthMiddleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.stats()
		if err != nil {
			s.logger.Error("failed to load admin stats", "error", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.stats()
		if err != nil {
			s.logger.Error("failed to load admin stats", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.analytics.RecentVisitors(200)
		if err != nil {
			s.logger.Error("failed to load visitors", "error", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		removed, err := s.analytics.CleanupOldData()
		if err != nil {
			s.logger.Error("privacy cleanup failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.stats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.logger.Info("admin stats exported", "by", s.analytics.HashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}

func (s *Site) stats() (*AdminStats, error) {
	stats, err := s.analytics.Stats()
	if err != nil {
		return nil, err
	}
	stats.GalleryImages = s.gallery.Len()
	return stats, nil
}
