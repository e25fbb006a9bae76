package main

import (
	"context"
	"errors"
	"html/template"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/memory-wall/internal/gallery"
	"github.com/Zachkp/memory-wall/internal/imagesource"
)

// Site wires the gallery, analytics and mail delivery into gin handlers.
type Site struct {
	cfg        *Config
	logger     *slog.Logger
	gallery    *gallery.Gallery
	analytics  *Analytics
	mailer     Mailer
	adminToken string
}

func NewSite(cfg *Config, logger *slog.Logger, g *gallery.Gallery, analytics *Analytics, mailer Mailer) (*Site, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	return &Site{
		cfg:        cfg,
		logger:     logger,
		gallery:    g,
		analytics:  analytics,
		mailer:     mailer,
		adminToken: token,
	}, nil
}

// galleryView is what the gallery template renders.
type galleryView struct {
	Loading    bool
	Count      int
	Items      []gallery.Item
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	Selected   *gallery.Selection
	Intro      string
	Caption    string
}

func newGalleryView(st *gallery.State) galleryView {
	view := galleryView{
		Loading:    st.Loading(),
		Count:      st.Count(),
		Items:      st.VisibleSlice(),
		Page:       st.CurrentPage(),
		TotalPages: st.TotalPages(),
		HasPrev:    st.HasPrev(),
		HasNext:    st.HasNext(),
		Intro:      GalleryIntro,
		Caption:    ArtworkCaption,
	}
	if sel, ok := st.Selected(); ok {
		view.Selected = &sel
	}
	return view
}

// galleryPage is the JSON shape of one gallery page.
type galleryPage struct {
	Images      []gallery.Item `json:"images"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	Length      int            `json:"length"`
	Limit       int            `json:"pageSize"`
	Loading     bool           `json:"loading"`
}

// atoiDefault converts s to int or returns def when conversion fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// pageState returns a fresh gallery state on the page named by the query.
func (s *Site) pageState(c *gin.Context) *gallery.State {
	st := s.gallery.State()
	st.GoToPage(atoiDefault(c.Query("page"), 1))
	return st
}

var rotations = []string{
	"-rotate-6", "rotate-3", "-rotate-2", "rotate-6", "-rotate-1",
	"rotate-2", "-rotate-4", "rotate-1", "-rotate-3", "rotate-5",
}

var margins = []int{0, 10, 20, 5, 15, 25, 8, 18, 12, 22}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"inc":    func(i int) int { return i + 1 },
		"dec":    func(i int) int { return i - 1 },
		"tilt":   func(i int) string { return rotations[i%len(rotations)] },
		"offset": func(i int) int { return margins[i%len(margins)] },
		"plural": func(n int, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}
}

// Router builds the gin engine. templateGlob is passed to LoadHTMLGlob.
func (s *Site) Router(templateGlob string) *gin.Engine {
	r := gin.Default()
	r.SetFuncMap(templateFuncs())
	r.LoadHTMLGlob(templateGlob)

	r.Static(s.cfg.Gallery.URLPrefix, s.cfg.Gallery.ArtDir)
	r.Static("/static", "./static")

	r.Use(s.visitorTrackingMiddleware())

	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"siteName":    SiteName,
			"sections":    NavSections,
			"heroTitle":   HeroTitle,
			"heroTagline": HeroTagline,
			"aboutMe":     AboutMe,
			"stats":       AboutStats,
			"contact":     Contact,
			"gallery":     newGalleryView(s.pageState(c)),
		})
	})

	// HTMX gallery fragment; polls itself while the images are loading
	r.GET("/gallery", func(c *gin.Context) {
		c.HTML(http.StatusOK, "gallery.html", newGalleryView(s.pageState(c)))
	})

	// Gallery fragment with the viewer open on one artwork
	r.GET("/gallery/images/:index", func(c *gin.Context) {
		st := s.gallery.State()
		if st.Loading() {
			c.HTML(http.StatusOK, "gallery.html", newGalleryView(st))
			return
		}

		index, err := strconv.Atoi(c.Param("index"))
		if err != nil || !st.Open(index) {
			st.GoToPage(atoiDefault(c.Query("page"), 1))
			c.HTML(http.StatusNotFound, "gallery.html", newGalleryView(st))
			return
		}

		if sel, ok := st.Selected(); ok && c.GetHeader("DNT") != "1" {
			go s.analytics.TrackArtworkView(c.ClientIP(), sel.Image.Filename, sel.Index)
		}
		c.HTML(http.StatusOK, "gallery.html", newGalleryView(st))
	})

	r.GET("/api/gallery", func(c *gin.Context) {
		st := s.pageState(c)
		c.JSON(http.StatusOK, galleryPage{
			Images:      st.VisibleSlice(),
			CurrentPage: st.CurrentPage(),
			TotalPages:  st.TotalPages(),
			Length:      st.Count(),
			Limit:       gallery.PageSize,
			Loading:     st.Loading(),
		})
	})

	// Handle contact form submission with HTMX
	r.POST("/contact", func(c *gin.Context) {
		msg := ContactMessage{
			Name:    c.PostForm("fullName"),
			Email:   c.PostForm("email"),
			Message: c.PostForm("message"),
		}

		if err := msg.Validate(); err != nil {
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Please provide your name, a valid email address and a message.",
			})
			return
		}

		if err := s.mailer.Send(msg); err != nil {
			s.logger.Error("failed to send contact email", "error", err)
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
			return
		}

		s.logger.Info("contact email sent", "from", msg.Email)
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": "Thank you for your message! I'll get back to you soon.",
		})
	})

	s.setupAdminRoutes(r)
	return r
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := SetupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := imagesource.New(imagesource.Config{
		Kind:       imagesource.Kind(cfg.Gallery.Source),
		BaseURL:    cfg.Gallery.BaseURL,
		StaticPath: cfg.Gallery.StaticPath,
		URLPrefix:  cfg.Gallery.URLPrefix,
		Client:     &http.Client{Timeout: cfg.Gallery.FetchTimeout},
	}, logger)
	if err != nil {
		log.Fatalf("Failed to configure image source: %v", err)
	}

	salt, err := generateToken()
	if err != nil {
		log.Fatalf("Failed to generate hashing salt: %v", err)
	}
	analytics, err := OpenAnalytics(cfg.Database, salt, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer analytics.Close()
	go analytics.CleanupAndLog()

	g := gallery.New(source, logger)
	go g.Load(ctx)

	site, err := NewSite(cfg, logger, g, analytics, NewSMTPMailer(cfg.SMTP))
	if err != nil {
		log.Fatalf("Failed to create site: %v", err)
	}
	if cfg.Admin.Password == "admin123" {
		logger.Warn("using default admin password; set ADMIN_PASSWORD")
	}
	if gin.Mode() == gin.DebugMode {
		logger.Debug("admin token (dev only)", "token", site.adminToken)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: site.Router("templates/*"),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", srv.Addr, "gallery_source", cfg.Gallery.Source)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
