package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yt-insights/channel-analyzer/internal/analyzer"
	"github.com/yt-insights/channel-analyzer/internal/models"
)

// Server exposes channel lookups and on-demand channel reports over HTTP.
// It runs the same pipeline as the CLI, one channel per request.
type Server struct {
	router *gin.Engine
	client *Client
	an     *analyzer.Analyzer
	log    zerolog.Logger
}

// NewServer creates the HTTP surface around a YouTube client.
func NewServer(client *Client, maxResults int, log zerolog.Logger) *Server {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"http://localhost:3000"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	s := &Server{
		router: router,
		client: client,
		an:     analyzer.New(client, maxResults, log),
		log:    log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/channel/:id", s.getChannel)
	s.router.GET("/channel/:id/report", s.getChannelReport)
}

// getChannel resolves a channel id and returns its summary.
func (s *Server) getChannel(c *gin.Context) {
	ref := models.ChannelRef{ChannelID: c.Param("id")}
	summary, err := s.client.ResolveChannel(c.Request.Context(), ref)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getChannelReport runs the analysis pipeline for a single channel and
// returns the scored result with its derived views.
func (s *Server) getChannelReport(c *gin.Context) {
	ref := models.ChannelRef{ChannelID: c.Param("id")}
	result, err := s.an.Run(c.Request.Context(), []models.ChannelRef{ref})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(result.Dataset.Channels) == 0 {
		reason := "channel skipped"
		if len(result.Outcomes) > 0 {
			reason = result.Outcomes[0].Reason
		}
		status := http.StatusBadGateway
		if reason == "channel not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": reason})
		return
	}

	channel := result.Dataset.Channels[0]
	c.JSON(http.StatusOK, gin.H{
		"channel":   channel.Summary,
		"videos":    channel.Videos,
		"averages":  channel.Averages(),
		"topVideos": channel.BestVideos(5),
	})
}

func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrChannelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrAmbiguousReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Start runs the server on the given port.
func (s *Server) Start(port string) error {
	s.log.Info().Str("port", port).Msg("server starting")
	return s.router.Run(":" + port)
}
