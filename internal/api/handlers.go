package api

import (
	"context"
	_ "embed"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"relaychat/internal/models"
	"relaychat/internal/service/relay"
)

// Messages returned instead of provider or internal error details.
const (
	UpstreamApology = "Lo siento, hay un problema comunicándome con la IA. Por favor inténtalo de nuevo más tarde."
	InternalApology = "Ocurrió un error inesperado. ¿Podrías intentarlo de nuevo?"
)

const audioField = "audio"

//go:embed static/index.html
var indexHTML []byte

// Relay is the service behind the chat and audio routes.
type Relay interface {
	SubmitChat(ctx context.Context, history []models.Message) (string, error)
	SubmitAudio(ctx context.Context, upload relay.AudioUpload) (relay.AudioResult, error)
}

// Handler wires HTTP routes to the relay service.
type Handler struct {
	relay          Relay
	limiter        Limiter
	maxUploadBytes int64
}

// NewHandler constructs a Handler instance. limiter may be nil.
func NewHandler(service Relay, maxUploadBytes int64, limiter Limiter) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 25 << 20
	}
	return &Handler{
		relay:          service,
		limiter:        limiter,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.index)
	router.GET("/healthz", h.healthz)
	relayRoutes := router.Group("/")
	if h.limiter != nil {
		relayRoutes.Use(RateLimit(h.limiter))
	}
	relayRoutes.POST("/chat", h.submitChat)
	relayRoutes.POST("/audio", h.submitAudio)
}

func (h *Handler) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type chatRequest struct {
	History []models.Message `json:"history"`
}

func (h *Handler) submitChat(c *gin.Context) {
	// An empty or unreadable body carries no history.
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": relay.ErrHistoryRequired.Error()})
		return
	}
	reply, err := h.relay.SubmitChat(c.Request.Context(), req.History)
	if err != nil {
		status, body := errorResponse("/chat", err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *Handler) submitAudio(c *gin.Context) {
	if c.Request.ContentLength > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "audio file too large"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	file, err := c.FormFile(audioField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "audio file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": relay.ErrAudioRequired.Error()})
		return
	}
	f, err := file.Open()
	if err != nil {
		log.Printf("/audio open upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"reply": InternalApology})
		return
	}
	defer f.Close()

	res, err := h.relay.SubmitAudio(c.Request.Context(), relay.AudioUpload{
		Filename: file.Filename,
		Body:     f,
	})
	if err != nil {
		status, body := errorResponse("/audio", err)
		if res.Transcript != "" {
			body["transcript"] = res.Transcript
		}
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transcript": res.Transcript,
		"reply":      res.Reply,
	})
}

// errorResponse maps a relay error to a status and a body that never
// carries provider or internal details.
func errorResponse(route string, err error) (int, gin.H) {
	switch {
	case relay.IsInvalidRequest(err):
		return http.StatusBadRequest, gin.H{"error": err.Error()}
	case errors.Is(err, relay.ErrUpstream):
		log.Printf("%s upstream error: %v", route, err)
		return http.StatusBadGateway, gin.H{"reply": UpstreamApology}
	default:
		log.Printf("%s internal error: %v", route, err)
		return http.StatusInternalServerError, gin.H{"reply": InternalApology}
	}
}
