package handler

import (
	"io"
	"net/http"

	"github.com/dispensa/backend/internal/infrastructure/voice"
	"github.com/dispensa/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// maxAudioBytes caps transcription uploads at 25 MiB, matching the
// upstream service's limit.
const maxAudioBytes = 25 << 20

// VoiceHandler proxies the voice API test tool to the upstream
// speech service.
type VoiceHandler struct {
	BaseHandler
	client *voice.Client
}

// NewVoiceHandler creates a new VoiceHandler
func NewVoiceHandler(client *voice.Client) *VoiceHandler {
	return &VoiceHandler{client: client}
}

// SynthesizeRequest converts text to speech. Accepted as JSON or as a
// form post, matching what the speech clients send.
type SynthesizeRequest struct {
	Text  string `json:"text" form:"text" binding:"required,min=1,max=5000"`
	Voice string `json:"voice" form:"voice" binding:"omitempty,max=100"`
}

// Transcribe godoc
// @Summary      Transcribe an audio clip
// @Tags         voice
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio formData file true "Audio clip"
// @Param        language formData string false "Language code (default en)"
// @Param        mode formData string false "Segmentation mode (default auto_vad)"
// @Success      200 {object} dto.Response{data=voice.TranscribeResult}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /voice/transcribe [post]
func (h *VoiceHandler) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		h.BadRequest(c, "An audio file is required")
		return
	}
	if fileHeader.Size > maxAudioBytes {
		h.Error(c, http.StatusRequestEntityTooLarge, "AUDIO_TOO_LARGE", "Audio must be 25 MB or smaller")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded audio")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes+1))
	if err != nil {
		h.InternalError(c, "Failed to read uploaded audio")
		return
	}

	result, err := h.client.Transcribe(c.Request.Context(), audio, fileHeader.Filename,
		c.PostForm("language"), c.PostForm("mode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Synthesize godoc
// @Summary      Convert text to speech
// @Tags         voice
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      audio/mpeg
// @Param        request body SynthesizeRequest true "Text and voice selection"
// @Success      200 {file} binary "Synthesized audio"
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /voice/synthesize [post]
func (h *VoiceHandler) Synthesize(c *gin.Context) {
	var req SynthesizeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.client.Synthesize(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, result.ContentType, result.Audio)
}

// Voices godoc
// @Summary      List available voices
// @Description  Falls back to a built-in Canadian voice set when the upstream is unreachable
// @Tags         voice
// @Produce      json
// @Success      200 {object} dto.Response{data=[]voice.Voice}
// @Security     BearerAuth
// @Router       /voice/voices [get]
func (h *VoiceHandler) Voices(c *gin.Context) {
	h.Success(c, h.client.Voices(c.Request.Context()))
}

// RegisterRoutes registers voice test tool routes
func (h *VoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	v := rg.Group("/voice", middleware.RequireSuperAdmin())
	{
		v.POST("/transcribe", h.Transcribe)
		v.POST("/synthesize", h.Synthesize)
		v.GET("/voices", h.Voices)
	}
}
