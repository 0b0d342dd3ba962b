package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 🟢 GET /api/slides
func (h *Handler) GetSlides(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"current": h.slider.Current(),
		"slides":  h.catalog.Slides(),
	})
}

// POST /api/slides/next et /api/slides/prev : navigation manuelle par les flèches.
func (h *Handler) NextSlide(c *gin.Context) {
	c.JSON(http.StatusOK, h.slider.Next())
}

func (h *Handler) PrevSlide(c *gin.Context) {
	c.JSON(http.StatusOK, h.slider.Prev())
}

// POST /api/slides/pause et /api/slides/resume : survol du carrousel.
// Le carrousel est unique pour tout le serveur, la pause vaut pour tous les visiteurs.
func (h *Handler) PauseSlides(c *gin.Context) {
	h.slider.Pause()
	c.JSON(http.StatusOK, h.slider.Current())
}

func (h *Handler) ResumeSlides(c *gin.Context) {
	h.slider.Resume()
	c.JSON(http.StatusOK, h.slider.Current())
}
