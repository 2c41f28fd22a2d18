package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/JohnSOGO/ChatMan/internal/activity"
	"github.com/JohnSOGO/ChatMan/internal/http/middleware"
)

//go:embed static/index.html
var staticFS embed.FS

var indexTemplate = template.Must(template.ParseFS(staticFS, "static/index.html"))

// Feed godoc
// @ID          activityFeed
// @Summary     Live chat activity
// @Description One entry per chatter seen since startup, newest activity first.
// @Description Always 200; an empty list when ingestion is off or the snapshot fails.
// @Tags        Activity
// @Produce     json
// @Success     200 {array} activity.Entry
// @Router      /activity [get]
func (h *Handlers) Feed(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	ok(c, h.snapshot(c))
}

// snapshot never fails: a missing tracker or a panic inside it degrades to
// an empty list.
func (h *Handlers) snapshot(c *gin.Context) (entries []activity.Entry) {
	entries = []activity.Entry{}
	if h.activity == nil {
		return entries
	}
	defer func() {
		if rec := recover(); rec != nil {
			middleware.LoggerFrom(c).Error().
				Interface("panic", rec).
				Msg("activity snapshot failed")
			entries = []activity.Entry{}
		}
	}()
	if snap := h.activity.Snapshot(); snap != nil {
		entries = snap
	}
	return entries
}

// Index serves the activity page, which polls the feed every two seconds.
func (h *Handlers) Index(c *gin.Context) {
	c.Render(http.StatusOK, render.HTML{
		Template: h.page,
		Name:     "index.html",
		Data:     gin.H{"FeedPath": h.feedPath},
	})
}
