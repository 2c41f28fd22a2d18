package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JohnSOGO/ChatMan/internal/domain"
	"github.com/JohnSOGO/ChatMan/internal/sysutil"
	"github.com/JohnSOGO/ChatMan/internal/utils"
)

// ReviewRequest sets the reviewed flag of a batch of messages.
type ReviewRequest struct {
	IDs      []int64 `json:"ids" example:"1,2,3"`
	Reviewed *bool   `json:"reviewed" binding:"required" example:"true"`
}

// ReviewResponse reports how many of the ids exist. Unknown ids are ignored.
type ReviewResponse struct {
	Matched int64 `json:"matched" example:"3"`
}

func messagesOrEmpty(ms []domain.Message) []domain.Message {
	if ms == nil {
		return []domain.Message{}
	}
	return ms
}

// LatestPerUser godoc
// @ID          latestPerUser
// @Summary     Newest message of every user
// @Tags        Review
// @Produce     json
// @Success     200 {array}  domain.Message
// @Failure     503 {object} handlers.ErrorResponse "Store unavailable"
// @Router      /messages/latest [get]
func (h *Handlers) LatestPerUser(c *gin.Context) {
	ms, err := h.svc.LatestPerUser(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, messagesOrEmpty(ms))
}

// MostRecent godoc
// @ID          mostRecentMessage
// @Summary     Newest stored message
// @Tags        Review
// @Produce     json
// @Success     200 {object} domain.Message
// @Failure     404 {object} handlers.ErrorResponse "Store is empty"
// @Failure     503 {object} handlers.ErrorResponse "Store unavailable"
// @Router      /messages/recent [get]
func (h *Handlers) MostRecent(c *gin.Context) {
	m, err := h.svc.MostRecent(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, m)
}

// Unreviewed godoc
// @ID          unreviewedMessages
// @Summary     Review queue
// @Description Unreviewed messages, newest first. Limits above the configured maximum are capped.
// @Tags        Review
// @Produce     json
// @Param       limit query int false "Maximum rows" minimum(0) default(100)
// @Success     200 {array}  domain.Message
// @Failure     400 {object} handlers.ErrorResponse "Bad limit"
// @Failure     503 {object} handlers.ErrorResponse "Store unavailable"
// @Router      /messages/unreviewed [get]
func (h *Handlers) Unreviewed(c *gin.Context) {
	limit, present, err := utils.OptionalInt(c.Query("limit"))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "limit must be an integer")
		return
	}
	ms, err := h.svc.Unreviewed(c.Request.Context(), h.svc.ResolveLimit(limit, present))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, messagesOrEmpty(ms))
}

// Users godoc
// @ID          listUsers
// @Summary     Distinct message authors
// @Description Sorted case-insensitively. Supports If-None-Match with a weak ETag that changes on every new message.
// @Tags        Review
// @Produce     json
// @Param       If-None-Match header string false "ETag from a previous response"
// @Success     200 {array}  string
// @Success     304 "Not modified"
// @Failure     503 {object} handlers.ErrorResponse "Store unavailable"
// @Router      /users [get]
func (h *Handlers) Users(c *gin.Context) {
	ctx := c.Request.Context()

	// Best effort; without stats the list is served uncached.
	if count, maxID, err := h.svc.Stats(ctx); err == nil {
		etag := fmt.Sprintf(`W/"users:%d:%d"`, count, maxID)
		c.Header("ETag", etag)
		if etagMatch(c.GetHeader("If-None-Match"), etag) {
			c.Status(http.StatusNotModified)
			return
		}
	}

	users, err := h.svc.Users(ctx)
	if err != nil {
		failService(c, err)
		return
	}
	if users == nil {
		users = []string{}
	}
	ok(c, users)
}

// etagMatch reports whether an If-None-Match header matches etag using weak
// comparison: "*" matches anything, lists are comma separated and the W/
// prefix is ignored on both sides.
func etagMatch(header, etag string) bool {
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if candidate != "" && strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}

// UserMessages godoc
// @ID          userMessages
// @Summary     Messages of one user
// @Tags        Review
// @Produce     json
// @Param       user          path  string true  "User handle"
// @Param       order         query string false "asc|desc (aliases oldest|newest)" default(desc)
// @Param       hide_reviewed query bool   false "Skip reviewed messages"
// @Success     200 {array}  domain.Message
// @Failure     400 {object} handlers.ErrorResponse "Bad order"
// @Failure     503 {object} handlers.ErrorResponse "Store unavailable"
// @Router      /users/{user}/messages [get]
func (h *Handlers) UserMessages(c *gin.Context) {
	desc, valid := utils.SortDesc(c.Query("order"), true)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "order must be asc or desc")
		return
	}
	user := strings.TrimSpace(c.Param("user"))
	hide := sysutil.IsTruthy(c.Query("hide_reviewed"))

	ms, err := h.svc.UserMessages(c.Request.Context(), user, desc, hide)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, messagesOrEmpty(ms))
}

// MarkReviewed godoc
// @ID          markReviewed
// @Summary     Set the reviewed flag of messages
// @Description Idempotent. Unknown ids are ignored; a non-positive id rejects the whole batch.
// @Tags        Review
// @Accept      json
// @Produce     json
// @Param       body body     handlers.ReviewRequest true "Ids and flag"
// @Success     200  {object} handlers.ReviewResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Router      /messages/review [post]
func (h *Handlers) MarkReviewed(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "body must be {\"ids\": [...], \"reviewed\": bool}")
		return
	}
	n, err := h.svc.MarkReviewed(c.Request.Context(), req.IDs, *req.Reviewed)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, ReviewResponse{Matched: n})
}
