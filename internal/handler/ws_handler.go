package handler

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edifyminds/edify-backend/internal/config"
	"github.com/edifyminds/edify-backend/internal/middleware"
	"github.com/edifyminds/edify-backend/internal/service"
	ws "github.com/edifyminds/edify-backend/internal/websocket"
)

// draftGracePeriod extends the draft hash TTL past the advisory test
// duration so a client that overruns its timer can still resync.
const draftGracePeriod = 30 * time.Minute

// buildUpgrader returns an upgrader that accepts only the configured
// origins. With none configured every origin is allowed (dev mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			return slices.ContainsFunc(allowedOrigins, func(o string) bool {
				return strings.EqualFold(o, origin)
			})
		},
	}
}

// WSHandler handles the student draft-sync WebSocket channel. Drafts
// are a resilience buffer for crashed clients; grading only ever uses
// the answers posted to the submit endpoint.
type WSHandler struct {
	rdb         *redis.Client
	testService *service.TestService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, testService *service.TestService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:         rdb,
		testService: testService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// TestDraftStream godoc
// WS /ws/v1/tests/:test_id/stream
// Upgrades to WebSocket for draft answer sync while a student works
// through a test.
func (h *WSHandler) TestDraftStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid test ID"})
		return
	}

	studentID := claims.UserID

	// Enrollment check happens before the upgrade so rejections are
	// plain HTTP.
	payload, err := h.testService.GetPayloadForStudent(c.Request.Context(), testID, studentID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "no access to this test"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	draftsKey := config.CacheKey.StudentDraftsKey(testID.String(), studentID)
	draftTTL := time.Duration(payload.DurationMinutes)*time.Minute + draftGracePeriod

	wsLog := h.log.With().
		Int("student_id", studentID).
		Str("test_id", testID.String()).
		Logger()

	wsLog.Info().Msg("Student connected")

	for {
		var msg ws.RequestPayload
		err := ws.Read(conn, &msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionDraft:
			h.handleDraft(conn, wsLog, draftsKey, draftTTL, payload.QuestionCount, &msg)
		case ws.ActionState:
			h.handleState(conn, wsLog, draftsKey)
		case ws.ActionPing:
			ws.Send(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.SendError(conn, "unknown action: "+string(msg.Action))
		}
	}
}

// handleDraft stores a single draft answer in the Redis hash and renews
// its TTL.
func (h *WSHandler) handleDraft(conn *websocket.Conn, wsLog zerolog.Logger, draftsKey string, ttl time.Duration, questionCount int, msg *ws.RequestPayload) {
	ctx := context.Background()

	if msg.QuestionIndex < 0 || msg.QuestionIndex >= questionCount {
		ws.SendError(conn, "q out of range")
		return
	}

	letter := strings.ToUpper(strings.TrimSpace(msg.Answer))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'F' {
		ws.SendError(conn, "ans must be a single letter A-F")
		return
	}

	pipe := h.rdb.Pipeline()
	pipe.HSet(ctx, draftsKey, msg.QuestionIndex, letter)
	pipe.Expire(ctx, draftsKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Draft save Redis error")
		ws.SendError(conn, "save failed")
		return
	}

	ws.Send(conn, ws.SavedResponse{Event: ws.EventSaved, Status: "saved"})
}

// handleState returns every stored draft so a reconnecting client can
// repopulate its answers.
func (h *WSHandler) handleState(conn *websocket.Conn, wsLog zerolog.Logger, draftsKey string) {
	ctx := context.Background()

	drafts, err := h.rdb.HGetAll(ctx, draftsKey).Result()
	if err != nil {
		wsLog.Error().Err(err).Msg("Draft state Redis error")
		ws.SendError(conn, "state fetch failed")
		return
	}

	ws.Send(conn, ws.StateResponse{Event: ws.EventState, Drafts: drafts})
}
