package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/lobby-server/internal/core"
	"github.com/vovakirdan/lobby-server/internal/proto"
)

// GamesHandlers provides HTTP handlers for lobby listing endpoints.
type GamesHandlers struct {
	coordinator *core.Coordinator
	log         *zerolog.Logger
}

// NewGamesHandlers creates a new games handlers instance.
func NewGamesHandlers(coordinator *core.Coordinator, logger *zerolog.Logger) *GamesHandlers {
	return &GamesHandlers{
		coordinator: coordinator,
		log:         logger,
	}
}

// ListGames returns a snapshot of all open lobbies.
// GET /api/games
func (h *GamesHandlers) ListGames(c *gin.Context) {
	games := h.coordinator.Registry().ListGames()

	infos := make([]proto.GameInfo, 0, len(games))
	for _, g := range games {
		infos = append(infos, gameInfoFromSnapshot(g))
	}

	h.log.Debug().Int("game_count", len(games)).Msg("games listed")
	c.JSON(http.StatusOK, infos)
}
