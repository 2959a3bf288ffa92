package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/ksuid"

	"fable/pkg/character"
	"fable/pkg/engine"
	"fable/pkg/utils"
)

type suggestReq struct {
	Theme string `json:"theme"`
}

type startReq struct {
	Theme                string `json:"theme"`
	CharacterName        string `json:"characterName"`
	CharacterPersonality string `json:"characterPersonality"`
}

type continueReq struct {
	Theme                string `json:"theme"`
	CharacterName        string `json:"characterName"`
	CharacterPersonality string `json:"characterPersonality"`
	StorySoFar           string `json:"storySoFar"`
	UserAction           string `json:"userAction"`
}

type openingResp struct {
	Opening string `json:"opening"`
}

type segmentResp struct {
	Segment string `json:"segment"`
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

const (
	openingPlaceholder = "Something begins..."
	segmentPlaceholder = "The story continues..."
)

// POST /api/suggest-character
func (s *Server) handleSuggestCharacter(c echo.Context) error {
	var req suggestReq
	bindLenient(c, &req)
	theme := orDefault(req.Theme, engine.DefaultGenre)

	id := ksuid.New().String()
	log.Info("suggesting character", "id", id, "theme", theme)

	text, err := s.Engine.Generate(c.Request().Context(), theme, suggestCharacterInstruction(theme), "")
	if err != nil {
		return s.engineError(c, id, err)
	}

	suggestion := character.Parse(text)
	log.Debug("parsed character suggestion", "id", id, "name", suggestion.Name)
	return c.JSON(http.StatusOK, suggestion)
}

// POST /api/start-story
func (s *Server) handleStartStory(c echo.Context) error {
	var req startReq
	bindLenient(c, &req)
	theme := orDefault(req.Theme, engine.DefaultGenre)
	name := orDefault(req.CharacterName, character.DefaultName)
	personality := strings.TrimSpace(req.CharacterPersonality)

	id := ksuid.New().String()
	log.Info("starting story", "id", id, "theme", theme, "character", name)

	opening, err := s.Engine.Generate(c.Request().Context(), theme, startStoryInstruction(name, personality), "")
	if err != nil {
		return s.engineError(c, id, err)
	}
	if opening == "" {
		opening = openingPlaceholder
	}
	return c.JSON(http.StatusOK, openingResp{Opening: opening})
}

// POST /api/continue-story
func (s *Server) handleContinueStory(c echo.Context) error {
	var req continueReq
	bindLenient(c, &req)
	theme := orDefault(req.Theme, engine.DefaultGenre)
	name := orDefault(req.CharacterName, character.DefaultName)
	personality := strings.TrimSpace(req.CharacterPersonality)
	storySoFar := strings.TrimSpace(req.StorySoFar)

	action := strings.TrimSpace(req.UserAction)
	if action == "" {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "No action provided."})
	}

	id := ksuid.New().String()
	log.Info("continuing story", "id", id, "theme", theme, "character", name, "action", utils.LimitStr(action, 50))

	segment, err := s.Engine.Generate(
		c.Request().Context(),
		theme,
		continueStoryInstruction(storySoFar, action),
		characterHint(name, personality),
	)
	if err != nil {
		return s.engineError(c, id, err)
	}
	if segment == "" {
		segment = segmentPlaceholder
	}
	return c.JSON(http.StatusOK, segmentResp{Segment: segment})
}

// bindLenient decodes the JSON body into v, treating a missing or malformed
// body as an empty request rather than an error.
func bindLenient(c echo.Context, v any) {
	if err := c.Bind(v); err != nil {
		log.Debug("ignoring unreadable request body", "error", err)
	}
}

func orDefault(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}

// engineError maps generation failures to client-safe responses: a missing
// credential is the caller's problem (400), anything else is a busy engine
// (503). Provider detail is only exposed in verbose mode.
func (s *Server) engineError(c echo.Context, id string, err error) error {
	if errors.Is(err, engine.ErrMissingAPIKey) {
		log.Warn("generation rejected, credential not configured", "id", id)
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}
	log.Error("story engine failure", "id", id, "error", err)
	body := errorBody{Error: "Story engine is busy; try again."}
	if s.Verbose {
		body.Detail = err.Error()
	}
	return c.JSON(http.StatusServiceUnavailable, body)
}
