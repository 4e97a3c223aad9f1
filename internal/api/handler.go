package api

import (
	"context"
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/amterp/tack/internal/model"
	"github.com/amterp/tack/internal/service"
)

// Handler contains all HTTP handlers for the API.
//
// The server is single-project: every request works on the ProjectContext
// given at construction.
type Handler struct {
	ctx *ProjectContext
	log *log.Entry
}

// NewHandler creates a new handler for the given project.
func NewHandler(ctx *ProjectContext, logger *log.Logger) *Handler {
	return &Handler{ctx: ctx, log: logger.WithField("component", "api")}
}

// RegisterRoutes sets up all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Board routes
	mux.HandleFunc("GET /api/v1/boards", h.ListBoards)
	mux.HandleFunc("GET /api/v1/boards/{board}", h.GetBoard)

	// List routes
	mux.HandleFunc("GET /api/v1/boards/{board}/lists", h.ListLists)
	mux.HandleFunc("POST /api/v1/boards/{board}/lists", h.CreateList)
	mux.HandleFunc("PATCH /api/v1/boards/{board}/lists/{list}", h.UpdateList)
	mux.HandleFunc("DELETE /api/v1/boards/{board}/lists/{list}", h.DeleteList)
	mux.HandleFunc("PUT /api/v1/boards/{board}/lists/{list}/position", h.ReorderList)
	mux.HandleFunc("GET /api/v1/boards/{board}/lists/{list}/cards", h.ListCards)

	// Card routes
	mux.HandleFunc("POST /api/v1/boards/{board}/cards", h.CreateCard)
	mux.HandleFunc("GET /api/v1/boards/{board}/cards/{id}", h.GetCard)
	mux.HandleFunc("PUT /api/v1/boards/{board}/cards/{id}", h.UpdateCard)
	mux.HandleFunc("DELETE /api/v1/boards/{board}/cards/{id}", h.DeleteCard)
	mux.HandleFunc("PATCH /api/v1/boards/{board}/cards/{id}/move", h.MoveCard)
}

// idempotent runs apply unless the request's Idempotency-Key is already
// known under scope. A key is pending while apply runs and done once it
// succeeds; only a done key is acknowledged. A duplicate that arrives while
// the key is pending gets 425 so the client retries once the outcome is
// known. It returns false after writing an error response.
func (h *Handler) idempotent(w http.ResponseWriter, r *http.Request, scope string, apply func() error) bool {
	key := r.Header.Get(IdempotencyHeader)
	if key == "" || h.ctx.Deduper == nil {
		if err := apply(); err != nil {
			Error(w, err)
			return false
		}
		return true
	}

	entry := h.log.WithFields(log.Fields{"scope": scope, "key": key})
	state, err := h.ctx.Deduper.Begin(r.Context(), scope, key)
	if err != nil {
		entry.WithError(err).Warn("idempotency store unavailable, applying request")
		if err := apply(); err != nil {
			Error(w, err)
			return false
		}
		return true
	}

	switch state {
	case KeyDone:
		entry.Debug("duplicate request acknowledged")
		return true
	case KeyPending:
		entry.Debug("duplicate request while original is in flight")
		JSON(w, http.StatusTooEarly, ErrorResponse{Error: "a request with this idempotency key is still in progress"})
		return false
	}

	// The outcome must be recorded even if the client went away.
	bg := context.WithoutCancel(r.Context())
	if err := apply(); err != nil {
		if relErr := h.ctx.Deduper.Release(bg, scope, key); relErr != nil {
			entry.WithError(relErr).Warn("failed to release idempotency key")
		}
		Error(w, err)
		return false
	}
	if err := h.ctx.Deduper.Complete(bg, scope, key); err != nil {
		entry.WithError(err).Warn("failed to mark idempotency key done")
	}
	return true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// --- Board Handlers ---

// BoardsResponse is the JSON response for listing boards.
type BoardsResponse struct {
	Boards []string `json:"boards"`
}

// ListBoards returns the names of all boards.
func (h *Handler) ListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.ctx.BoardService.List()
	if err != nil {
		Error(w, err)
		return
	}
	if boards == nil {
		boards = []string{}
	}
	JSON(w, http.StatusOK, BoardsResponse{Boards: boards})
}

// BoardResponse describes a board and its lists in order.
type BoardResponse struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Lists []ListResponse `json:"lists"`
}

// GetBoard returns a board with its list order.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.ctx.BoardService.Get(r.PathValue("board"))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, BoardResponse{ID: cfg.ID, Name: cfg.Name, Lists: toListResponses(cfg.Lists)})
}

// --- List Handlers ---

// ListResponse is the wire form of a list. Card order is served by the
// list's cards route.
type ListResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Color     string `json:"color,omitempty"`
	CardCount int    `json:"card_count"`
}

func toListResponse(l model.List) ListResponse {
	return ListResponse{ID: l.ID, Title: l.Title, Color: l.Color, CardCount: len(l.CardIDs)}
}

func toListResponses(lists []model.List) []ListResponse {
	out := make([]ListResponse, len(lists))
	for i, l := range lists {
		out[i] = toListResponse(l)
	}
	return out
}

// ListLists returns the board's lists in order.
func (h *Handler) ListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.ctx.BoardService.ListOrder(r.PathValue("board"))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, toListResponses(lists))
}

// CreateListRequest is the JSON body for creating a list.
type CreateListRequest struct {
	Title    string `json:"title"`
	Position *int   `json:"position,omitempty"` // omit or -1 to append
}

// CreateList adds a list to a board.
func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	boardName := r.PathValue("board")

	var req CreateListRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		BadRequest(w, "title is required")
		return
	}
	position := -1
	if req.Position != nil {
		position = *req.Position
	}

	l, err := h.ctx.BoardService.AddList(boardName, req.Title, position)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusCreated, toListResponse(*l))
}

// UpdateListRequest is the JSON body for renaming a list.
type UpdateListRequest struct {
	Title *string `json:"title,omitempty"`
}

// UpdateList renames a list.
func (h *Handler) UpdateList(w http.ResponseWriter, r *http.Request) {
	boardName := r.PathValue("board")
	listID := r.PathValue("list")

	var req UpdateListRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Title != nil {
		if err := h.ctx.BoardService.RenameList(boardName, listID, *req.Title); err != nil {
			Error(w, err)
			return
		}
	}

	l, err := h.ctx.BoardService.FindList(boardName, listID)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, toListResponse(*l))
}

// DeleteListResponse is returned when a list is deleted.
type DeleteListResponse struct {
	DeletedCards int `json:"deleted_cards"`
}

// DeleteList deletes a list and all its cards.
func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.ctx.BoardService.DeleteList(r.PathValue("board"), r.PathValue("list"))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, DeleteListResponse{DeletedCards: deleted})
}

// PositionRequest is the JSON body for moving a list.
type PositionRequest struct {
	Position *int `json:"position"`
}

// ReorderList moves a list to a new index in the board's list order.
func (h *Handler) ReorderList(w http.ResponseWriter, r *http.Request) {
	boardName := r.PathValue("board")
	listID := r.PathValue("list")

	var req PositionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Position == nil {
		BadRequest(w, "position is required")
		return
	}

	ok := h.idempotent(w, r, boardName+":list:"+listID, func() error {
		return h.ctx.BoardService.ReorderList(boardName, listID, *req.Position)
	})
	if !ok {
		return
	}

	lists, err := h.ctx.BoardService.ListOrder(boardName)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, toListResponses(lists))
}

// ListCards returns the cards of one list in order.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.ctx.CardService.ListCards(r.PathValue("board"), r.PathValue("list"))
	if err != nil {
		Error(w, err)
		return
	}
	if cards == nil {
		cards = []*model.Card{}
	}
	JSON(w, http.StatusOK, cards)
}

// --- Card Handlers ---

// CreateCardRequest is the JSON body for creating a card.
type CreateCardRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ListID      string   `json:"list_id,omitempty"`
	Position    *int     `json:"position,omitempty"`
	Assignees   []string `json:"assignees,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	DueAtMillis int64    `json:"due_at_millis,omitempty"`
}

// CreateCard creates a new card.
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	boardName := r.PathValue("board")

	var req CreateCardRequest
	if !decode(w, r, &req) {
		return
	}
	position := -1
	if req.Position != nil {
		position = *req.Position
	}

	card, err := h.ctx.CardService.Add(service.AddCardInput{
		BoardName:   boardName,
		ListID:      req.ListID,
		Title:       req.Title,
		Description: req.Description,
		Assignees:   req.Assignees,
		Labels:      req.Labels,
		DueAtMillis: req.DueAtMillis,
		Position:    position,
	})
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusCreated, card)
}

// GetCard returns a single card by ID.
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.ctx.CardService.Get(r.PathValue("board"), r.PathValue("id"))
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, card)
}

// UpdateCardRequest is the JSON body for updating a card.
type UpdateCardRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Progress    *int     `json:"progress,omitempty"`
	DueAtMillis *int64   `json:"due_at_millis,omitempty"`
	Assignees   []string `json:"assignees,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

// UpdateCard edits an existing card. Moving between lists goes through
// MoveCard.
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var req UpdateCardRequest
	if !decode(w, r, &req) {
		return
	}

	card, err := h.ctx.CardService.Edit(service.EditCardInput{
		BoardName:   r.PathValue("board"),
		CardID:      r.PathValue("id"),
		Title:       req.Title,
		Description: req.Description,
		Progress:    req.Progress,
		DueAtMillis: req.DueAtMillis,
		Assignees:   req.Assignees,
		Labels:      req.Labels,
	})
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, card)
}

// DeleteCard deletes a card.
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := h.ctx.CardService.Delete(r.PathValue("board"), r.PathValue("id")); err != nil {
		Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveCardRequest is the JSON body for moving a card.
type MoveCardRequest struct {
	FromList string `json:"from_list,omitempty"` // current list as the client knows it
	ToList   string `json:"to_list"`
	Position *int   `json:"position,omitempty"` // final index; omit or -1 to append
}

// MoveCard moves a card within or between lists.
func (h *Handler) MoveCard(w http.ResponseWriter, r *http.Request) {
	boardName := r.PathValue("board")
	cardID := r.PathValue("id")

	var req MoveCardRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ToList == "" {
		BadRequest(w, "to_list is required")
		return
	}
	position := -1
	if req.Position != nil {
		position = *req.Position
	}

	ok := h.idempotent(w, r, boardName+":card:"+cardID, func() error {
		return h.ctx.CardService.Move(boardName, cardID, req.FromList, req.ToList, position)
	})
	if !ok {
		return
	}

	card, err := h.ctx.CardService.Get(boardName, cardID)
	if err != nil {
		Error(w, err)
		return
	}
	JSON(w, http.StatusOK, card)
}
