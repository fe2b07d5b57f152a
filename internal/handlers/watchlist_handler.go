package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockstalk/internal/models"
	"stockstalk/internal/services"
)

// WatchlistHandler handles watchlist requests for the authenticated user.
type WatchlistHandler struct {
	watchlistService services.WatchlistServicer
	auditService     services.AuditServicer
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlistService services.WatchlistServicer, auditService services.AuditServicer) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService, auditService: auditService}
}

// CreateWatchlistRequest is the payload for creating a watchlist. An omitted
// name falls back to "Default Watchlist".
type CreateWatchlistRequest struct {
	Name string `json:"name" binding:"omitempty,watchlist_name"`
}

// MembershipRequest names the stock to add or remove.
type MembershipRequest struct {
	StockID uint `json:"stock_id" binding:"required,min=1"`
}

// ListWatchlists handles listing the user's watchlists.
// @Summary     List watchlists
// @Description Get every watchlist of the authenticated user with its stocks
// @Tags        watchlists
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  WatchlistResponse "Watchlists"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /watchlists/ [get]
func (h *WatchlistHandler) ListWatchlists(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	watchlists, err := h.watchlistService.GetUserWatchlists(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializeWatchlists(watchlists))
}

// CreateWatchlist handles creating a watchlist.
// @Summary     Create watchlist
// @Description Create a watchlist owned by the authenticated user
// @Tags        watchlists
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateWatchlistRequest false "Watchlist name"
// @Success     201 {object} WatchlistResponse "Watchlist created"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate name"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /watchlists/ [post]
func (h *WatchlistHandler) CreateWatchlist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(c, bindError(err))
		return
	}

	watchlist, err := h.watchlistService.CreateWatchlist(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_WATCHLIST", "watchlist", watchlist.ID, c.ClientIP(),
		map[string]interface{}{"name": watchlist.Name})

	c.JSON(http.StatusCreated, serializeWatchlist(watchlist))
}

// GetWatchlist handles retrieving one watchlist.
// @Summary     Get watchlist by ID
// @Description Get a watchlist of the authenticated user with its stocks
// @Tags        watchlists
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Watchlist ID"
// @Success     200 {object} WatchlistResponse "Watchlist"
// @Failure     400 {object} ErrorResponse "Invalid watchlist ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Watchlist not found"
// @Router      /watchlists/{id}/ [get]
func (h *WatchlistHandler) GetWatchlist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	watchlist, err := h.watchlistService.GetWatchlistByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializeWatchlist(watchlist))
}

// DeleteWatchlist handles deleting a watchlist.
// @Summary     Delete watchlist
// @Description Delete a watchlist of the authenticated user; its stocks are kept
// @Tags        watchlists
// @Security    BearerAuth
// @Param       id path int true "Watchlist ID"
// @Success     204 "Watchlist deleted"
// @Failure     400 {object} ErrorResponse "Invalid watchlist ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Watchlist not found"
// @Router      /watchlists/{id}/ [delete]
func (h *WatchlistHandler) DeleteWatchlist(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.watchlistService.DeleteWatchlist(userID, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_WATCHLIST", "watchlist", id, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// AddStock handles adding a stock to a watchlist.
// @Summary     Add stock to watchlist
// @Description Add a stock to a watchlist; adding a member again changes nothing
// @Tags        watchlists
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Watchlist ID"
// @Param       request body MembershipRequest true "Stock to add"
// @Success     200 {object} WatchlistResponse "Updated watchlist"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Watchlist or stock not found"
// @Router      /watchlists/{id}/add_stock/ [post]
func (h *WatchlistHandler) AddStock(c *gin.Context) {
	h.changeMembership(c, "ADD_WATCHLIST_STOCK", h.watchlistService.AddStock)
}

// RemoveStock handles removing a stock from a watchlist.
// @Summary     Remove stock from watchlist
// @Description Remove a stock from a watchlist; removing a non-member changes nothing
// @Tags        watchlists
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Watchlist ID"
// @Param       request body MembershipRequest true "Stock to remove"
// @Success     200 {object} WatchlistResponse "Updated watchlist"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Watchlist or stock not found"
// @Router      /watchlists/{id}/remove_stock/ [post]
func (h *WatchlistHandler) RemoveStock(c *gin.Context) {
	h.changeMembership(c, "REMOVE_WATCHLIST_STOCK", h.watchlistService.RemoveStock)
}

func (h *WatchlistHandler) changeMembership(
	c *gin.Context,
	action string,
	apply func(userID, watchlistID, stockID uint) (*models.Watchlist, error),
) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	watchlist, err := apply(userID, id, req.StockID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, action, "watchlist", id, c.ClientIP(),
		map[string]interface{}{"stock_id": req.StockID})

	c.JSON(http.StatusOK, serializeWatchlist(watchlist))
}
