// internal/handlers/market.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Patty240/nanotrade/internal/marketplace"
	"github.com/Patty240/nanotrade/internal/services"
	"github.com/Patty240/nanotrade/internal/utils"
)

type MarketHandler struct {
	marketService  *services.MarketService
	storageService *services.StorageService
}

func NewMarketHandler(marketService *services.MarketService, storageService *services.StorageService) *MarketHandler {
	return &MarketHandler{
		marketService:  marketService,
		storageService: storageService,
	}
}

// callerID resolves the authenticated caller identity set by the auth
// middleware; every mutating marketplace operation requires it.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.UUID{}, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.UUID{}, false
	}

	return userID, true
}

func innovationID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid innovation ID", nil)
		return 0, false
	}
	return id, true
}

// marketplaceErrorResponse maps the engine's typed failures onto HTTP.
// The stable numeric code travels in the error details.
func marketplaceErrorResponse(c *gin.Context, err error) {
	var mErr *marketplace.Error
	if !errors.As(err, &mErr) {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	details := gin.H{"code": mErr.Code}

	switch mErr.Code {
	case marketplace.CodeInnovationNotFound:
		utils.ErrorResponse(c, http.StatusNotFound, "INNOVATION_NOT_FOUND", mErr.Error(), details)
	case marketplace.CodeUnauthorizedAccess:
		utils.ErrorResponse(c, http.StatusForbidden, "UNAUTHORIZED_ACCESS", mErr.Error(), details)
	case marketplace.CodeListingClosed:
		utils.ErrorResponse(c, http.StatusConflict, "LISTING_CLOSED", mErr.Error(), details)
	case marketplace.CodeBidTooLow:
		utils.ErrorResponse(c, http.StatusBadRequest, "BID_TOO_LOW", mErr.Error(), details)
	case marketplace.CodeInvalidListing:
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_LISTING", mErr.Error(), details)
	case marketplace.CodeEscrowFailed:
		utils.ErrorResponse(c, http.StatusBadGateway, "ESCROW_FAILED", mErr.Error(), details)
	default:
		utils.InternalErrorResponse(c, mErr.Error())
	}
}

// POST /innovations
func (h *MarketHandler) ListInnovation(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	var req services.ListInnovationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	id, err := h.marketService.ListInnovation(caller, &req)
	if err != nil {
		marketplaceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":       "Innovation listed successfully",
		"innovation_id": id,
	})
}

// GET /innovations/:id
func (h *MarketHandler) GetInnovation(c *gin.Context) {
	id, ok := innovationID(c)
	if !ok {
		return
	}

	inn, found := h.marketService.InnovationDetails(id)
	if !found {
		utils.NotFoundResponse(c, "innovation")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"innovation": inn,
	})
}

// GET /innovations/:id/listing
func (h *MarketHandler) GetListing(c *gin.Context) {
	id, ok := innovationID(c)
	if !ok {
		return
	}

	listing, found := h.marketService.InnovationListing(id)
	if !found {
		utils.NotFoundResponse(c, "listing")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"listing": listing,
	})
}

// GET /innovations/:id/highest-bid
func (h *MarketHandler) GetHighestBid(c *gin.Context) {
	id, ok := innovationID(c)
	if !ok {
		return
	}

	// Unknown ids deliberately yield (0, null) instead of a 404.
	amount, bidder := h.marketService.HighestBid(id)

	utils.SuccessResponse(c, gin.H{
		"amount": amount,
		"bidder": bidder,
	})
}

// POST /innovations/:id/bids
func (h *MarketHandler) PlaceBid(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	id, ok := innovationID(c)
	if !ok {
		return
	}

	var req services.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.marketService.PlaceBid(caller, id, &req); err != nil {
		marketplaceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Bid placed successfully",
	})
}

// POST /innovations/:id/accept
func (h *MarketHandler) AcceptBid(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	id, ok := innovationID(c)
	if !ok {
		return
	}

	accepted, err := h.marketService.AcceptBid(caller, id)
	if err != nil {
		marketplaceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Bid accepted, ownership transferred",
		"buyer":   accepted.Bidder,
		"amount":  accepted.Amount,
	})
}

// POST /innovations/:id/withdraw
func (h *MarketHandler) WithdrawListing(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		return
	}

	id, ok := innovationID(c)
	if !ok {
		return
	}

	if err := h.marketService.WithdrawListing(caller, id); err != nil {
		marketplaceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Listing withdrawn",
	})
}

// GET /innovations/:id/bids
func (h *MarketHandler) GetInnovationBids(c *gin.Context) {
	id, ok := innovationID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	bids, total, err := h.marketService.BidHistory(id, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(bids, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /trades
func (h *MarketHandler) GetTrades(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	trades, total, err := h.marketService.TradeHistory(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(trades, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /innovations/upload
func (h *MarketHandler) UploadDocuments(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form", err.Error())
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, "No files provided", nil)
		return
	}

	options := h.storageService.GetDefaultUploadOptions()

	var results []services.UploadResult
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			utils.BadRequestResponse(c, "Failed to read file", err.Error())
			return
		}

		result, err := h.storageService.UploadFile(file, header, options)
		file.Close()
		if err != nil {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}

		results = append(results, *result)
	}

	utils.SuccessResponse(c, gin.H{
		"files": results,
	})
}
