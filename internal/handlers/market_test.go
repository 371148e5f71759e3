// internal/handlers/market_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/Patty240/nanotrade/internal/clock"
	"github.com/Patty240/nanotrade/internal/marketplace"
	"github.com/Patty240/nanotrade/internal/services"
)

type MarketHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	handler *MarketHandler

	alice uuid.UUID
	bob   uuid.UUID
}

func (suite *MarketHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.alice = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	suite.bob = uuid.MustParse("22222222-2222-2222-2222-222222222222")

	engine := marketplace.NewEngine(
		marketplace.NewLedger(),
		clock.NewFixed(time.Unix(1700000000, 0)),
		services.NoopSettler{},
	)
	marketService := services.NewMarketService(engine, nil, clock.NewFixed(time.Unix(1700000000, 0)))
	suite.handler = NewMarketHandler(marketService, nil)

	suite.router = gin.New()

	// Stand-in for the JWT middleware: the caller identity arrives in a
	// header so each test can act as a different user.
	suite.router.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set("user_id", id)
		}
		c.Next()
	})

	innovations := suite.router.Group("/v1/innovations")
	{
		innovations.GET("/:id", suite.handler.GetInnovation)
		innovations.GET("/:id/listing", suite.handler.GetListing)
		innovations.GET("/:id/highest-bid", suite.handler.GetHighestBid)
		innovations.POST("", suite.handler.ListInnovation)
		innovations.POST("/:id/bids", suite.handler.PlaceBid)
		innovations.POST("/:id/accept", suite.handler.AcceptBid)
		innovations.POST("/:id/withdraw", suite.handler.WithdrawListing)
	}
}

func (suite *MarketHandlerTestSuite) request(method, path string, body interface{}, as uuid.UUID) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != uuid.Nil {
		req.Header.Set("X-User-ID", as.String())
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *MarketHandlerTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *MarketHandlerTestSuite) listInnovation(as uuid.UUID, name string, minPrice int64) uint64 {
	w := suite.request("POST", "/v1/innovations", map[string]interface{}{
		"name":      name,
		"min_price": minPrice,
	}, as)
	suite.Require().Equal(http.StatusCreated, w.Code)

	response := suite.decode(w)
	data := response["data"].(map[string]interface{})
	return uint64(data["innovation_id"].(float64))
}

func (suite *MarketHandlerTestSuite) TestListInnovation() {
	w := suite.request("POST", "/v1/innovations", map[string]interface{}{
		"name":        "Solar Paint",
		"description": "Photovoltaic coating",
		"min_price":   500,
	}, suite.alice)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	response := suite.decode(w)
	assert.True(suite.T(), response["success"].(bool))
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), float64(1), data["innovation_id"])
}

func (suite *MarketHandlerTestSuite) TestListInnovationRequiresAuth() {
	w := suite.request("POST", "/v1/innovations", map[string]interface{}{
		"name":      "Solar Paint",
		"min_price": 500,
	}, uuid.Nil)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *MarketHandlerTestSuite) TestListInnovationRejectsBadPrice() {
	w := suite.request("POST", "/v1/innovations", map[string]interface{}{
		"name":      "Solar Paint",
		"min_price": 0,
	}, suite.alice)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	response := suite.decode(w)
	assert.False(suite.T(), response["success"].(bool))
}

func (suite *MarketHandlerTestSuite) TestGetInnovation() {
	id := suite.listInnovation(suite.alice, "Solar Paint", 500)

	w := suite.request("GET", fmt.Sprintf("/v1/innovations/%d", id), nil, uuid.Nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	data := response["data"].(map[string]interface{})
	inn := data["innovation"].(map[string]interface{})
	assert.Equal(suite.T(), "Solar Paint", inn["name"])
	assert.Equal(suite.T(), "active", inn["status"])
	assert.Equal(suite.T(), suite.alice.String(), inn["owner"])
	assert.Nil(suite.T(), inn["highest_bidder"])
}

func (suite *MarketHandlerTestSuite) TestGetInnovationNotFound() {
	w := suite.request("GET", "/v1/innovations/42", nil, uuid.Nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *MarketHandlerTestSuite) TestGetInnovationBadID() {
	w := suite.request("GET", "/v1/innovations/not-a-number", nil, uuid.Nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *MarketHandlerTestSuite) TestGetListing() {
	id := suite.listInnovation(suite.alice, "Solar Paint", 500)

	w := suite.request("GET", fmt.Sprintf("/v1/innovations/%d/listing", id), nil, uuid.Nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	data := response["data"].(map[string]interface{})
	listing := data["listing"].(map[string]interface{})
	assert.Equal(suite.T(), suite.alice.String(), listing["seller"])
	assert.Equal(suite.T(), float64(500), listing["price"])
	assert.Equal(suite.T(), float64(1700000000), listing["listed_at"])
}

func (suite *MarketHandlerTestSuite) TestHighestBidUnknownInnovation() {
	w := suite.request("GET", "/v1/innovations/42/highest-bid", nil, uuid.Nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), float64(0), data["amount"])
	assert.Nil(suite.T(), data["bidder"])
}

func (suite *MarketHandlerTestSuite) TestPlaceBid() {
	id := suite.listInnovation(suite.alice, "Solar Paint", 500)

	w := suite.request("POST", fmt.Sprintf("/v1/innovations/%d/bids", id),
		map[string]interface{}{"amount": 600}, suite.bob)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.request("GET", fmt.Sprintf("/v1/innovations/%d/highest-bid", id), nil, uuid.Nil)
	data := suite.decode(w)["data"].(map[string]interface{})
	assert.Equal(suite.T(), float64(600), data["amount"])
	assert.Equal(suite.T(), suite.bob.String(), data["bidder"])
}

func (suite *MarketHandlerTestSuite) TestPlaceBidTooLow() {
	id := suite.listInnovation(suite.alice, "Solar Paint", 500)

	w := suite.request("POST", fmt.Sprintf("/v1/innovations/%d/bids", id),
		map[string]interface{}{"amount": 300}, suite.bob)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	response := suite.decode(w)
	errObj := response["error"].(map[string]interface{})
	assert.Equal(suite.T(), "BID_TOO_LOW", errObj["code"])
	details := errObj["details"].(map[string]interface{})
	assert.Equal(suite.T(), float64(marketplace.CodeBidTooLow), details["code"])
}

func (suite *MarketHandlerTestSuite) TestAcceptBidTransfersOwnership() {
	id := suite.listInnovation(suite.alice, "Solar Paint", 500)
	suite.request("POST", fmt.Sprintf("/v1/innovations/%d/bids", id),
		map[string]interface{}{"amount": 750}, suite.bob)

	w := suite.request("POST", fmt.Sprintf("/v1/innovations/%d/accept", id), nil, suite.alice)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	data := suite.decode(w)["data"].(map[string]interface{})
	assert.Equal(suite.T(), suite.bob.String(), data["buyer"])
	assert.Equal(suite.T(), float64(750), data["amount"])

	w = suite.request("GET", fmt.Sprintf("/v1/innovations/%d", id), nil, uuid.Nil)
	inn := suite.decode(w)["data"].(map[string]interface{})["innovation"].(map[string]interface{})
	assert.Equal(suite.T(), "sold", inn["status"])
	assert.Equal(suite.T(), suite.bob.String(), inn["owner"])
	assert.Nil(suite.T(), inn["highest_bidder"])
}

func (suite *MarketHandlerTestSuite) TestAcceptBidByNonOwner() {
	id := suite.listInnovation(suite.alice, "Solar Paint", 500)
	suite.request("POST", fmt.Sprintf("/v1/innovations/%d/bids", id),
		map[string]interface{}{"amount": 750}, suite.bob)

	w := suite.request("POST", fmt.Sprintf("/v1/innovations/%d/accept", id), nil, suite.bob)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	errObj := suite.decode(w)["error"].(map[string]interface{})
	assert.Equal(suite.T(), "UNAUTHORIZED_ACCESS", errObj["code"])
}

func (suite *MarketHandlerTestSuite) TestAcceptBidWithoutBids() {
	id := suite.listInnovation(suite.alice, "Solar Paint", 500)

	w := suite.request("POST", fmt.Sprintf("/v1/innovations/%d/accept", id), nil, suite.alice)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	errObj := suite.decode(w)["error"].(map[string]interface{})
	assert.Equal(suite.T(), "LISTING_CLOSED", errObj["code"])
}

func (suite *MarketHandlerTestSuite) TestWithdrawListing() {
	id := suite.listInnovation(suite.alice, "Solar Paint", 500)

	w := suite.request("POST", fmt.Sprintf("/v1/innovations/%d/withdraw", id), nil, suite.alice)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// Bids against a withdrawn listing are rejected.
	w = suite.request("POST", fmt.Sprintf("/v1/innovations/%d/bids", id),
		map[string]interface{}{"amount": 900}, suite.bob)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *MarketHandlerTestSuite) TestFormerOwnerCannotWithdrawAfterSale() {
	id := suite.listInnovation(suite.alice, "Solar Paint", 500)
	suite.request("POST", fmt.Sprintf("/v1/innovations/%d/bids", id),
		map[string]interface{}{"amount": 750}, suite.bob)
	suite.request("POST", fmt.Sprintf("/v1/innovations/%d/accept", id), nil, suite.alice)

	w := suite.request("POST", fmt.Sprintf("/v1/innovations/%d/withdraw", id), nil, suite.alice)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func TestMarketHandlerSuite(t *testing.T) {
	suite.Run(t, new(MarketHandlerTestSuite))
}
