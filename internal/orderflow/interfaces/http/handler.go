package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	marketapp "github.com/wyfcoding/optionsdesk/internal/market/application"
	"github.com/wyfcoding/optionsdesk/internal/orderflow/application"
	"github.com/wyfcoding/optionsdesk/internal/orderflow/domain"
	pricing "github.com/wyfcoding/optionsdesk/internal/pricing/domain"
)

// PlaceOrderRequest 下单请求体
type PlaceOrderRequest struct {
	Owner                  string `json:"owner" binding:"required"`
	Expiration             int64  `json:"expiration" binding:"required"`
	Underlying             string `json:"underlying" binding:"required"`
	Quote                  string `json:"quote" binding:"required"`
	AmountPerContract      string `json:"amount_per_contract" binding:"required"`
	QuoteAmountPerContract string `json:"quote_amount_per_contract" binding:"required"`
	OrderSize              string `json:"order_size" binding:"required"`
	OrderType              string `json:"order_type" binding:"required"` // market 或 limit
	LimitPrice             string `json:"limit_price"`
	TakerFeeRate           string `json:"taker_fee_rate"`
	MakerFeeRate           string `json:"maker_fee_rate"`
	FeeDiscountAddress     string `json:"fee_discount_address"`
}

// OrderHandler 下单编排接口
type OrderHandler struct {
	markets *marketapp.MarketService
	orders  *application.OrderService
}

func NewOrderHandler(markets *marketapp.MarketService, orders *application.OrderService) *OrderHandler {
	return &OrderHandler{markets: markets, orders: orders}
}

func (h *OrderHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1/orders")
	{
		v1.POST("/sell", h.PlaceSellOrder)
		v1.POST("/buy", h.PlaceBuyOrder)
	}
}

// PlaceSellOrder 卖出（covered write）
func (h *OrderHandler) PlaceSellOrder(c *gin.Context) {
	params, ok := h.bindParams(c)
	if !ok {
		return
	}
	order, err := h.orders.PlaceSellOrder(c.Request.Context(), params)
	if err != nil {
		h.writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"client_order_id":     order.Request.ClientOrderID,
		"price":               order.Request.Price,
		"contracts_to_mint":   order.ContractsToMint,
		"collateral_required": order.CollateralRequired,
	})
}

// PlaceBuyOrder 买入
func (h *OrderHandler) PlaceBuyOrder(c *gin.Context) {
	params, ok := h.bindParams(c)
	if !ok {
		return
	}
	order, err := h.orders.PlaceBuyOrder(c.Request.Context(), params)
	if err != nil {
		h.writeOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"client_order_id": order.Request.ClientOrderID,
		"price":           order.Request.Price,
	})
}

func (h *OrderHandler) bindParams(c *gin.Context) (application.OrderParams, bool) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return application.OrderParams{}, false
	}

	amount, err := decimal.NewFromString(req.AmountPerContract)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_per_contract must be a decimal number"})
		return application.OrderParams{}, false
	}
	quoteAmount, err := decimal.NewFromString(req.QuoteAmountPerContract)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quote_amount_per_contract must be a decimal number"})
		return application.OrderParams{}, false
	}
	orderSize, err := decimal.NewFromString(req.OrderSize)
	if err != nil || !orderSize.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_size must be a positive decimal number"})
		return application.OrderParams{}, false
	}
	if req.OrderType != "market" && req.OrderType != "limit" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_type must be market or limit"})
		return application.OrderParams{}, false
	}

	m, found, err := h.markets.Find(c.Request.Context(), req.Expiration, req.Underlying, req.Quote, amount, quoteAmount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return application.OrderParams{}, false
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "option market not found"})
		return application.OrderParams{}, false
	}

	return application.OrderParams{
		Owner:              req.Owner,
		Market:             m,
		OrderSize:          orderSize,
		IsMarketOrder:      req.OrderType == "market",
		LimitPrice:         parseLimitPrice(req.LimitPrice),
		FeeRates:           parseFeeRates(req),
		FeeDiscountAddress: req.FeeDiscountAddress,
	}, true
}

func (h *OrderHandler) writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrOrderInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoTokenAccount),
		errors.Is(err, pricing.ErrInsufficientLiquidity):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// parseLimitPrice 非法或负值归一化为零
func parseLimitPrice(raw string) decimal.Decimal {
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return decimal.Zero
	}
	return price
}

func parseFeeRates(req PlaceOrderRequest) domain.FeeRates {
	var rates domain.FeeRates
	if taker, err := decimal.NewFromString(req.TakerFeeRate); err == nil {
		rates.Taker = taker
	}
	if maker, err := decimal.NewFromString(req.MakerFeeRate); err == nil {
		rates.Maker = maker
	}
	return rates
}
