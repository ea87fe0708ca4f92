package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	orderbook "github.com/wyfcoding/optionsdesk/internal/orderbook/domain"
	pricing "github.com/wyfcoding/optionsdesk/internal/pricing/domain"
	"github.com/wyfcoding/optionsdesk/pkg/metrics"
)

// PricingHandler 执行价与保本价查询接口，供链视图的摘要数值使用
type PricingHandler struct {
	books     orderbook.SnapshotRepository
	metrics   *metrics.Metrics
	precision int32
}

func NewPricingHandler(books orderbook.SnapshotRepository, m *metrics.Metrics, displayPrecision int) *PricingHandler {
	return &PricingHandler{books: books, metrics: m, precision: int32(displayPrecision)}
}

func (h *PricingHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1/pricing")
	{
		v1.GET("/slippage", h.GetSlippagePrice)
		v1.GET("/breakeven", h.GetBreakeven)
	}
}

// GetSlippagePrice 市价单在当前快照下完全成交触及的最差价
func (h *PricingHandler) GetSlippagePrice(c *gin.Context) {
	marketAddress := c.Query("market")
	if marketAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "market is required"})
		return
	}
	orderSize, err := decimal.NewFromString(c.Query("size"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a decimal number"})
		return
	}
	side := c.Query("side")
	if side != "buy" && side != "sell" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side must be buy or sell"})
		return
	}

	book, err := h.books.Get(c.Request.Context(), marketAddress)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if book == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "orderbook snapshot not found"})
		return
	}

	// 买单走卖盘，卖单走买盘
	levels := book.Asks
	if side == "sell" {
		levels = book.Bids
	}

	price, err := pricing.PriceWithSlippage(orderSize, levels)
	if err != nil {
		h.writePricingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"price": price.Round(h.precision)})
}

// GetBreakeven 市价或限价下单的保本价
func (h *PricingHandler) GetBreakeven(c *gin.Context) {
	strike, err := decimal.NewFromString(c.Query("strike"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "strike must be a decimal number"})
		return
	}
	perContractAmount, err := decimal.NewFromString(c.Query("per_contract_amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "per_contract_amount must be a decimal number"})
		return
	}
	isPut, _ := strconv.ParseBool(c.Query("is_put"))

	var breakeven decimal.Decimal
	switch c.Query("order_type") {
	case "market":
		orderSize, err := decimal.NewFromString(c.Query("size"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a decimal number"})
			return
		}
		marketAddress := c.Query("market")
		book, err := h.books.Get(c.Request.Context(), marketAddress)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if book == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "orderbook snapshot not found"})
			return
		}
		breakeven, err = pricing.BreakevenMarket(strike, perContractAmount, orderSize, book.Asks, isPut)
		if err != nil {
			h.writePricingError(c, err)
			return
		}
	case "limit":
		limitPrice := parseLimitPrice(c.Query("limit_price"))
		breakeven, err = pricing.BreakevenLimit(strike, perContractAmount, limitPrice, isPut)
		if err != nil {
			h.writePricingError(c, err)
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_type must be market or limit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"breakeven": breakeven.Round(h.precision)})
}

func (h *PricingHandler) writePricingError(c *gin.Context, err error) {
	if errors.Is(err, pricing.ErrInsufficientLiquidity) {
		h.metrics.PricingFailuresTotal.Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// parseLimitPrice 用户输入的限价解析：非法或负值归一化为零
func parseLimitPrice(raw string) decimal.Decimal {
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return decimal.Zero
	}
	return price
}
