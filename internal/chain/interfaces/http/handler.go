package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/optionsdesk/internal/chain/application"
	chain "github.com/wyfcoding/optionsdesk/internal/chain/domain"
)

// ChainHandler 期权链查询接口
type ChainHandler struct {
	chains *application.ChainService

	// 未显式指定资产对时的默认值
	defaultUnderlying string
	defaultQuote      string
}

func NewChainHandler(chains *application.ChainService, defaultUnderlying, defaultQuote string) *ChainHandler {
	return &ChainHandler{
		chains:            chains,
		defaultUnderlying: defaultUnderlying,
		defaultQuote:      defaultQuote,
	}
}

func (h *ChainHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1/chain")
	{
		v1.GET("", h.GetChain)
	}
}

// GetChain 按到期日与合约规模返回行权价链。入参缺失时返回空链。
func (h *ChainHandler) GetChain(c *gin.Context) {
	expiration, err := strconv.ParseInt(c.Query("expiration"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expiration must be a unix timestamp in seconds"})
		return
	}
	size, err := decimal.NewFromString(c.Query("size"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a decimal number"})
		return
	}

	rows := h.chains.Build(c.Request.Context(), application.BuildParams{
		Expiration: expiration,
		Size:       size,
		Underlying: c.DefaultQuery("underlying", h.defaultUnderlying),
		Quote:      c.DefaultQuery("quote", h.defaultQuote),
	})
	if rows == nil {
		rows = []chain.Row{}
	}
	c.JSON(http.StatusOK, gin.H{"expiration": expiration, "rows": rows})
}
