// Package api is the REST and WebSocket edge of the connector. It binds
// request bodies, delegates to the tokens service, and maps the error
// taxonomy onto HTTP status codes.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kaleido-io/tokens-connector-go/ethconnect"
	"github.com/kaleido-io/tokens-connector-go/events"
	"github.com/kaleido-io/tokens-connector-go/tokens"
	"github.com/kaleido-io/tokens-connector-go/types"
)

// Router wires the HTTP surface onto the tokens service and event proxy.
type Router struct {
	service *tokens.Service
	proxy   *events.Proxy
	eth     *ethconnect.Client
	log     *logrus.Entry
}

func NewRouter(service *tokens.Service, proxy *events.Proxy, eth *ethconnect.Client) *Router {
	return &Router{
		service: service,
		proxy:   proxy,
		eth:     eth,
		log:     logrus.WithField("component", "api"),
	}
}

// Engine builds the gin engine with every route registered.
func (r *Router) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	// operations are served both bare and under the versioned prefix
	for _, group := range []*gin.RouterGroup{engine.Group(""), engine.Group("/api/v1")} {
		group.POST("/createpool", r.createPool)
		group.POST("/activatepool", r.activatePool)
		group.POST("/mint", r.mint)
		group.POST("/transfer", r.transfer)
		group.POST("/burn", r.burn)
		group.POST("/approval", r.approval)
		group.GET("/balance", r.balance)
		group.GET("/receipt/:id", r.receipt)
	}

	engine.GET("/api/ws", gin.WrapH(r.proxy))
	engine.GET("/health/liveness", r.liveness)
	engine.GET("/health/readiness", r.readiness)
	return engine
}

// errorStatus maps the error taxonomy to an HTTP status code.
func errorStatus(err error) int {
	var ve *types.ValidationError
	var nf *types.NotFoundError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (r *Router) fail(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		r.log.Errorf("Request failed: %s", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// upstreamCtx forwards the inbound headers so configured passthrough
// headers reach the gateway.
func upstreamCtx(c *gin.Context) *gin.Context {
	c.Request = c.Request.WithContext(
		ethconnect.WithRequestHeaders(c.Request.Context(), c.Request.Header))
	return c
}

func (r *Router) createPool(c *gin.Context) {
	var req types.TokenPool
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	res, async, err := r.service.CreatePool(upstreamCtx(c).Request.Context(), &req)
	if err != nil {
		r.fail(c, err)
		return
	}
	if async {
		c.JSON(http.StatusAccepted, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (r *Router) activatePool(c *gin.Context) {
	var req types.TokenPoolActivate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	res, err := r.service.ActivatePool(upstreamCtx(c).Request.Context(), &req)
	if err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (r *Router) mint(c *gin.Context) {
	var req types.TokenMint
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	res, err := r.service.Mint(upstreamCtx(c).Request.Context(), &req)
	if err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, res)
}

func (r *Router) transfer(c *gin.Context) {
	var req types.TokenTransfer
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	res, err := r.service.Transfer(upstreamCtx(c).Request.Context(), &req)
	if err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, res)
}

func (r *Router) burn(c *gin.Context) {
	var req types.TokenBurn
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	res, err := r.service.Burn(upstreamCtx(c).Request.Context(), &req)
	if err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, res)
}

func (r *Router) approval(c *gin.Context) {
	var req types.TokenApproval
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	res, err := r.service.Approval(upstreamCtx(c).Request.Context(), &req)
	if err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, res)
}

func (r *Router) balance(c *gin.Context) {
	res, err := r.service.Balance(upstreamCtx(c).Request.Context(),
		c.Query("poolLocator"), c.Query("account"))
	if err != nil {
		r.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (r *Router) receipt(c *gin.Context) {
	body, err := r.service.Receipt(upstreamCtx(c).Request.Context(), c.Param("id"))
	if err != nil {
		r.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (r *Router) liveness(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// readiness reports ready only while the gateway is reachable.
func (r *Router) readiness(c *gin.Context) {
	if err := r.eth.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
