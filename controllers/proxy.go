package controllers

import (
	"fmt"
	"net/http"
	"storefront/models"

	"github.com/gin-gonic/gin"
)

// proxyActions is the fixed allow-list of actions /api-proxy dispatches.
var proxyActions = map[string]bool{
	"get_all_products":         true,
	"get_products":             true,
	"get_products_by_category": true,
	"get_search_products":      true,
	"get_product_details":      true,
	"update_product_status":    true,
	"delete_selected_products": true,
	"add-product":              true,
	"add-promo":                true,
	"update-promo":             true,
	"update_promo_status":      true,
	"promos":                   true,
	"categories":               true,
	"site-info":                true,
}

type proxyRoute struct {
	method   string
	handlers gin.HandlersChain
}

// Proxy dispatches /api-proxy?action=<name> to the same handler chain the
// direct /api/<name> route uses, middleware included.
type Proxy struct {
	routes map[string]proxyRoute
}

func NewProxy() *Proxy {
	return &Proxy{routes: map[string]proxyRoute{}}
}

// Register binds an allow-listed action. It panics on anything else, like
// gin does for a bad route.
func (p *Proxy) Register(action, method string, handlers ...gin.HandlerFunc) {
	if !proxyActions[action] {
		panic(fmt.Sprintf("proxy: action %q is not allow-listed", action))
	}
	p.routes[action] = proxyRoute{method: method, handlers: handlers}
}

// @Summary API proxy
// @Description Dispatches an allow-listed action to its handler
// @Tags Proxy
// @Produce json
// @Param action query string true "Action name"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api-proxy [get]
// @Router /api-proxy [post]
func (p *Proxy) Handle(c *gin.Context) {
	action := c.Query("action")
	if !proxyActions[action] {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success:   false,
			ErrorKind: models.ErrorKindValidation,
			Message:   "Aksi tidak dikenal",
		})
		return
	}

	route, ok := p.routes[action]
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success:   false,
			ErrorKind: models.ErrorKindNotFound,
			Message:   "Aksi tidak tersedia",
		})
		return
	}

	if c.Request.Method != route.method {
		c.Header("Allow", route.method)
		c.JSON(http.StatusMethodNotAllowed, models.ErrorResponse{
			Success:   false,
			ErrorKind: models.ErrorKindValidation,
			Message:   "Metode tidak diizinkan",
		})
		return
	}

	for _, handler := range route.handlers {
		handler(c)
		if c.IsAborted() {
			return
		}
	}
}
