package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/models"
	"storefront/internal/service"
	"storefront/internal/session"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const purchaseThankYou = "Thank you for your purchase"

// Pinger is a dependency checked by the readiness probe
type Pinger interface {
	Ping(ctx context.Context) error
}

type readinessCheck struct {
	name   string
	pinger Pinger
}

// Handler contains HTTP handlers
type Handler struct {
	catalog    *service.CatalogService
	cart       *service.CartService
	purchases  *service.PurchaseService
	renderer   *Renderer
	cookieName string
	checks     []readinessCheck
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	cart *service.CartService,
	purchases *service.PurchaseService,
	renderer *Renderer,
	cookieName string,
) *Handler {
	if cookieName == "" {
		cookieName = session.CookieName
	}
	return &Handler{
		catalog:    catalog,
		cart:       cart,
		purchases:  purchases,
		renderer:   renderer,
		cookieName: cookieName,
		logger:     util.GetLogger(),
	}
}

// AddReadinessCheck registers a dependency pinged by GET /ready
func (h *Handler) AddReadinessCheck(name string, pinger Pinger) {
	h.checks = append(h.checks, readinessCheck{name: name, pinger: pinger})
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.HandleMethodNotAllowed = true
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	pages := router.Group("/")
	pages.Use(sessionMiddleware(h.cookieName))
	{
		pages.GET("/", h.homePage)
		pages.GET("/products", h.productsPage)
		pages.GET("/cart", h.cartPage)
		pages.POST("/cart", h.addToCart)
		pages.POST("/delete-from-cart", h.deleteFromCart)
		pages.POST("/purchase", h.purchase)
	}

	router.NoRoute(sessionMiddleware(h.cookieName), h.notFound)
	router.NoMethod(sessionMiddleware(h.cookieName), h.methodNotAllowed)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings the database and cache
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	for _, check := range h.checks {
		if err := check.pinger.Ping(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.String("dependency", check.name), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not ready",
				"dependency": check.name,
				"time":       time.Now().Unix(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) homePage(c *gin.Context) {
	h.renderer.HTML(c, http.StatusOK, "home.html", nil)
}

// productsPage lists products, sorted when sortBy or order is given
func (h *Handler) productsPage(c *gin.Context) {
	sortBy := c.Query("sortBy")
	order := c.Query("order")
	ctx := c.Request.Context()

	var products []models.Product
	var err error
	if sortBy == "" && order == "" {
		products, err = h.catalog.FindAllCached(ctx)
	} else {
		products, err = h.catalog.Sort(ctx, sortBy, order)
	}
	if err != nil {
		h.renderError(c, err, "Error loading product page. Please refresh.")
		return
	}

	h.renderer.HTML(c, http.StatusOK, "products.html", gin.H{
		"Products": products,
		"SortBy":   sortBy,
		"Order":    order,
	})
}

func (h *Handler) cartPage(c *gin.Context) {
	lines, err := h.cart.GetCartLines(c.Request.Context(), sessionID(c))
	if err != nil {
		h.renderError(c, err, "Error loading cart page. Please try again.")
		return
	}

	h.renderer.HTML(c, http.StatusOK, "cart.html", gin.H{
		"Lines": lines,
		"Total": service.SumLines(lines),
	})
}

// addToCart handles the add-to-cart form
func (h *Handler) addToCart(c *gin.Context) {
	productID, err := strconv.ParseInt(c.PostForm("product_id"), 10, 64)
	if err != nil {
		h.renderError(c, service.ErrInvalidProduct, "")
		return
	}

	quantity, err := strconv.Atoi(c.DefaultPostForm("quantity", "1"))
	if err != nil {
		h.renderError(c, service.ErrInvalidQuantity, "")
		return
	}

	if _, err := h.cart.AddToCart(c.Request.Context(), productID, sessionID(c), quantity); err != nil {
		h.renderError(c, err, "Error adding product to cart.")
		return
	}

	c.Redirect(http.StatusFound, "/cart")
}

// deleteFromCart handles the remove-from-cart form
func (h *Handler) deleteFromCart(c *gin.Context) {
	productID, err := strconv.ParseInt(c.PostForm("product_id"), 10, 64)
	if err != nil {
		h.renderError(c, service.ErrInvalidProduct, "")
		return
	}

	if err := h.cart.DeleteFromCart(c.Request.Context(), productID, sessionID(c)); err != nil {
		h.renderError(c, err, "Error removing product from cart.")
		return
	}

	c.Redirect(http.StatusFound, "/cart")
}

// purchase checks out the session's cart
func (h *Handler) purchase(c *gin.Context) {
	purchase, err := h.purchases.Checkout(c.Request.Context(), sessionID(c), c.PostForm("phoneNumber"))
	if err != nil {
		h.renderError(c, err, "An error occurred during the purchase process.")
		return
	}

	h.renderer.HTML(c, http.StatusOK, "purchase.html", gin.H{
		"Message":  purchaseThankYou,
		"Purchase": purchase,
	})
}

func (h *Handler) notFound(c *gin.Context) {
	h.renderer.HTML(c, http.StatusNotFound, "notFound.html", nil)
}

func (h *Handler) methodNotAllowed(c *gin.Context) {
	h.renderer.HTML(c, http.StatusMethodNotAllowed, "error.html", gin.H{"Error": "Page not found"})
}

func (h *Handler) renderError(c *gin.Context, err error, fallback string) {
	status, message := errorResponse(err, fallback)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
	}
	h.renderer.HTML(c, status, "error.html", gin.H{"Error": message})
}
