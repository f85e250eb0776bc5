package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomm8/middleware"
	"roomm8/models"
	"roomm8/services/booking"
	"roomm8/services/session"
	"roomm8/utils"
)

type beginInput struct {
	Route string `json:"route"`
}

type confirmInput struct {
	PaymentMethod string `json:"paymentMethod"`
}

// BeginCheckoutHandler is the auth gate in front of the checkout page.
// Anonymous sessions get their cart persisted and a redirect to login.
func (hb *HandlerBundle) BeginCheckoutHandler(c *gin.Context) {
	ws := middleware.WorkspaceFrom(c)
	var input beginInput
	// The body is optional; only a present but malformed one is rejected.
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid checkout request", err)
		return
	}

	ws.Lock()
	defer ws.Unlock()

	if ws.Cart.Len() == 0 {
		badRequest(c, "Your cart is empty", nil)
		return
	}
	decision, err := ws.Gate.RequireAuth(c.Request.Context(), ws.Cart.Items(), input.Route)
	if err != nil {
		getLogger(c).Error("Failed to defer checkout", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to save cart", err.Error())
		return
	}
	if decision == session.DecisionRedirectToLogin {
		c.JSON(http.StatusUnauthorized, utils.ErrorResponse{
			Message:  "Please login to continue",
			Redirect: session.LoginRoute,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"decision": decision.String(),
		"cart":     viewCart(ws),
	})
}

// PendingCheckoutHandler hands back the cart persisted before login, once.
func (hb *HandlerBundle) PendingCheckoutHandler(c *gin.Context) {
	ws := middleware.WorkspaceFrom(c)
	ws.Lock()
	defer ws.Unlock()

	drafts, err := ws.Gate.RestorePendingCart(c.Request.Context())
	if errors.Is(err, session.ErrNothingToCheckout) {
		c.JSON(http.StatusNotFound, utils.ErrorResponse{
			Message:  "No bookings to checkout",
			Redirect: session.DefaultRedirect,
		})
		return
	}
	if err != nil {
		getLogger(c).Error("Failed to restore pending cart", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to restore cart", err.Error())
		return
	}
	ws.Cart.Replace(drafts)
	c.JSON(http.StatusOK, viewCart(ws))
}

// ConfirmCheckoutHandler submits the cart. The workspace stays locked for
// the whole run so the cart cannot change underneath it.
func (hb *HandlerBundle) ConfirmCheckoutHandler(c *gin.Context) {
	logger := getLogger(c)
	ws := middleware.WorkspaceFrom(c)

	var input confirmInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid checkout request", err)
		return
	}

	ws.Lock()
	defer ws.Unlock()

	auth := ws.Gate.Current()
	reconciler := booking.NewReconciler(hb.backendFor(auth), logger)
	reconciler.Now = hb.now
	reconciler.OnTransition = func(s booking.State) {
		logger.Debug("Checkout transition", zap.String("phase", string(s.Phase)), zap.Int("index", s.Index))
	}

	receipt, err := reconciler.Checkout(c.Request.Context(), auth.Email, input.PaymentMethod, ws.Cart.Items())
	if err != nil {
		respondError(c, err, "Checkout failed")
		return
	}
	ws.Cart.Clear()

	resp := gin.H{"receipt": receipt}
	if hb.Records != nil {
		id, err := hb.Records.Create(c.Request.Context(), models.NewCheckoutRecord(auth.Email, *receipt))
		if err != nil {
			logger.Error("Failed to record checkout", zap.Error(err))
		} else {
			resp["recordId"] = id
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (hb *HandlerBundle) ListReceiptsHandler(c *gin.Context) {
	if hb.Records == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Receipts unavailable", "")
		return
	}
	ws := middleware.WorkspaceFrom(c)
	records, err := hb.Records.ListByUser(c.Request.Context(), ws.Gate.Current().Email, 50)
	if err != nil {
		getLogger(c).Error("Failed to list receipts", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list receipts", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipts": records})
}
