package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/autoparts-api/auth"
	"github.com/junaidrashid-git/autoparts-api/checkout"
	"github.com/junaidrashid-git/autoparts-api/middleware"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/junaidrashid-git/autoparts-api/store"
	log "github.com/sirupsen/logrus"
)

type CartItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=999"`
}

type QuantityInput struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=999"`
}

// CartKey maps the caller's session to its cart: guests and signed-in users
// never share one.
func CartKey(c *gin.Context) (string, bool) {
	claims := middleware.Claims(c)
	if claims == nil || claims.UserID == "" {
		return "", false
	}
	if claims.Role == auth.RoleGuest {
		return models.GuestCartKey(claims.UserID), true
	}
	return models.UserCartKey(claims.UserID), true
}

// OpenCart loads the caller's cart, writing the error response itself when
// it cannot.
func OpenCart(c *gin.Context, storage checkout.CartStorage) (*checkout.Cart, bool) {
	key, ok := CartKey(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	cart, err := checkout.OpenCart(c.Request.Context(), storage, key)
	if err != nil {
		log.WithError(err).WithField("cart", key).Error("Failed to load cart")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return nil, false
	}
	return cart, true
}

func cartResponse(cart *checkout.Cart) gin.H {
	return gin.H{
		"items":    cart.Items(),
		"currency": cart.Currency(),
		"subtotal": cart.Subtotal(),
	}
}

// GET /cart
func GetCart(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, ok := OpenCart(c, st)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// POST /cart
func AddCartItem(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		product, err := st.GetProduct(c.Request.Context(), input.ProductID)
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		cart, ok := OpenCart(c, st)
		if !ok {
			return
		}
		if err := cart.Add(c.Request.Context(), models.NewLineItem(product, input.Quantity), input.Quantity); err != nil {
			writeCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// PUT /cart/items/:index
func UpdateCartItem(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item index"})
			return
		}
		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, ok := OpenCart(c, st)
		if !ok {
			return
		}
		if err := cart.SetQuantity(c.Request.Context(), index, input.Quantity); err != nil {
			writeCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// DELETE /cart/items/:index
func DeleteCartItem(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item index"})
			return
		}

		cart, ok := OpenCart(c, st)
		if !ok {
			return
		}
		if err := cart.Remove(c.Request.Context(), index); err != nil {
			writeCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

// DELETE /cart
func ClearCart(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, ok := OpenCart(c, st)
		if !ok {
			return
		}
		if err := cart.Clear(c.Request.Context()); err != nil {
			writeCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

// GET /admin/user-cart/:user_id
func GetAdminUserCart(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := checkout.OpenCart(c.Request.Context(), st, models.UserCartKey(c.Param("user_id")))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, cartResponse(cart))
	}
}

func writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkout.ErrInvalidQuantity), errors.Is(err, checkout.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrCurrencyMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.WithError(err).Error("Cart write failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
	}
}
