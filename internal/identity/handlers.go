package identity

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/baatlink/baatlink/internal/domain"
)

type Controller struct {
	store *Store
}

func NewController(store *Store) *Controller {
	return &Controller{store: store}
}

func (c *Controller) Register(ctx *gin.Context) {
	type request struct {
		Name     string `json:"name" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "all fields are required"})
		return
	}

	switch err := c.store.Register(req.Name, req.Username, req.Password); {
	case errors.Is(err, ErrUserExists):
		ctx.JSON(http.StatusConflict, gin.H{"message": "user already exists"})
	case errors.Is(err, domain.ErrPasswordTooWeak):
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "password must be at least 6 characters"})
	case err != nil:
		ctx.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		ctx.JSON(http.StatusCreated, gin.H{"message": "user registered successfully"})
	}
}

func (c *Controller) Login(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "please provide username and password"})
		return
	}

	token, err := c.store.Login(req.Username, req.Password)
	switch {
	case errors.Is(err, ErrUserNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	case errors.Is(err, ErrInvalidPassword):
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "invalid password"})
		return
	case err != nil:
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	// Stored in the cookie session too, so a browser client can open
	// the signaling socket without replaying the token by hand.
	session := sessions.Default(ctx)
	session.Set("token", token)
	_ = session.Save()

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
