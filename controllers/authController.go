package controllers

import (
	"net/http"

	"github.com/Kariqs/silkstitch-api/models"
	"github.com/Kariqs/silkstitch-api/services"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (ac *AuthController) Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := bindJSON(ctx, &loginData); err != nil {
		respondWithError(ctx, err)
		return
	}

	token, err := ac.auth.Login(ctx.Request.Context(), loginData)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
