package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"rms/src/db"
	"rms/src/lib"
	"rms/src/lib/mailer"
	"rms/src/models"
	"rms/src/types"
	"rms/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func AuthRegister(ctx *gin.Context) (user *models.User, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	d := db.GetDb()
	var created models.User
	if err := d.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", body.Email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("an account with this email already exists: %w", utils.ErrConflict)
		}
		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			return err
		}
		created = models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: hash,
			Phone:        body.Phone,
			Role:         types.ROLE_CUSTOMER,
		}
		return tx.Create(&created).Error
	}); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, http.StatusConflict, err
		}
		return nil, http.StatusBadRequest, err
	}
	go func() {
		err := mailer.NewMailerMessage(&lib.SendMailInput{
			To:      []string{created.Email},
			Subject: "Welcome",
			Body:    fmt.Sprintf("Hi %s, your account is ready. You can now book a table.", created.Name),
		})
		if err != nil {
			log.Printf("Could not queue welcome email for %s: %s\n", created.Email, err.Error())
		}
	}()
	return &created, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	d := db.GetDb()
	var user models.User
	if err := d.Where(&models.User{Email: body.Email}).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusUnauthorized, errors.New("invalid credentials")
		}
		return nil, http.StatusInternalServerError, err
	}
	if !utils.VerifyPassword(user.PasswordHash, body.Password) {
		return nil, http.StatusUnauthorized, errors.New("invalid credentials")
	}
	signed, err := utils.GenerateJWT(user.Email, user.ID, user.Role)
	if err != nil {
		log.Printf("Error signing token for %s: %s\n", user.Email, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	go func() {
		d.Model(&models.User{}).Where("id = ?", user.ID).Update("last_active", time.Now())
	}()
	return &signed, http.StatusOK, nil
}
