package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"rms/src/config"
	"rms/src/db"
	"rms/src/lib"
	"rms/src/models"
	"rms/src/types"
	"rms/src/utils"
	"rms/src/validation"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// depositPolicyFromSettings resolves the deposit rates for this payment.
// Rows in the "payments" settings group take precedence over the
// environment defaults.
func depositPolicyFromSettings(tx *gorm.DB) config.DepositPolicy {
	policy := config.GetDepositPolicy()
	var settings []models.Setting
	if err := tx.Where(&models.Setting{Group: "payments"}).Find(&settings).Error; err != nil {
		log.Printf("Error loading payment settings: %s\n", err.Error())
		return policy
	}
	for _, s := range settings {
		value, isNumber := s.SettingValue.Inner.(float64)
		if !isNumber {
			continue
		}
		switch s.SettingKey {
		case "deposit_per_head":
			policy.PerHead = value
		case "deposit_fraction":
			policy.Fraction = value
		}
	}
	return policy
}

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/payments", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var data []models.Payment
			db := db.GetDb()
			err := db.
				Model(&models.Payment{}).
				Where("user_id = ?", userId).
				Order("created_at desc").
				Find(&data).Error
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		POST("/payments", func(ctx *gin.Context) {
			var body types.CreatePaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			var payment models.Payment
			var clientSecret *string
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var reservation models.Reservation
				if err := tx.First(&reservation, body.ReservationID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fmt.Errorf("reservation: %w", utils.ErrNotFound)
					}
					return err
				}
				if err := utils.AuthorizeOwnerOrRole(userId, role, reservation.UserID, types.AuthorizerRoles...); err != nil {
					return err
				}
				status := types.ReservationStatus(reservation.Status)
				if status == types.RESERVATION_CANCELED {
					return fmt.Errorf("cannot pay for a cancelled reservation: %w", utils.ErrConflict)
				}
				cv := validation.NewComposite(validation.PaymentRules(depositPolicyFromSettings(tx))...)
				result := cv.Validate(context.Background(), validation.Candidate{
					"amount":     body.Amount,
					"method":     body.Method,
					"party_size": reservation.PartySize,
				})
				if !result.Valid {
					return &utils.ValidationError{Messages: result.Errors}
				}
				var pending int64
				err := tx.Model(&models.Payment{}).
					Where("reservation_id = ?", reservation.ID).
					Where("status = ?", types.PAYMENT_PENDING).
					Count(&pending).Error
				if err != nil {
					return err
				}
				if pending > 0 {
					return fmt.Errorf("reservation already has a pending payment: %w", utils.ErrConflict)
				}
				payment = models.Payment{
					ReservationID: reservation.ID,
					UserID:        reservation.UserID,
					Amount:        body.Amount,
					Method:        body.Method,
					Status:        string(types.PAYMENT_PENDING),
				}
				if body.Method == "online" {
					intent, err := lib.CreateDepositIntent(int64(body.Amount*100), "usd", fmt.Sprint(reservation.ID))
					if err != nil {
						log.Printf("Error creating payment intent for reservation %d: %s\n", reservation.ID, err.Error())
						return err
					}
					payment.PaymentIntentId = &intent.ID
					clientSecret = &intent.ClientSecret
				} else {
					// on-site methods settle at the register
					payment.Status = string(types.PAYMENT_COMPLETED)
				}
				return tx.Create(&payment).Error
			})
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			response := gin.H{"data": payment}
			if clientSecret != nil {
				response["client_secret"] = *clientSecret
			}
			ctx.JSON(http.StatusCreated, response)
		}).
		GET("/payments/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var payment models.Payment
			db := db.GetDb()
			if err := db.Preload("Reservation").First(&payment, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			if err := utils.AuthorizeOwnerOrRole(userId, role, payment.UserID, types.AuthorizerRoles...); err != nil {
				utils.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": payment})
		})
	return g
}
