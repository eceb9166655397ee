package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"

	"rms/src/db"
	"rms/src/models"
	"rms/src/types"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"
)

func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "payment_intent.succeeded":
			var intent stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			settlePayment(intent.ID, types.PAYMENT_COMPLETED)
		case "payment_intent.payment_failed":
			var intent stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			settlePayment(intent.ID, types.PAYMENT_FAILED)
		}
		ctx.Status(http.StatusOK)
	})
	return apiv1
}

func settlePayment(intentId string, status types.PaymentStatus) {
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.Where("payment_intent_id = ?", intentId).First(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Payment{}).
			Where("id = ?", payment.ID).
			Update("status", string(status)).Error
	})
	if err != nil {
		log.Printf("Error settling payment for intent %s: %s\n", intentId, err.Error())
	}
}
