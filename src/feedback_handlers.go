package main

import (
	"errors"
	"fmt"
	"net/http"

	"rms/src/db"
	"rms/src/models"
	"rms/src/types"
	"rms/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func feedbackHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.POST("/feedback", func(ctx *gin.Context) {
		var body types.CreateFeedbackRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		userId := ctx.GetUint("id")
		feedback := models.Feedback{
			UserID:        userId,
			ReservationID: body.ReservationID,
			Rating:        body.Rating,
			Comment:       body.Comment,
		}
		db := db.GetDb()
		err := db.Transaction(func(tx *gorm.DB) error {
			if body.ReservationID != nil {
				var reservation models.Reservation
				if err := tx.First(&reservation, *body.ReservationID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fmt.Errorf("reservation: %w", utils.ErrNotFound)
					}
					return err
				}
				if reservation.UserID != userId {
					return fmt.Errorf("feedback must reference your own reservation: %w", utils.ErrForbidden)
				}
			}
			return tx.Create(&feedback).Error
		})
		if err != nil {
			utils.RespondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusCreated, gin.H{"data": feedback})
	})
	return g
}

func feedbackStaffHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/feedback", func(ctx *gin.Context) {
		var data []models.Feedback
		db := db.GetDb()
		q := db.
			Model(&models.Feedback{}).
			Preload("User").
			Order("created_at desc")
		if rating := ctx.Query("rating"); rating != "" {
			q = q.Where("rating = ?", rating)
		}
		if err := q.Find(&data).Error; err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
	})
	return g
}
