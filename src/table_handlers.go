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

func tableHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/tables", func(ctx *gin.Context) {
			var data []models.DiningTable
			db := db.GetDb()
			q := db.Model(&models.DiningTable{}).Order("number asc")
			if available := ctx.Query("available"); available != "" {
				q = q.Where("available = ?", available == "true")
			}
			if err := q.Find(&data).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		POST("/tables", func(ctx *gin.Context) {
			var body types.CreateTableRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			table := models.DiningTable{
				Number:   body.Number,
				Capacity: body.Capacity,
				Location: body.Location,
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var existing int64
				if err := tx.Model(&models.DiningTable{}).Where("number = ?", body.Number).Count(&existing).Error; err != nil {
					return err
				}
				if existing > 0 {
					return errors.New("a table with this number already exists")
				}
				return tx.Create(&table).Error
			})
			if err != nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": table})
		}).
		PUT("/tables/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateTableRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var table models.DiningTable
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.First(&table, params.ID).Error; err != nil {
					return err
				}
				if body.Number != nil {
					table.Number = *body.Number
				}
				if body.Capacity != nil {
					table.Capacity = *body.Capacity
				}
				if body.Available != nil {
					table.Available = *body.Available
				}
				if body.Location != nil {
					table.Location = *body.Location
				}
				return tx.Save(&table).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": table})
		}).
		DELETE("/tables/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var holds int64
				err := tx.Model(&models.Reservation{}).
					Where("table_id = ?", params.ID).
					Where("status IN ?", types.ActiveReservationStatuses).
					Count(&holds).Error
				if err != nil {
					return err
				}
				if holds > 0 {
					return fmt.Errorf("table still has active reservations: %w", utils.ErrConflict)
				}
				result := tx.Delete(&models.DiningTable{}, params.ID)
				if result.Error != nil {
					return result.Error
				}
				if result.RowsAffected == 0 {
					return utils.ErrNotFound
				}
				return nil
			})
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
