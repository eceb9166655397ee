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

func preOrderHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/preorders", func(ctx *gin.Context) {
			var body types.CreatePreOrderRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			var preOrder models.PreOrder
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
				if status != types.RESERVATION_PENDING && status != types.RESERVATION_CONFIRMED {
					return fmt.Errorf("cannot pre-order for a %s reservation: %w", reservation.Status, utils.ErrConflict)
				}
				var existing int64
				if err := tx.Model(&models.PreOrder{}).Where("reservation_id = ?", reservation.ID).Count(&existing).Error; err != nil {
					return err
				}
				if existing > 0 {
					return fmt.Errorf("reservation already has a pre-order: %w", utils.ErrConflict)
				}
				preOrder = models.PreOrder{
					ReservationID: reservation.ID,
					Status:        string(types.PREORDER_PLACED),
				}
				for _, input := range body.Items {
					var item models.MenuItem
					if err := tx.First(&item, input.MenuItemID).Error; err != nil {
						if errors.Is(err, gorm.ErrRecordNotFound) {
							return fmt.Errorf("menu item %d: %w", input.MenuItemID, utils.ErrNotFound)
						}
						return err
					}
					if !item.Available {
						return fmt.Errorf("menu item %q is not available: %w", item.Name, utils.ErrBadRequest)
					}
					preOrder.Items = append(preOrder.Items, models.PreOrderItem{
						MenuItemID: item.ID,
						Qty:        input.Qty,
						UnitPrice:  item.Price,
					})
					preOrder.Total += item.Price * float64(input.Qty)
				}
				return tx.Create(&preOrder).Error
			})
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": preOrder})
		}).
		GET("/preorders/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var preOrder models.PreOrder
			db := db.GetDb()
			err := db.
				Model(&models.PreOrder{}).
				Where(&models.PreOrder{ID: params.ID}).
				Preload("Items").
				Preload("Items.MenuItem").
				Preload("Reservation").
				First(&preOrder).Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "pre-order not found"})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			if err := utils.AuthorizeOwnerOrRole(userId, role, preOrder.Reservation.UserID, types.AuthorizerRoles...); err != nil {
				utils.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": preOrder})
		}).
		POST("/preorders/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			var preOrder models.PreOrder
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Preload("Reservation").First(&preOrder, params.ID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fmt.Errorf("pre-order: %w", utils.ErrNotFound)
					}
					return err
				}
				if err := utils.AuthorizeOwnerOrRole(userId, role, preOrder.Reservation.UserID, types.AuthorizerRoles...); err != nil {
					return err
				}
				status := types.PreOrderStatus(preOrder.Status)
				if status == types.PREORDER_CANCELED || status == types.PREORDER_FULFILLED {
					return fmt.Errorf("pre-order is already %s: %w", preOrder.Status, utils.ErrConflict)
				}
				preOrder.Status = string(types.PREORDER_CANCELED)
				return tx.Save(&preOrder).Error
			})
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": preOrder})
		})
	return g
}

func preOrderStaffHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.POST("/preorders/:id/fulfill", func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var preOrder models.PreOrder
		db := db.GetDb()
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&preOrder, params.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("pre-order: %w", utils.ErrNotFound)
				}
				return err
			}
			if preOrder.Status != string(types.PREORDER_PLACED) {
				return fmt.Errorf("pre-order is already %s: %w", preOrder.Status, utils.ErrConflict)
			}
			preOrder.Status = string(types.PREORDER_FULFILLED)
			return tx.Save(&preOrder).Error
		})
		if err != nil {
			utils.RespondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": preOrder})
	})
	return g
}
