package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"rms/src/db"
	"rms/src/lib"
	"rms/src/models"
	"rms/src/types"
	"rms/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func reservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/reservations", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			var data []models.Reservation
			db := db.GetDb()
			q := db.
				Model(&models.Reservation{}).
				Preload("Table").
				Order("date asc").
				Order("time asc")
			all, _ := strconv.ParseBool(ctx.Query("all"))
			if !all || utils.AuthorizeOwnerOrRole(userId, role, 0, types.AuthorizerRoles...) != nil {
				q = q.Where("user_id = ?", userId)
			}
			if status := ctx.Query("status"); status != "" {
				q = q.Where("status = ?", status)
			}
			if date := ctx.Query("date"); date != "" {
				q = q.Where("date = ?", date)
			}
			if err := q.Find(&data).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		GET("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var reservation models.Reservation
			db := db.GetDb()
			err := db.
				Model(&models.Reservation{}).
				Where(&models.Reservation{ID: params.ID}).
				Preload("Table").
				Preload("PreOrder").
				Preload("PreOrder.Items").
				Preload("Payments").
				First(&reservation).Error
			if err != nil {
				err := errors.New("reservation not found")
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			if err := utils.AuthorizeOwnerOrRole(userId, role, reservation.UserID, types.AuthorizerRoles...); err != nil {
				utils.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": reservation})
		}).
		POST("/reservations", func(ctx *gin.Context) {
			var body types.CreateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			reservation, err := utils.CreateReservation(userId, &body)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": utils.MapReservation(reservation)})
		}).
		PUT("/reservations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			reservation, err := utils.UpdateReservation(params.ID, userId, role, &body)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": utils.MapReservation(reservation)})
		}).
		POST("/reservations/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			reservation, err := utils.CancelReservation(params.ID, userId, role)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": utils.MapReservation(reservation)})
		}).
		DELETE("/reservations/:id", func(ctx *gin.Context) {
			role := ctx.GetString("role")
			if role != types.ROLE_ADMIN {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
				return
			}
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.DeleteReservation(params.ID); err != nil {
				utils.RespondError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/reservations/:id/qr", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var reservation models.Reservation
			db := db.GetDb()
			if err := db.First(&reservation, params.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			if err := utils.AuthorizeOwnerOrRole(userId, role, reservation.UserID, types.AuthorizerRoles...); err != nil {
				utils.RespondError(ctx, err)
				return
			}
			if reservation.CheckinCode == "" {
				ctx.JSON(http.StatusConflict, gin.H{"error": "reservation has no check-in code yet"})
				return
			}
			filepath, err := lib.GenerateQRCode(fmt.Sprintf("reservation-%d", reservation.ID), reservation.CheckinCode)
			if err != nil {
				log.Printf("Could not generate check-in code for reservation %d: %s\n", reservation.ID, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.File(filepath)
		})
	return g
}

func reservationStaffHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/reservations/:id/approve", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.ApproveReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			reservation, err := utils.ApproveReservation(params.ID, body.TableID)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": utils.MapReservation(reservation)})
		}).
		POST("/reservations/:id/reject", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			reservation, err := utils.RejectReservation(params.ID)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": utils.MapReservation(reservation)})
		})
	return g
}
