package main

import (
	"fmt"
	"net/http"
	"slices"

	"rms/src/db"
	"rms/src/models"
	"rms/src/types"
	"rms/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/users", func(ctx *gin.Context) {
			var data []models.User
			db := db.GetDb()
			q := db.Model(&models.User{}).Order("id asc")
			if role := ctx.Query("role"); role != "" {
				q = q.Where("role = ?", role)
			}
			if err := q.Find(&data).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		PUT("/users/:id/role", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body struct {
				Role string `json:"role" binding:"required"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			allowed := []string{types.ROLE_CUSTOMER, types.ROLE_STAFF, types.ROLE_ADMIN}
			if !slices.Contains(allowed, body.Role) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown role %q", body.Role)})
				return
			}
			var user models.User
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.First(&user, params.ID).Error; err != nil {
					return fmt.Errorf("user: %w", utils.ErrNotFound)
				}
				user.Role = body.Role
				return tx.Save(&user).Error
			})
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		}).
		GET("/settings", func(ctx *gin.Context) {
			var data []models.Setting
			db := db.GetDb()
			q := db.Model(&models.Setting{})
			if group := ctx.Query("group"); group != "" {
				q = q.Where("\"group\" = ?", group)
			}
			if err := q.Find(&data).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		POST("/settings", func(ctx *gin.Context) {
			var body types.CreateSettingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			setting := models.Setting{
				SettingKey:   body.Key,
				SettingValue: types.JSONBAny{Inner: body.Value},
				Group:        body.Group,
			}
			db := db.GetDb()
			err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "setting_key"}, {Name: "group"}},
				DoUpdates: clause.AssignmentColumns([]string{"setting_value"}),
			}).Create(&setting).Error
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": setting})
		})
	return g
}
