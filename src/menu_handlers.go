package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"

	"rms/src/db"
	"rms/src/lib"
	awslib "rms/src/lib/aws"
	"rms/src/models"
	"rms/src/types"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const menuCacheKey = "menu:catalog"

func cachedMenu() []models.MenuItem {
	var items []models.MenuItem
	rd := lib.GetRedisClient()
	val := rd.JSONGet(context.Background(), menuCacheKey, "$").Val()
	if val != "" && val != "[]" {
		var pages [][]models.MenuItem
		json.Unmarshal([]byte(val), &pages)
		if len(pages) > 0 {
			return pages[0]
		}
	}
	db := db.GetDb()
	if err := db.
		Model(&models.MenuItem{}).
		Where("available = ?", true).
		Order("category asc").
		Order("name asc").
		Find(&items).Error; err != nil {
		log.Printf("Error retrieving menu: %s\n", err.Error())
		return []models.MenuItem{}
	}
	rd.JSONSet(context.Background(), menuCacheKey, "$", items)
	return items
}

func invalidateMenuCache() {
	rd := lib.GetRedisClient()
	rd.Del(context.Background(), menuCacheKey)
}

func menuPublicHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/menu", func(ctx *gin.Context) {
			items := cachedMenu()
			ctx.JSON(http.StatusOK, gin.H{"data": items, "count": len(items)})
		}).
		GET("/menu/:slug", func(ctx *gin.Context) {
			var params struct {
				Slug string `uri:"slug" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var item models.MenuItem
			db := db.GetDb()
			err := db.
				Where("slug = ?", params.Slug).
				Where("available = ?", true).
				First(&item).Error
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": item})
		})
	return g
}

func menuStaffHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/menu", func(ctx *gin.Context) {
			var body types.CreateMenuItemRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			available := true
			if body.Available != nil {
				available = *body.Available
			}
			item := models.MenuItem{
				Name:        body.Name,
				Slug:        slug.Make(body.Name),
				Description: body.Description,
				Price:       body.Price,
				Category:    body.Category,
				Available:   available,
			}
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				var existing int64
				if err := tx.Model(&models.MenuItem{}).Where("slug = ?", item.Slug).Count(&existing).Error; err != nil {
					return err
				}
				if existing > 0 {
					return errors.New("a menu item with this name already exists")
				}
				return tx.Create(&item).Error
			})
			if err != nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			invalidateMenuCache()
			ctx.JSON(http.StatusCreated, gin.H{"data": item})
		}).
		PUT("/menu/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body struct {
				Name        *string  `json:"name,omitempty"`
				Description *string  `json:"description,omitempty"`
				Price       *float64 `json:"price,omitempty"`
				Category    *string  `json:"category,omitempty"`
				Available   *bool    `json:"available,omitempty"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var item models.MenuItem
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.First(&item, params.ID).Error; err != nil {
					return err
				}
				if body.Name != nil {
					item.Name = *body.Name
					item.Slug = slug.Make(*body.Name)
				}
				if body.Description != nil {
					item.Description = *body.Description
				}
				if body.Price != nil {
					item.Price = *body.Price
				}
				if body.Category != nil {
					item.Category = *body.Category
				}
				if body.Available != nil {
					item.Available = *body.Available
				}
				return tx.Save(&item).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			invalidateMenuCache()
			ctx.JSON(http.StatusOK, gin.H{"data": item})
		}).
		POST("/menu/:id/image", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var item models.MenuItem
			db := db.GetDb()
			if err := db.First(&item, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
				return
			}
			file, err := ctx.FormFile("image")
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tempdir := os.Getenv("TEMP_DIR")
			filepath := path.Join(tempdir, fmt.Sprintf("menu-%s.jpeg", item.Slug))
			if err := ctx.SaveUploadedFile(file, filepath); err != nil {
				log.Printf("Could not save uploaded file: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			url, err := awslib.S3UploadAsset(fmt.Sprintf("menu/%s.jpeg", item.Slug), filepath)
			if err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			if err := db.Model(&models.MenuItem{}).Where("id = ?", item.ID).Update("image_url", url).Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			invalidateMenuCache()
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"image_url": url}})
		}).
		DELETE("/menu/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			result := db.Delete(&models.MenuItem{}, params.ID)
			if result.Error != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": result.Error.Error()})
				return
			}
			if result.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "menu item not found"})
				return
			}
			invalidateMenuCache()
			ctx.Status(http.StatusNoContent)
		})
	return g
}
