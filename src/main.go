package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"strconv"
	"time"

	"rms/src/boot"
	"rms/src/config"
	"rms/src/controllers"
	"rms/src/db"
	"rms/src/middlewares"
	"rms/src/models"
	"rms/src/types"
	"rms/src/utils"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

// reservationdate accepts a calendar date that is today or later.
var reservationDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	parsed, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	today, _ := time.Parse(config.DATE_PARSE_FORMAT, time.Now().Format(config.DATE_PARSE_FORMAT))
	return !parsed.Before(today)
}

// reservationtime accepts a 24h wall-clock value.
var reservationTimeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	clock, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse(config.TIME_PARSE_FORMAT, clock)
	return err == nil
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		atoi, err := strconv.ParseBool(mm)
		if err == nil && atoi {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, err.Error())
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func publicRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.
		GET("/share/:filename", func(ctx *gin.Context) {
			apiEnv := os.Getenv("API_ENV")
			if apiEnv != "local" {
				ctx.Status(http.StatusNotFound)
				return
			}
			var params struct {
				Filename string `uri:"filename" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			assets := os.Getenv("TEMP_DIR")
			filePath := path.Join(assets, fmt.Sprintf("%s.png", params.Filename))
			ctx.File(filePath)
		}).
		GET("/availability", func(ctx *gin.Context) {
			var params types.AvailabilityQueryParams
			if err := ctx.ShouldBindQuery(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			report, err := utils.QueryAvailability(db.GetDb(), &params)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": report})
		})
	menuPublicHandlers(apiv1)
	return apiv1
}

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	auth := apiv1.Group("/auth")
	auth.
		POST("/register", func(ctx *gin.Context) {
			user, status, err := controllers.AuthRegister(ctx)
			if err != nil {
				log.Printf("Error on AuthRegister: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"data": user})
		}).
		POST("/login", func(ctx *gin.Context) {
			token, status, err := controllers.AuthLogin(ctx)
			if err != nil {
				log.Printf("Error on AuthLogin: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, gin.H{"token": token})
		})
	return apiv1
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	boot.InitDb()
	boot.InitScheduler()
	go boot.InitBroker()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString(appHost, origin)
			return match
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("reservationdate", reservationDateValidatorFunc)
		v.RegisterValidation("reservationtime", reservationTimeValidatorFunc)
	}

	router = maintenanceModeMiddleware(router)

	publicRoutes(router)

	guestAuthRoutes(router)

	stripeWebhookRoute(router)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		authorized.GET("/users/me", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var user models.User
			db := db.GetDb()
			if err := db.First(&user, userId).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		})

		reservationHandlers(authorized)
		preOrderHandlers(authorized)
		paymentHandlers(authorized)
		feedbackHandlers(authorized)
	}

	staff := router.Group(apiPrefix)
	staff.Use(middlewares.AuthMiddleware, middlewares.RequireRole(types.AuthorizerRoles...))
	{
		reservationStaffHandlers(staff)
		tableHandlers(staff)
		menuStaffHandlers(staff)
		preOrderStaffHandlers(staff)
		feedbackStaffHandlers(staff)
	}

	admin := router.Group(apiPrefix)
	admin.Use(middlewares.AuthMiddleware, middlewares.RequireRole(types.ROLE_ADMIN))
	{
		adminHandlers(admin)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	router.Run(fmt.Sprintf(":%s", port))
}
