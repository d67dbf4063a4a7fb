// @title		Vet Hospital API
// @version	1.0
// @BasePath	/
package main

import (
	"context"
	"net/http"

	"vet-hospital-api/docs"
	"vet-hospital-api/internal/config"
	"vet-hospital-api/internal/dataset"
	"vet-hospital-api/internal/handler"
	"vet-hospital-api/internal/logging"
	"vet-hospital-api/internal/registry"
	"vet-hospital-api/internal/repository"
	"vet-hospital-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logging.Setup(config.LogLevel, config.LogFormat)

	ctx := context.Background()
	memory := &dataset.MemorySink{}
	sinks := []dataset.Sink{memory}
	if config.OutputPath != "" {
		sinks = append(sinks, dataset.JSONFileSink{Path: config.OutputPath})
	}

	// Database is optional; without it /hospitals/nearby answers 503
	var nearby service.NearbyRepository
	if config.DBSource != "" {
		conn, err := pgxpool.New(ctx, config.DBSource)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to db")
		}
		defer conn.Close()

		repo := repository.NewRepository(conn)
		sinks = append(sinks, service.StoreSink{Store: repo})
		nearby = repo
	}

	// Initialize layers
	ingestService := service.NewIngestService(config.Pipeline(), sinks...)
	if _, _, err := ingestService.Ingest(ctx, config.InputPath); err != nil {
		log.Fatal().Err(err).Str("path", config.InputPath).Msg("cannot ingest registry")
	}

	hospitalService := service.NewHospitalService(memory, nearby, config.ResultLimit)
	recommendService := service.NewRecommendService(service.FileSource{Path: config.InputPath}, service.RecommendOptions{
		Encoding: config.InputEncoding,
		Schema:   registry.DefaultSchema(),
		Limit:    config.ResultLimit,
		MaxRows:  config.ScanRowLimit,
	})

	hospitalHandler := handler.NewHospitalHandler(hospitalService)
	recommendHandler := handler.NewRecommendHandler(recommendService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/hospitals", hospitalHandler.List)
	r.GET("/hospitals/search", hospitalHandler.Search)
	r.GET("/hospitals/recommend", recommendHandler.Recommend)
	r.GET("/hospitals/nearby", hospitalHandler.Nearby)

	docs.SwaggerInfo.Host = config.ServerAddress
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
