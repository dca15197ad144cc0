package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/config"
	"github.com/kendall-kelly/tna-tracker-api/controllers"
	"github.com/kendall-kelly/tna-tracker-api/routes"
	"github.com/kendall-kelly/tna-tracker-api/services"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var (
	servePort      string
	serveUploadDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "port to listen on (overrides PORT)")
	serveCmd.Flags().StringVar(&serveUploadDir, "upload-dir", "uploads", "directory for item images when no S3 bucket is configured")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db)

	if err := config.AutoMigrate(db); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := services.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	tokens, err := services.NewTokenService(services.TokenConfig{
		AccessSecret:  cfg.AccessTokenSecret,
		RefreshSecret: cfg.RefreshTokenSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		Issuer:        cfg.TokenIssuer,
		Audience:      cfg.TokenAudience,
	}, services.NewRedisTokenStore(redisClient))
	if err != nil {
		return err
	}

	var images services.ImageService
	if cfg.S3Enabled() {
		s3Service, err := services.NewS3Service(ctx, services.S3Config{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.AWSS3Bucket,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return err
		}
		images = services.NewS3ImageService(s3Service)
		log.WithField("bucket", cfg.AWSS3Bucket).Info("Item images stored in S3")
	} else {
		images = services.NewLocalImageService(serveUploadDir)
		log.WithField("dir", serveUploadDir).Warn("AWS_S3_BUCKET not set, item images stored on local disk")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctl := controllers.New(controllers.Options{
		DB:                   db,
		Log:                  log,
		Tokens:               tokens,
		Images:               images,
		RejectCompletedStyle: cfg.RejectCompletedStyle,
		SecureCookies:        cfg.IsProduction(),
	})
	router := routes.Setup(ctl, routes.Options{
		DB:             db,
		Log:            log,
		Tokens:         tokens,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	port := cfg.Port
	if servePort != "" {
		port = servePort
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server is running on http://localhost:%s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
