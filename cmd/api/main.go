package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"checkin/internal/activity"
	"checkin/internal/auth"
	"checkin/internal/config"
	"checkin/internal/device"
	"checkin/internal/errs"
	"checkin/internal/httpmiddleware"
	"checkin/internal/importer"
	"checkin/internal/metrics"
	"checkin/internal/notify"
	"checkin/internal/participant"
	"checkin/internal/presence"
	"checkin/internal/queue"
	"checkin/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

// apiDeps carries the wired collaborators the router serves from.
type apiDeps struct {
	db           *store.DB
	redis        *store.Redis
	queue        queue.Queue
	broker       notify.Broker
	participants *participant.Repository
	presenceRepo *presence.Repository
	activityRepo *activity.Repository
	devices      *device.Repository
	toggles      *presence.Service
	activities   *activity.Service
	imports      *importer.Service
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(db.Client); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "checkin:scans")
	}

	var broker notify.Broker
	if cfg.NotifyBackend == "redis" {
		broker = notify.NewRedisBroker(redisClient.Client, "")
	} else {
		broker = notify.NewMemory()
	}
	defer broker.Close()

	participants := participant.NewRepository(db.Client)
	presenceRepo := presence.NewRepository(db.Client)
	activityRepo := activity.NewRepository(db.Client)

	deps := apiDeps{
		db:           db,
		redis:        redisClient,
		queue:        q,
		broker:       broker,
		participants: participants,
		presenceRepo: presenceRepo,
		activityRepo: activityRepo,
		devices:      device.NewRepository(db.Client),
		toggles:      presence.NewService(participants, presenceRepo),
		activities:   activity.NewService(participants, activityRepo),
		imports:      importer.NewService(participants),
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      newRouter(cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// newRouter registers the full HTTP surface on a fresh engine.
func newRouter(cfg config.App, deps apiDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := deps.redis.Healthy(c.Request.Context())
		dbHealthy := deps.db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		text := "ok"
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
			text = "degraded"
		}
		c.JSON(status, gin.H{"status": text, "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/v1/devices/register", func(c *gin.Context) {
		var req struct {
			DeviceID string `json:"device_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := deps.devices.Register(c.Request.Context(), req.DeviceID); err != nil {
			respondError(c, err)
			return
		}
		token, err := auth.Issue(req.DeviceID, "device", cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"access_token": token.Value,
			"expires_at":   token.ExpiresAt.Unix(),
		})
	})

	// Read-side endpoints used by the dashboard.

	r.GET("/v1/participants", func(c *gin.Context) {
		ps, err := deps.participants.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if ps == nil {
			ps = []participant.Participant{}
		}
		c.JSON(http.StatusOK, gin.H{"participants": ps, "total_count": len(ps)})
	})

	r.GET("/v1/participant-info", func(c *gin.Context) {
		id := c.Query("participant_id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing participant_id query parameter"})
			return
		}
		res, err := deps.activities.Info(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		body := infoBody(res)
		if latest, err := deps.presenceRepo.Latest(c.Request.Context(), id); err != nil {
			log.Printf("presence status fetch failed for %s: %v", id, err)
		} else if latest == nil {
			body["status"] = "never_scanned"
		} else {
			body["status"] = presence.StatusText(latest.IsInside)
			body["last_seen"] = latest.ToggledAt
		}
		c.JSON(http.StatusOK, body)
	})

	r.GET("/v1/participants-outside", func(c *gin.Context) {
		ps, err := deps.participants.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		events, err := deps.presenceRepo.AllEvents(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		roster := presence.ProjectRoster(ps, events)
		outside := roster.Outside
		if outside == nil {
			outside = []presence.OutsideEntry{}
		}
		c.JSON(http.StatusOK, gin.H{
			"participants":    outside,
			"total_count":     roster.ScannedOutside,
			"scanned_outside": roster.ScannedOutside,
			"never_scanned":   roster.NeverScanned,
		})
	})

	r.GET("/v1/logs", func(c *gin.Context) {
		logs, err := deps.presenceRepo.AllLogs(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if logs == nil {
			logs = []presence.LogEntry{}
		}
		c.JSON(http.StatusOK, gin.H{"logs": logs, "total_count": len(logs)})
	})

	r.GET("/v1/activities", func(c *gin.Context) {
		recs, err := deps.activityRepo.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if recs == nil {
			recs = []activity.Record{}
		}
		c.JSON(http.StatusOK, gin.H{"activities": recs, "total_count": len(recs)})
	})

	r.GET("/v1/live", func(c *gin.Context) {
		changes, cancel := deps.broker.Subscribe()
		defer cancel()
		heartbeat := time.NewTicker(25 * time.Second)
		defer heartbeat.Stop()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Stream(func(w io.Writer) bool {
			select {
			case ch, ok := <-changes:
				if !ok {
					return false
				}
				c.SSEvent("change", ch)
				return true
			case <-heartbeat.C:
				c.SSEvent("heartbeat", time.Now().Unix())
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	})

	// Write endpoints require a registered scanner device token.
	authGroup := r.Group("/v1", auth.DeviceAuth(cfg.JWTSigningKey, cfg.JWTIssuer))

	authGroup.POST("/scans", func(c *gin.Context) {
		var req struct {
			ParticipantID string `json:"participant_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "participant_id is required and must be a string"})
			return
		}
		res, err := deps.toggles.Toggle(c.Request.Context(), req.ParticipantID)
		if err != nil {
			respondError(c, err)
			return
		}
		metrics.ScansTotal.Inc()
		publishChange(c, deps.broker, notify.TablePresenceLog, res.ParticipantID, res)
		publishMessage(c, deps.queue, queue.Message{Type: queue.TypeScan, ParticipantID: res.ParticipantID})
		c.JSON(http.StatusOK, res)
	})

	authGroup.POST("/activities", func(c *gin.Context) {
		var req struct {
			ParticipantID string `json:"participant_id" binding:"required"`
			ActivityName  string `json:"activity_name" binding:"required"`
			Description   string `json:"description" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := deps.activities.Add(c.Request.Context(), req.ParticipantID, req.ActivityName, req.Description)
		if err != nil {
			if errors.Is(err, errs.ErrConflict) {
				metrics.ActivityConflictsTotal.Inc()
			}
			respondError(c, err)
			return
		}
		metrics.ActivitiesTotal.Inc()
		publishChange(c, deps.broker, notify.TableActivity, req.ParticipantID, gin.H{
			"participant_id": req.ParticipantID,
			"activity_name":  req.ActivityName,
		})
		publishMessage(c, deps.queue, queue.Message{Type: queue.TypeActivity, ParticipantID: req.ParticipantID})
		c.JSON(http.StatusOK, infoBody(res))
	})

	authGroup.POST("/imports/participants", func(c *gin.Context) {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
			return
		}
		defer file.Close()
		res, err := deps.imports.Import(c.Request.Context(), file)
		if err != nil {
			respondError(c, err)
			return
		}
		metrics.ImportedParticipantsTotal.Add(float64(res.RowsInserted))
		log.Printf("imported %d participants from %s", res.RowsInserted, header.Filename)
		c.JSON(http.StatusOK, gin.H{
			"message":         "CSV processed successfully",
			"rows_inserted":   res.RowsInserted,
			"participant_ids": res.ParticipantIDs,
		})
	})

	return r
}

// infoBody renders a participant + recent-activity result, marking the
// response when the enrichment read failed so callers can tell an empty list
// from an unavailable one.
func infoBody(res activity.Result) gin.H {
	body := gin.H{
		"participant":     res.Participant,
		"recent_activity": res.Recent,
	}
	if res.EnrichmentFailed {
		body["recent_activity"] = []activity.Summary{}
		body["recent_activity_unavailable"] = true
	}
	return body
}

// publishChange fans a change out to live views, best effort.
func publishChange(c *gin.Context, broker notify.Broker, table, participantID string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("notify encode failed: %v", err)
		return
	}
	change := notify.Change{
		Table:         table,
		ParticipantID: participantID,
		Payload:       raw,
		At:            time.Now().UTC(),
	}
	if err := broker.Publish(c.Request.Context(), change); err != nil {
		log.Printf("notify publish failed: %v", err)
	}
}

// publishMessage hands work to the stats worker, best effort. A full or
// unreachable queue is logged, never surfaced to the scanner.
func publishMessage(c *gin.Context, q queue.Queue, msg queue.Message) {
	if err := q.TryPublish(c.Request.Context(), msg); err != nil {
		log.Printf("queue publish failed: %v", err)
	}
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, errs.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
