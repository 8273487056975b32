package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/mythicalprogrammer/exRPG/internal/config"
	"github.com/mythicalprogrammer/exRPG/internal/workout"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generator turns a workout request into a plan. *llm.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, req workout.WorkoutRequest) (workout.Result, error)
	Available() bool
}

type healthResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	AIAvailable bool   `json:"ai_available"`
}

func NewServer(cfg *config.Config, logger *slog.Logger, gen Generator) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		// A response can only be written once generation finishes.
		WriteTimeout: cfg.LlmTimeout + 30*time.Second,
		BodyLimit:    64 * 1024,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"name": "exrpg", "status": "ok"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		available := gen.Available()
		msg := "Workout API is running with an AI model"
		if !available {
			msg = "Workout API is running in mock mode (no AI model loaded)"
		}
		return c.Status(http.StatusOK).JSON(healthResponse{Status: "healthy", Message: msg, AIAvailable: available})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	registerLLM(app, gen, logger, time.Now)
	return app
}
