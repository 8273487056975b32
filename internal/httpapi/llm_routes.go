package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mythicalprogrammer/exRPG/internal/id"
	"github.com/mythicalprogrammer/exRPG/internal/llm"
)

const (
	headerPlanSource = "X-Plan-Source"
	headerWorkoutID  = "X-Workout-Id"
)

func registerLLM(app *fiber.App, gen Generator, logger *slog.Logger, now func() time.Time) {
	app.Post("/ai/", func(c *fiber.Ctx) error {
		in, err := llm.DecodeRequest(c.Body())
		if err != nil {
			return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"detail": err.Error()})
		}

		res, err := gen.Generate(c.UserContext(), in)
		if err != nil {
			logger.Error("workout generation failed",
				"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
				"error", err,
			)
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
		}

		seed := []byte(in.Name + "\x00" + in.Text())
		c.Set(headerPlanSource, res.Source.String())
		c.Set(headerWorkoutID, id.WorkoutID(now().Format("2006-01-02"), in.Name, seed))
		logger.Info("workout served",
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"source", res.Source.String(),
			"fallback", res.Fallback(),
			"exercises", len(res.Plan.Exercises),
		)
		return c.JSON(res.Plan)
	})
}
