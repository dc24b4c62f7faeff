package handler

import (
	"bytes"
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"seo-monitor/internal/service"
	"seo-monitor/pkg/render"
	"seo-monitor/pkg/stats"
)

// Dashboard is what the controller needs from the page builder.
type Dashboard interface {
	ResolvePeriod(value string) (stats.Period, error)
	Page(ctx context.Context, period stats.Period) render.Page
	Mode() service.Mode
}

type Controller struct {
	dashboard Dashboard
	html      *render.HTML
}

func NewController(dashboard Dashboard) *Controller {
	return &Controller{
		dashboard: dashboard,
		html:      render.NewHTML(),
	}
}

// Register mounts the dashboard routes on app.
func (ctl *Controller) Register(app *fiber.App) {
	app.Get("/", ctl.Index)
	app.Get("/api/stats", ctl.Stats)
	app.Get("/healthz", ctl.Health)
}

// Index renders the HTML dashboard for ?period=.
func (ctl *Controller) Index(c *fiber.Ctx) error {
	page, err := ctl.page(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := ctl.html.Render(&buf, page); err != nil {
		return err
	}

	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// Stats returns the same page as JSON.
func (ctl *Controller) Stats(c *fiber.Ctx) error {
	page, err := ctl.page(c)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (ctl *Controller) Health(c *fiber.Ctx) error {
	mode := "live"
	if ctl.dashboard.Mode().Mock {
		mode = "mock"
	}
	return c.JSON(fiber.Map{"status": "ok", "mode": mode})
}

func (ctl *Controller) page(c *fiber.Ctx) (render.Page, error) {
	period, err := ctl.dashboard.ResolvePeriod(c.Query("period"))
	if errors.Is(err, service.ErrUnknownPeriod) {
		return render.Page{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		return render.Page{}, err
	}
	return ctl.dashboard.Page(c.UserContext(), period), nil
}
