package rest

import (
	"time"

	"github.com/gofiber/fiber/v2"

	domainActivity "github.com/wasched/wasched/domains/activity"
	domainConnection "github.com/wasched/wasched/domains/connection"
	"github.com/wasched/wasched/pkg/utils"
)

// Dashboard exposes connection status, the QR challenge and the
// activity journal.
type Dashboard struct {
	API      domainConnection.IConnectionAPI
	Conn     domainConnection.IConnectionUsecase
	Activity domainActivity.IActivityUsecase
}

func InitRestDashboard(app fiber.Router, api domainConnection.IConnectionAPI, conn domainConnection.IConnectionUsecase, activity domainActivity.IActivityUsecase) Dashboard {
	rest := Dashboard{API: api, Conn: conn, Activity: activity}
	app.Get("/whatsapp/status", rest.Status)
	app.Get("/whatsapp/qr", rest.QR)
	app.Post("/whatsapp/reconnect", rest.Reconnect)
	app.Get("/activity", rest.ActivityLog)
	return rest
}

// Status answers from the local state holder; the backend is not hit
// on every request, the sync loop keeps the state fresh.
func (controller *Dashboard) Status(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch connection status",
		Results: controller.Conn.State(),
	})
}

func (controller *Dashboard) QR(c *fiber.Ctx) error {
	qr, err := controller.API.QR(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch QR challenge",
		Results: qr,
	})
}

func (controller *Dashboard) Reconnect(c *fiber.Ctx) error {
	err := controller.API.Reconnect(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Reconnect requested",
	})
}

func (controller *Dashboard) ActivityLog(c *fiber.Ctx) error {
	if c.QueryBool("grouped") {
		return c.JSON(utils.ResponseData{
			Status:  200,
			Code:    "SUCCESS",
			Message: "Success fetch activity log",
			Results: controller.Activity.GroupByDay(time.Now()),
		})
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Success fetch activity log",
		Results: controller.Activity.Entries(),
	})
}
