package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/LwandleM/SafeSuburb/app/controllers"
	"github.com/LwandleM/SafeSuburb/internal/pkg/constants"
	"github.com/LwandleM/SafeSuburb/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "SafeSuburb API",
		})
	})

	v1 := api.Group(constants.APIV1Route)

	// Auth
	v1.Post(constants.AuthRegisterRoute, controllers.HandleRegister)
	v1.Post(constants.AuthLoginRoute, controllers.HandleLogin)
	v1.Post(constants.AuthLogoutRoute, middleware.RequireAuth, controllers.HandleLogout)
	v1.Get(constants.AuthMeRoute, middleware.RequireAuth, controllers.HandleMe)

	// Vehicle theft alerts
	v1.Get(constants.AlertsRoute, middleware.RequireAuth, controllers.HandleListAlerts)
	v1.Get(constants.AlertsMoreRoute, middleware.RequireAuth, controllers.HandleLoadMoreAlerts)
	v1.Get(constants.AlertsSearchRoute, middleware.RequireAuth, controllers.HandleSearchAlerts)
	v1.Post(constants.AlertsRoute, middleware.RequireAuth, controllers.HandleCreateAlert)
	v1.Get(constants.AlertByIDRoute, middleware.RequireAuth, controllers.HandleGetAlert)
	v1.Patch(constants.AlertByIDRoute, middleware.RequireAuth, controllers.HandlePatchAlert)
	v1.Put(constants.AlertStatusRoute, middleware.RequireAuth, controllers.HandleUpdateAlertStatus)
	v1.Delete(constants.AlertByIDRoute, middleware.RequireAuth, controllers.HandleDeleteAlert)

	// Crime reports
	v1.Get(constants.CrimesRoute, middleware.RequireAuth, controllers.HandleListCrimes)
	v1.Get(constants.CrimesMoreRoute, middleware.RequireAuth, controllers.HandleLoadMoreCrimes)
	v1.Get(constants.CrimesSearchRoute, middleware.RequireAuth, controllers.HandleSearchCrimes)
	v1.Post(constants.CrimesRoute, middleware.RequireAuth, controllers.HandleCreateCrime)
	v1.Get(constants.CrimeByIDRoute, middleware.RequireAuth, controllers.HandleGetCrime)
	v1.Patch(constants.CrimeByIDRoute, middleware.RequireAuth, controllers.HandlePatchCrime)
	v1.Put(constants.CrimeStatusRoute, middleware.RequireAuth, controllers.HandleUpdateCrimeStatus)
	v1.Delete(constants.CrimeByIDRoute, middleware.RequireAuth, controllers.HandleDeleteCrime)

	// Dashboard counters
	v1.Get(constants.StatsRoute, controllers.HandleGetStats)

	// Profiles and presence
	v1.Get(constants.UserProfilesRoute, middleware.RequireAuth, controllers.HandleBatchProfiles)
	v1.Post(constants.PresenceHeartbeatRoute, middleware.RequireAuth, controllers.HandlePresenceHeartbeat)
	v1.Get(constants.PresenceOnlineRoute, middleware.RequireAuth, controllers.HandlePresenceOnline)

	// Realtime changefeed
	v1.Post(constants.RealtimeTicketRoute, middleware.RequireAuth, controllers.HandleRealtimeTicket)
	v1.Get(constants.RealtimeToastsRoute, middleware.RequireAuth, controllers.HandleGetToasts)
	v1.Delete(constants.RealtimeToastByIDRoute, middleware.RequireAuth, controllers.HandleDismissToast)

	// Account administration
	v1.Get(constants.AdminUsersRoute, middleware.RequireAdmin, controllers.HandleAdminListUsers)
	v1.Get(constants.AdminUsersSearchRoute, middleware.RequireAdmin, controllers.HandleAdminSearchUsers)
	v1.Post(constants.AdminUserApproveRoute, middleware.RequireAdmin, controllers.HandleAdminApproveUser)
	v1.Put(constants.AdminUserRoleRoute, middleware.RequireAdmin, controllers.HandleAdminSetUserRole)
	v1.Delete(constants.AdminUserByIDRoute, middleware.RequireAdmin, controllers.HandleAdminDeleteUser)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
