package constants

// Static route constants
const (
	APIRoute   = "/api"
	APIV1Route = "/v1"

	AuthRegisterRoute = "/auth/register"
	AuthLoginRoute    = "/auth/login"
	AuthLogoutRoute   = "/auth/logout"
	AuthMeRoute       = "/auth/me"

	AlertsRoute       = "/alerts"
	AlertsMoreRoute   = "/alerts/more"
	AlertsSearchRoute = "/alerts/search"
	AlertByIDRoute    = "/alerts/:id"
	AlertStatusRoute  = "/alerts/:id/status"

	CrimesRoute       = "/crimes"
	CrimesMoreRoute   = "/crimes/more"
	CrimesSearchRoute = "/crimes/search"
	CrimeByIDRoute    = "/crimes/:id"
	CrimeStatusRoute  = "/crimes/:id/status"

	StatsRoute = "/stats"

	UserProfilesRoute = "/users/profiles"

	AdminUsersRoute       = "/admin/users"
	AdminUsersSearchRoute = "/admin/users/search"
	AdminUserByIDRoute    = "/admin/users/:id"
	AdminUserApproveRoute = "/admin/users/:id/approve"
	AdminUserRoleRoute    = "/admin/users/:id/role"

	PresenceHeartbeatRoute = "/presence/heartbeat"
	PresenceOnlineRoute    = "/presence/online"

	RealtimeTicketRoute  = "/realtime/ticket"
	RealtimeToastsRoute  = "/realtime/toasts"
	RealtimeToastByIDRoute = "/realtime/toasts/:id"
)
