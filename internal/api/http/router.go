package http

import (
	"net/http"

	"farmtap-backend/internal/config"

	"github.com/gorilla/mux"
)

// Handlers groups the endpoint handlers mounted by NewRouter. Files is nil
// unless local storage is in use.
type Handlers struct {
	Auth      *AuthHandler
	Bookings  *BookingHandler
	Equipment *EquipmentHandler
	Users     *UserHandler
	Files     *FileHandler
	Health    *HealthHandler
}

// NewRouter mounts every route at the root and again under /api.
func NewRouter(h Handlers, auth Authenticator) *mux.Router {
	r := mux.NewRouter()
	r.Use(AuthMiddleware(auth))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})

	registerRoutes(r.PathPrefix("/api").Subrouter(), h)
	registerRoutes(r, h)
	return r
}

// NewHandler wraps the router with the cross-cutting middleware.
func NewHandler(router http.Handler, allowedOrigins []string) http.Handler {
	return Recoverer(RequestLogger(CORS(allowedOrigins, router)))
}

func registerRoutes(r *mux.Router, h Handlers) {
	r.HandleFunc("/healthz", h.Health.Check).Methods(http.MethodGet).Name(config.RouteHealth)

	r.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost).Name(config.RouteRegister)
	r.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost).Name(config.RouteLogin)

	r.HandleFunc("/bookings", h.Bookings.Create).Methods(http.MethodPost).Name(config.RouteCreateBooking)
	r.HandleFunc("/bookings", h.Bookings.ListAll).Methods(http.MethodGet).Name(config.RouteListAllBookings)
	r.HandleFunc("/bookings/user", h.Bookings.ListMine).Methods(http.MethodGet).Name(config.RouteListMyBookings)
	r.HandleFunc("/bookings/farmer/{id}", h.Bookings.ListByFarmer).Methods(http.MethodGet).Name(config.RouteListFarmerBookings)
	r.HandleFunc("/bookings/owner/{id}", h.Bookings.ListByOwner).Methods(http.MethodGet).Name(config.RouteListOwnerBookings)
	r.HandleFunc("/bookings/{id}/status", h.Bookings.UpdateStatus).Methods(http.MethodPut).Name(config.RouteUpdateBookingStatus)
	r.HandleFunc("/bookings/{id}", h.Bookings.Delete).Methods(http.MethodDelete).Name(config.RouteDeleteBooking)

	r.HandleFunc("/equipment", h.Equipment.Add).Methods(http.MethodPost).Name(config.RouteAddEquipment)
	r.HandleFunc("/equipment", h.Equipment.ListAvailable).Methods(http.MethodGet).Name(config.RouteListEquipment)
	r.HandleFunc("/equipment/mine", h.Equipment.ListMine).Methods(http.MethodGet).Name(config.RouteListMyEquipment)
	r.HandleFunc("/equipment/available", h.Equipment.SetAvailability).Methods(http.MethodPut).Name(config.RouteSetAvailability)
	r.HandleFunc("/equipment/owner/{id}", h.Equipment.ListByOwner).Methods(http.MethodGet).Name(config.RouteListOwnerEquipment)
	r.HandleFunc("/equipment/{id}/image", h.Equipment.UploadImage).Methods(http.MethodPut).Name(config.RouteUploadEquipmentImage)
	r.HandleFunc("/equipment/{id}", h.Equipment.Get).Methods(http.MethodGet).Name(config.RouteGetEquipment)
	r.HandleFunc("/equipment/{id}", h.Equipment.Remove).Methods(http.MethodDelete).Name(config.RouteRemoveEquipment)

	r.HandleFunc("/users", h.Users.List).Methods(http.MethodGet).Name(config.RouteListUsers)
	r.HandleFunc("/users", h.Users.Create).Methods(http.MethodPost).Name(config.RouteCreateUser)
	r.HandleFunc("/users/profile", h.Users.GetProfile).Methods(http.MethodGet).Name(config.RouteGetProfile)
	r.HandleFunc("/users/profile", h.Users.UpdateProfile).Methods(http.MethodPut).Name(config.RouteUpdateProfile)
	r.HandleFunc("/users/{id}", h.Users.Get).Methods(http.MethodGet).Name(config.RouteGetUser)
	r.HandleFunc("/users/{id}", h.Users.Delete).Methods(http.MethodDelete).Name(config.RouteDeleteUser)

	if h.Files != nil {
		r.HandleFunc("/files/{key:.+}", h.Files.Download).Methods(http.MethodGet).Name(config.RouteFiles)
	}
}
