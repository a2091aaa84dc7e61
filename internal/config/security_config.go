package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityAdmin                       // Access token with the ADMIN role required
)

// Route names shared by the router and RouteSecurityConfig.
const (
	RouteRegister = "auth.register"
	RouteLogin    = "auth.login"
	RouteHealth   = "health"
	RouteFiles    = "files.download"

	RouteCreateBooking        = "bookings.create"
	RouteListMyBookings       = "bookings.list_mine"
	RouteUpdateBookingStatus  = "bookings.update_status"
	RouteDeleteBooking        = "bookings.delete"
	RouteListFarmerBookings   = "bookings.list_by_farmer"
	RouteListOwnerBookings    = "bookings.list_by_owner"
	RouteListAllBookings      = "bookings.list_all"
	RouteAddEquipment         = "equipment.add"
	RouteListEquipment        = "equipment.list_available"
	RouteListMyEquipment      = "equipment.list_mine"
	RouteGetEquipment         = "equipment.get"
	RouteListOwnerEquipment   = "equipment.list_by_owner"
	RouteRemoveEquipment      = "equipment.remove"
	RouteSetAvailability      = "equipment.set_availability"
	RouteUploadEquipmentImage = "equipment.upload_image"
	RouteListUsers            = "users.list"
	RouteCreateUser           = "users.create"
	RouteGetProfile           = "users.get_profile"
	RouteUpdateProfile        = "users.update_profile"
	RouteGetUser              = "users.get"
	RouteDeleteUser           = "users.delete"
)

// RouteSecurityConfig maps route names to their required security level
var RouteSecurityConfig = map[string]SecurityLevel{
	// Public
	RouteRegister:           SecurityPublic,
	RouteLogin:              SecurityPublic,
	RouteHealth:             SecurityPublic,
	RouteFiles:              SecurityPublic,
	RouteListEquipment:      SecurityPublic,
	RouteGetEquipment:       SecurityPublic,
	RouteListOwnerEquipment: SecurityPublic,

	// Access Protected
	RouteCreateBooking:        SecurityAccess,
	RouteListMyBookings:       SecurityAccess,
	RouteUpdateBookingStatus:  SecurityAccess,
	RouteDeleteBooking:        SecurityAccess,
	RouteAddEquipment:         SecurityAccess,
	RouteListMyEquipment:      SecurityAccess,
	RouteRemoveEquipment:      SecurityAccess,
	RouteSetAvailability:      SecurityAccess,
	RouteUploadEquipmentImage: SecurityAccess,
	RouteGetProfile:           SecurityAccess,
	RouteUpdateProfile:        SecurityAccess,

	// Admin Protected
	RouteListFarmerBookings: SecurityAdmin,
	RouteListOwnerBookings:  SecurityAdmin,
	RouteListAllBookings:    SecurityAdmin,
	RouteListUsers:          SecurityAdmin,
	RouteCreateUser:         SecurityAdmin,
	RouteGetUser:            SecurityAdmin,
	RouteDeleteUser:         SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := RouteSecurityConfig[route]; exists {
		return level
	}
	// Default to access for unknown routes
	return SecurityAccess
}
