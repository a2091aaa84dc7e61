package domain

import (
	"strings"
	"time"
)

type UserRole string

const (
	UserRoleFarmer UserRole = "Farmer"
	UserRoleOwner  UserRole = "Owner"
)

// ParseUserRole accepts the role name in any letter case.
func ParseUserRole(s string) (UserRole, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "farmer":
		return UserRoleFarmer, true
	case "owner":
		return UserRoleOwner, true
	}
	return "", false
}

type User struct {
	ID               int32     `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	PasswordHash     string    `json:"-" db:"password_hash"`
	Name             string    `json:"name" db:"name"`
	Role             UserRole  `json:"role" db:"role"`
	PhoneNumber      string    `json:"phone_number" db:"phone_number"`
	IDDocumentNumber string    `json:"id_document_number" db:"id_document_number"`
	VillageName      string    `json:"village_name" db:"village_name"`
	District         string    `json:"district" db:"district"`
	State            string    `json:"state" db:"state"`
	PostalCode       string    `json:"postal_code" db:"postal_code"`
	ProfileImageURL  string    `json:"profile_image_url" db:"profile_image_url"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileUpdate holds the self-service editable fields of a user.
type ProfileUpdate struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	VillageName string `json:"village_name"`
	District    string `json:"district"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
}

// Apply copies the patch onto u. Email, credentials, role and identity
// document are left untouched.
func (p ProfileUpdate) Apply(u *User) {
	u.Name = p.Name
	u.PhoneNumber = p.PhoneNumber
	u.VillageName = p.VillageName
	u.District = p.District
	u.State = p.State
	u.PostalCode = p.PostalCode
}
