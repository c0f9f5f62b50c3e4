package models

// Role is the organizational role a user holds. The string values are the
// display names persisted in the state document.
type Role string

const (
	RoleChapterPresident    Role = "Chapter President"
	RoleFieldRepresentative Role = "Field Representative"
	RoleNationalDirector    Role = "National Director"
	RoleDistrictCoordinator Role = "District Coordinator"
	RoleDistrictAdmin       Role = "District Admin"
	RoleAdmin               Role = "Admin"
)

// AdminUnitID is the unit sentinel carried by Admin users.
const AdminUnitID = "admin"

// Roles lists every known role in hierarchy order.
var Roles = []Role{
	RoleChapterPresident,
	RoleFieldRepresentative,
	RoleNationalDirector,
	RoleDistrictCoordinator,
	RoleDistrictAdmin,
	RoleAdmin,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Supervisory reports whether the role owns event reports that are attached
// to its unit during aggregation.
func (r Role) Supervisory() bool {
	switch r {
	case RoleFieldRepresentative, RoleNationalDirector, RoleDistrictCoordinator:
		return true
	}
	return false
}

// UnitKind returns the kind of unit the role is bound to.
func (r Role) UnitKind() UnitKind {
	switch r {
	case RoleChapterPresident:
		return UnitChapter
	case RoleFieldRepresentative:
		return UnitArea
	case RoleNationalDirector:
		return UnitZone
	case RoleDistrictCoordinator, RoleDistrictAdmin:
		return UnitDistrict
	}
	return ""
}

// UnitKind names one of the four organizational tiers.
type UnitKind string

const (
	UnitDistrict UnitKind = "district"
	UnitZone     UnitKind = "zone"
	UnitArea     UnitKind = "area"
	UnitChapter  UnitKind = "chapter"
)

// District is the root organizational unit.
type District struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
}

// Zone belongs to exactly one District.
type Zone struct {
	ID         string `json:"id"`
	Name       string `json:"name" validate:"required"`
	DistrictID string `json:"districtId" validate:"required"`
}

// Area belongs to exactly one Zone.
type Area struct {
	ID     string `json:"id"`
	Name   string `json:"name" validate:"required"`
	ZoneID string `json:"zoneId" validate:"required"`
}

// Chapter is the leaf unit and the source of monthly reports.
type Chapter struct {
	ID     string `json:"id"`
	Name   string `json:"name" validate:"required"`
	AreaID string `json:"areaId" validate:"required"`
}

// User is bound to exactly one unit at the tier implied by its role.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	Role     Role   `json:"role" validate:"required,role"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	UnitID   string `json:"unitId" validate:"required"`
}

// Public returns a copy of the user without its password.
func (u User) Public() User {
	u.Password = ""
	return u
}
