package utils

import (
	"encoding/json"

	"golang.org/x/exp/slices"
	"gorm.io/datatypes"
)

// Role names used across the app.
const (
	RoleRenter   = "renter"
	RoleCarOwner = "car_owner"
	RoleAdmin    = "admin"
)

// DecodeRoles parses a JSON role-set column; a nil or broken column reads as empty.
func DecodeRoles(raw datatypes.JSON) []string {
	if raw == nil {
		return []string{}
	}
	var roles []string
	if err := json.Unmarshal(raw, &roles); err != nil {
		return []string{}
	}
	return roles
}

func EncodeRoles(roles []string) datatypes.JSON {
	b, err := json.Marshal(roles)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}

// GrantRole appends role to the set if absent. Re-granting a held role is a no-op.
func GrantRole(raw datatypes.JSON, role string) datatypes.JSON {
	roles := DecodeRoles(raw)
	if slices.Contains(roles, role) {
		return EncodeRoles(roles)
	}
	return EncodeRoles(append(roles, role))
}

func HasRole(raw datatypes.JSON, role string) bool {
	return slices.Contains(DecodeRoles(raw), role)
}
