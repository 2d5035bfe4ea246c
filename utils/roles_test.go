package utils

import (
	"testing"

	"gorm.io/datatypes"
)

func TestGrantRoleIdempotent(t *testing.T) {
	roles := EncodeRoles([]string{RoleRenter})

	roles = GrantRole(roles, RoleCarOwner)
	if !HasRole(roles, RoleCarOwner) {
		t.Fatal("expected car_owner after grant")
	}

	roles = GrantRole(roles, RoleCarOwner)
	decoded := DecodeRoles(roles)
	count := 0
	for _, r := range decoded {
		if r == RoleCarOwner {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected car_owner once, got %d in %v", count, decoded)
	}
	if !HasRole(roles, RoleRenter) {
		t.Fatal("existing roles must survive a grant")
	}
}

func TestDecodeRolesTolerant(t *testing.T) {
	if got := DecodeRoles(nil); len(got) != 0 {
		t.Fatalf("nil column should decode empty, got %v", got)
	}
	if got := DecodeRoles(datatypes.JSON(`not json`)); len(got) != 0 {
		t.Fatalf("broken column should decode empty, got %v", got)
	}
}

func TestGrantRoleOnEmptySet(t *testing.T) {
	roles := GrantRole(nil, RoleRenter)
	if !HasRole(roles, RoleRenter) {
		t.Fatal("grant on nil set should create the set")
	}
}
