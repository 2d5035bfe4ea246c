package routes

import (
	"testing"

	"drively-server/models"
	"drively-server/utils"
)

func TestApplyVerificationReviewGrantsRoleOnce(t *testing.T) {
	user := models.User{
		Roles:              utils.EncodeRoles([]string{"renter"}),
		ActiveRole:         "renter",
		VerificationStatus: "pending",
	}

	applyVerificationReview(&user, "verified", "car_owner")

	if user.VerificationStatus != "verified" {
		t.Fatalf("expected status verified, got %s", user.VerificationStatus)
	}
	if user.IsVerified == nil || !*user.IsVerified {
		t.Fatal("expected isVerified true")
	}
	if user.ActiveRole != "car_owner" {
		t.Fatalf("expected active role car_owner, got %s", user.ActiveRole)
	}

	roles := utils.DecodeRoles(user.Roles)
	count := 0
	for _, r := range roles {
		if r == "car_owner" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected car_owner exactly once, got %d occurrences in %v", count, roles)
	}

	// re-approving must not duplicate the role
	applyVerificationReview(&user, "verified", "car_owner")
	roles = utils.DecodeRoles(user.Roles)
	count = 0
	for _, r := range roles {
		if r == "car_owner" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("re-approval duplicated role: %v", roles)
	}
}

func TestApplyVerificationReviewRejection(t *testing.T) {
	user := models.User{
		Roles:              utils.EncodeRoles([]string{"renter"}),
		ActiveRole:         "renter",
		VerificationStatus: "pending",
	}

	applyVerificationReview(&user, "rejected", "car_owner")

	if user.VerificationStatus != "rejected" {
		t.Fatalf("expected status rejected, got %s", user.VerificationStatus)
	}
	if user.IsVerified == nil || *user.IsVerified {
		t.Fatal("expected isVerified false")
	}
	if user.ActiveRole != "renter" {
		t.Fatalf("rejection must not change active role, got %s", user.ActiveRole)
	}
	if utils.HasRole(user.Roles, "car_owner") {
		t.Fatal("rejection must not grant the role")
	}
}
