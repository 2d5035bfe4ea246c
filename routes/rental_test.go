package routes

import (
	"testing"
	"time"

	"drively-server/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRentalsOverlap(t *testing.T) {
	// existing booking 2025-06-01 .. 2025-06-05 (checkout day exclusive)
	existingStart := day("2025-06-01")
	existingEnd := day("2025-06-05")

	// crossing request must conflict
	if !rentalsOverlap(existingStart, existingEnd, day("2025-06-03"), day("2025-06-07")) {
		t.Fatal("expected conflict for overlapping request")
	}

	// adjacent request starting on the checkout day must not conflict
	if rentalsOverlap(existingStart, existingEnd, day("2025-06-05"), day("2025-06-07")) {
		t.Fatal("adjacent request should not conflict")
	}

	// fully contained request must conflict
	if !rentalsOverlap(existingStart, existingEnd, day("2025-06-02"), day("2025-06-03")) {
		t.Fatal("expected conflict for contained request")
	}

	// containing request must conflict
	if !rentalsOverlap(existingStart, existingEnd, day("2025-05-30"), day("2025-06-10")) {
		t.Fatal("expected conflict for containing request")
	}

	// request ending on the existing start day must not conflict
	if rentalsOverlap(existingStart, existingEnd, day("2025-05-28"), day("2025-06-01")) {
		t.Fatal("request ending at existing start should not conflict")
	}
}

func TestValidateRentalDates(t *testing.T) {
	now := day("2025-06-01")

	if err := validateRentalDates(day("2025-06-02"), day("2025-06-04"), now); err != nil {
		t.Fatalf("valid dates rejected: %v", err)
	}

	// end == start
	if err := validateRentalDates(day("2025-06-02"), day("2025-06-02"), now); err == nil {
		t.Fatal("expected rejection when end equals start")
	}

	// end before start
	if err := validateRentalDates(day("2025-06-04"), day("2025-06-02"), now); err == nil {
		t.Fatal("expected rejection when end precedes start")
	}

	// start in the past
	if err := validateRentalDates(day("2025-05-20"), day("2025-05-25"), now); err == nil {
		t.Fatal("expected rejection for past start date")
	}

	// start today is allowed
	if err := validateRentalDates(day("2025-06-01"), day("2025-06-03"), now); err != nil {
		t.Fatalf("same-day start rejected: %v", err)
	}
}

func TestRentalDays(t *testing.T) {
	if got := rentalDays(day("2025-06-01"), day("2025-06-05")); got != 4 {
		t.Fatalf("expected 4 days, got %d", got)
	}
	if got := rentalDays(day("2025-06-01"), day("2025-06-02")); got != 1 {
		t.Fatalf("expected 1 day, got %d", got)
	}
}

func TestComputeRentalAmount(t *testing.T) {
	start, end := day("2025-06-02"), day("2025-06-06") // Mon..Fri, 4 days, no weekend

	if got := computeRentalAmount(50, start, end, nil); got != 200 {
		t.Fatalf("base price: expected 200, got %v", got)
	}

	longTerm := []models.CarPricingRule{
		{RuleType: "long_term", MinDays: 3, Multiplier: 0.8, IsActive: true},
	}
	if got := computeRentalAmount(50, start, end, longTerm); got != 160 {
		t.Fatalf("long_term discount: expected 160, got %v", got)
	}

	// inactive rules are skipped
	inactive := []models.CarPricingRule{
		{RuleType: "long_term", MinDays: 3, Multiplier: 0.8, IsActive: false},
	}
	if got := computeRentalAmount(50, start, end, inactive); got != 200 {
		t.Fatalf("inactive rule applied: expected 200, got %v", got)
	}

	// weekend rule triggers only when the window includes a weekend day
	weekend := []models.CarPricingRule{
		{RuleType: "weekend", Multiplier: 1.5, IsActive: true},
	}
	if got := computeRentalAmount(50, start, end, weekend); got != 200 {
		t.Fatalf("weekday-only window priced as weekend: got %v", got)
	}
	satStart, satEnd := day("2025-06-06"), day("2025-06-09") // Fri..Mon includes Sat+Sun
	if got := computeRentalAmount(50, satStart, satEnd, weekend); got != 225 {
		t.Fatalf("weekend multiplier: expected 225, got %v", got)
	}

	// season rule applies when the request intersects its window
	seasonStart, seasonEnd := day("2025-06-01"), day("2025-07-01")
	season := []models.CarPricingRule{
		{RuleType: "season", Multiplier: 2, IsActive: true, StartsOn: &seasonStart, EndsOn: &seasonEnd},
	}
	if got := computeRentalAmount(50, start, end, season); got != 400 {
		t.Fatalf("season multiplier: expected 400, got %v", got)
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{"pending", "confirmed"},
		{"pending", "cancelled"},
		{"confirmed", "active"},
		{"confirmed", "cancelled"},
		{"active", "completed"},
	}
	for _, tr := range allowed {
		if !canTransition(tr.from, tr.to) {
			t.Fatalf("expected %s -> %s to be allowed", tr.from, tr.to)
		}
	}

	denied := []struct{ from, to string }{
		{"pending", "active"},
		{"pending", "completed"},
		{"active", "cancelled"},
		{"completed", "pending"},
		{"cancelled", "confirmed"},
		{"completed", "active"},
	}
	for _, tr := range denied {
		if canTransition(tr.from, tr.to) {
			t.Fatalf("expected %s -> %s to be denied", tr.from, tr.to)
		}
	}
}

func TestAllowedForParty(t *testing.T) {
	if !allowedForParty(true, false, "confirmed") {
		t.Fatal("owner should be allowed to confirm")
	}
	if allowedForParty(false, true, "confirmed") {
		t.Fatal("renter must not confirm their own rental")
	}
	if !allowedForParty(false, true, "cancelled") {
		t.Fatal("renter should be allowed to cancel")
	}
	if allowedForParty(false, false, "cancelled") {
		t.Fatal("third parties must not transition rentals")
	}
}
