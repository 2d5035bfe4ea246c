package services

import (
	"encoding/json"
	"fmt"

	"drively-server/models"
	"drively-server/storage"
	"drively-server/utils"

	"github.com/sirupsen/logrus"
)

// NotificationService handles push notification fan-out.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotificationData is the data payload used by the mobile app for deep linking.
type NotificationData struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	CarID   string `json:"carId,omitempty"`
	UserID  string `json:"userId,omitempty"`
	OwnerID string `json:"ownerId,omitempty"`
	Screen  string `json:"screen"`
	Params  string `json:"params"`
	Action  string `json:"action,omitempty"`
}

func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}

	return tokens, nil
}

// SendNotificationToUser sends a push to every registered device of a user.
func (ns *NotificationService) SendNotificationToUser(userID uint, title, body string, data NotificationData) error {
	tokens, err := ns.getUserPushTokens(userID)
	if err != nil {
		logrus.WithField("userID", userID).WithError(err).Debug("push skipped")
		return err
	}

	dataMap := map[string]string{
		"type":    data.Type,
		"id":      data.ID,
		"carId":   data.CarID,
		"userId":  data.UserID,
		"ownerId": data.OwnerID,
		"screen":  data.Screen,
		"params":  data.Params,
	}

	var lastError error
	for _, token := range tokens {
		if err := utils.SendNotification(token, title, body, dataMap); err != nil {
			logrus.WithField("token", token).WithError(err).Warn("push delivery failed")
			lastError = err
		}
	}

	return lastError
}

// SendRentalRequestNotificationToOwner notifies an owner about a new booking request.
func (ns *NotificationService) SendRentalRequestNotificationToOwner(rentalID, carID, ownerID, renterID uint, renterName, carName string) error {
	title := "New Rental Request"
	body := fmt.Sprintf("%s requested to rent your %s", renterName, carName)

	params := fmt.Sprintf(`{"rentalId": %d, "carId": %d, "renterId": %d}`, rentalID, carID, renterID)
	data := NotificationData{
		Type:    "rental_requested",
		ID:      fmt.Sprintf("%d", rentalID),
		CarID:   fmt.Sprintf("%d", carID),
		UserID:  fmt.Sprintf("%d", renterID),
		OwnerID: fmt.Sprintf("%d", ownerID),
		Screen:  "OwnerRentalDetail",
		Params:  params,
	}

	return ns.SendNotificationToUser(ownerID, title, body, data)
}

// SendRentalStatusNotificationToRenter notifies a renter about a status change.
func (ns *NotificationService) SendRentalStatusNotificationToRenter(rentalID, carID, renterID uint, status, carName string) error {
	var title, body string
	switch status {
	case "confirmed":
		title = "Rental Confirmed"
		body = fmt.Sprintf("Your rental of %s is confirmed", carName)
	case "active":
		title = "Rental Started"
		body = fmt.Sprintf("Enjoy your trip with %s", carName)
	case "completed":
		title = "Rental Completed"
		body = fmt.Sprintf("Your rental of %s is complete", carName)
	case "cancelled":
		title = "Rental Cancelled"
		body = fmt.Sprintf("Your rental of %s was cancelled", carName)
	default:
		title = "Rental Updated"
		body = fmt.Sprintf("Your rental of %s was updated", carName)
	}

	params := fmt.Sprintf(`{"rentalId": %d, "carId": %d}`, rentalID, carID)
	data := NotificationData{
		Type:   "rental_" + status,
		ID:     fmt.Sprintf("%d", rentalID),
		CarID:  fmt.Sprintf("%d", carID),
		Screen: "RentalDetail",
		Params: params,
	}

	return ns.SendNotificationToUser(renterID, title, body, data)
}

// SendVerificationResultNotification notifies a user after an admin review.
func (ns *NotificationService) SendVerificationResultNotification(userID uint, status string) error {
	title := "Identity Verification"
	body := "Your identity documents were reviewed"
	if status == "verified" {
		body = "You are verified! You can now book and list cars."
	} else if status == "rejected" {
		body = "Your verification was rejected. You can resubmit your documents."
	}

	data := NotificationData{
		Type:   "verification_reviewed",
		ID:     fmt.Sprintf("%d", userID),
		Screen: "VerificationStatus",
		Params: fmt.Sprintf(`{"status": %q}`, status),
	}

	return ns.SendNotificationToUser(userID, title, body, data)
}
