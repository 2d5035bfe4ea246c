package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName           string         `json:"firstName"`
	LastName            string         `json:"lastName"`
	Email               string         `json:"email" gorm:"uniqueIndex"`
	PhoneNumber         string         `json:"phoneNumber" gorm:"index"`
	Password            string         `json:"password"`
	SocialLogin         bool           `json:"socialLogin"`
	SocialProvider      string         `json:"socialProvider"`
	AvatarURL           string         `json:"avatarURL"`
	DateOfBirth         string         `json:"dateOfBirth"`
	Bio                 string         `json:"bio"`
	IsGuest             bool           `json:"isGuest" gorm:"default:false"`
	Roles               datatypes.JSON `json:"roles"` // renter, car_owner, admin
	ActiveRole          string         `json:"activeRole" gorm:"type:varchar(20);default:renter;index"`
	IsVerified          *bool          `json:"isVerified"`
	VerificationStatus  string         `json:"verificationStatus" gorm:"type:varchar(20);default:pending;index"` // pending, verified, rejected
	DriverLicense       string         `json:"driverLicense"`
	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
	Cars                []Car          `json:"cars" gorm:"foreignKey:OwnerID;references:ID"`
}

// Custom JSON marshaling so the JSON columns come out as arrays, never raw bytes
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Roles      []string `json:"roles"`
		PushTokens []string `json:"pushTokens,omitempty"`
		Cars       []Car    `json:"cars,omitempty"`
		*Alias
	}{
		Roles:      []string{},
		PushTokens: []string{},
		Alias:      (*Alias)(u),
	}

	if u.Roles != nil {
		var roles []string
		if err := json.Unmarshal(u.Roles, &roles); err == nil {
			aux.Roles = roles
		}
	}

	if u.PushTokens != nil {
		var tokens []string
		if err := json.Unmarshal(u.PushTokens, &tokens); err == nil {
			aux.PushTokens = tokens
		}
	}

	// Cars is excluded to prevent a circular reference with Car.Owner
	return json.Marshal(aux)
}
