package fixtures

import (
	"github.com/Jojie16/SafeZone/internal/model"
)

var (
	TestReporter = model.User{
		ID:          1,
		FullName:    "Ana Cruz",
		PhoneNumber: "+639171234567",
	}

	TestReporterSecond = model.User{
		ID:          2,
		FullName:    "Ben Reyes",
		PhoneNumber: "+639181234567",
	}
)

// Manila fallback coordinates written when a trigger carries no GPS fix.
const (
	DefaultLat      = 14.5995
	DefaultLng      = 120.9842
	DefaultAccuracy = 50000.0
)

func NewTriggerRequest(fullName, phoneNumber string) model.AlertTriggerRequest {
	return model.AlertTriggerRequest{
		FullName:       fullName,
		PhoneNumber:    phoneNumber,
		GpsLat:         14.6042,
		GpsLng:         120.9822,
		GpsAccuracy:    15,
		LocationMethod: "gps",
	}
}

func TriggerRequestNoLocation(fullName, phoneNumber string) model.AlertTriggerRequest {
	return model.AlertTriggerRequest{
		FullName:    fullName,
		PhoneNumber: phoneNumber,
	}
}

func TriggerRequestMissingName() model.AlertTriggerRequest {
	return model.AlertTriggerRequest{
		PhoneNumber: "+639171234567",
	}
}

func NewChatRequest(incidentID int64, sender model.Sender, text string) model.ChatMessageRequest {
	return model.ChatMessageRequest{
		IncidentID:  incidentID,
		Sender:      sender,
		MessageText: text,
	}
}

func ChatRequestWithMedia(incidentID int64, sender model.Sender, mediaPath string) model.ChatMessageRequest {
	return model.ChatMessageRequest{
		IncidentID: incidentID,
		Sender:     sender,
		MediaPath:  mediaPath,
	}
}

var (
	ValidPhoneNumbers = []string{
		"+639171234567",
		"+639181234567",
		"09171234567",
		"+14155550100",
	}

	AllowedUploadNames = []string{
		"photo.jpg",
		"photo.jpeg",
		"screenshot.png",
		"reaction.gif",
		"clip.mp4",
		"clip.mov",
		"clip.avi",
	}

	RejectedUploadNames = []string{
		"payload.exe",
		"script.php",
		"archive.zip",
		"noextension",
	}
)
