package models

// NotificationPreferences is stored outside the relational schema, keyed by user id.
type NotificationPreferences struct {
	EmailNotifications bool `json:"emailNotifications"`
	TaskReminders      bool `json:"taskReminders"`
	SystemUpdates      bool `json:"systemUpdates"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		EmailNotifications: true,
		TaskReminders:      true,
		SystemUpdates:      false,
	}
}
