package model

import "time"

// Device is a registered sync client (one per installed app instance).
type Device struct {
	ID           int       `json:"id"`
	DeviceUUID   string    `json:"device_uuid"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RegisterDeviceRequest enrolls a device and returns a sync token.
type RegisterDeviceRequest struct {
	DeviceUUID string `json:"device_uuid" binding:"required,uuid4"`
	Name       string `json:"name" binding:"required,min=1,max=100"`
}

// AdminLoginRequest exchanges the configured admin key for an admin token.
type AdminLoginRequest struct {
	AdminKey string `json:"admin_key" binding:"required"`
}
