package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// DeviceSessionKey returns the cache key for a registered device's session.
func (r *CacheKeyStruct) DeviceSessionKey(deviceID int) string {
	return fmt.Sprintf("device:%d:session", deviceID)
}

// DeviceWatermarkKey returns the cache key holding the last watermark a
// device acknowledged. Diagnostic only — the client owns its watermark.
func (r *CacheKeyStruct) DeviceWatermarkKey(deviceID int) string {
	return fmt.Sprintf("device:%d:watermark", deviceID)
}

// SyncNotifyChannel returns the Redis PubSub channel for reference-data
// change hints pushed to connected sync clients.
func (r *CacheKeyStruct) SyncNotifyChannel() string {
	return "sync:notify"
}

var CacheKey = NewCacheKeyStruct()
