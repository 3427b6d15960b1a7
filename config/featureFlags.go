package config

import (
	"os"
	"strings"
	"time"
)

func boolFromEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y" || v == "on"
}

// StrictStockFloor rejects sale and production consumption postings that would
// drive a product's stock below zero. Off by default: back-orders are allowed.
//
// Set via env:
// - STRICT_STOCK_FLOOR=true
func StrictStockFloor() bool {
	return boolFromEnv("STRICT_STOCK_FLOOR")
}

// RedisDocumentLocks additionally guards document transitions with a redis lock
// so that several API instances serialize on the same document.
//
// Set via env:
// - DOCUMENT_LOCKS_REDIS=true
func RedisDocumentLocks() bool {
	return boolFromEnv("DOCUMENT_LOCKS_REDIS")
}

// DocumentLockTimeout bounds how long a transition waits for its document lock.
//
// Set via env:
// - DOCUMENT_LOCK_TIMEOUT_SECONDS (default 30)
func DocumentLockTimeout() time.Duration {
	return time.Duration(intFromEnv("DOCUMENT_LOCK_TIMEOUT_SECONDS", 30)) * time.Second
}

// ReportCacheEnabled turns on the redis report cache.
//
// Set via env:
// - ENABLE_REPORT_CACHE=true
func ReportCacheEnabled() bool {
	return boolFromEnv("ENABLE_REPORT_CACHE")
}

// AutoMigrate runs schema migrations on startup.
//
// Set via env:
// - AUTO_MIGRATE=true
func AutoMigrate() bool {
	return boolFromEnv("AUTO_MIGRATE")
}

// PhoneRegion is the default region used to parse phone numbers without a country prefix.
func PhoneRegion() string {
	v := strings.ToUpper(strings.TrimSpace(os.Getenv("PHONE_REGION")))
	if v == "" {
		return "US"
	}
	return v
}
