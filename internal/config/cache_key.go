package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AdminSessionKey returns the cache key for an admin's login session
func (r *CacheKeyStruct) AdminSessionKey(adminID int) string {
	return fmt.Sprintf("login:admin:%d", adminID)
}

// LoginAttemptKey returns the cache key for tracking failed logins per address
func (r *CacheKeyStruct) LoginAttemptKey(addr string) string {
	return fmt.Sprintf("login:attempts:%s", addr)
}

var CacheKey = NewCacheKeyStruct()
