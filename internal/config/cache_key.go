package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TestPayloadKey returns the cache key for a test's student-facing payload
func (r *CacheKeyStruct) TestPayloadKey(testID string) string {
	return fmt.Sprintf("test:%s:payload", testID)
}

// TestAnswerKey returns the cache key for a test's answer key hash
func (r *CacheKeyStruct) TestAnswerKey(testID string) string {
	return fmt.Sprintf("test:%s:key", testID)
}

// StudentDraftsKey returns the cache key for a student's draft answers on a test
func (r *CacheKeyStruct) StudentDraftsKey(testID string, studentID int) string {
	return fmt.Sprintf("student:%d:test:%s:drafts", studentID, testID)
}

// TestMonitorChannel returns the Redis PubSub channel name for a test monitor
func (r *CacheKeyStruct) TestMonitorChannel(testID string) string {
	return fmt.Sprintf("test:%s:monitor", testID)
}

// UserRevokedKey returns the cache key marking a user's tokens as revoked
func (r *CacheKeyStruct) UserRevokedKey(userID int) string {
	return fmt.Sprintf("user:%d:revoked", userID)
}

// ExportJobKey returns the cache key for an export job's status record
func (r *CacheKeyStruct) ExportJobKey(jobID string) string {
	return fmt.Sprintf("export:%s:job", jobID)
}

var CacheKey = NewCacheKeyStruct()
