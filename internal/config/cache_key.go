package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RefreshTokenKey returns the cache key for an account's refresh token JTI.
func (r *CacheKeyStruct) RefreshTokenKey(accountID int) string {
	return fmt.Sprintf("refresh:%d", accountID)
}

// QuizPayloadKey returns the cache key for a quiz's student-facing payload.
func (r *CacheKeyStruct) QuizPayloadKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:payload", quizID)
}

// QuizAnswerKey returns the cache key for a quiz's answer key hash.
func (r *CacheKeyStruct) QuizAnswerKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:key", quizID)
}

// RatingSummaryKey returns the cache key for a rating target's aggregate.
func (r *CacheKeyStruct) RatingSummaryKey(target, targetID string) string {
	return fmt.Sprintf("rating:%s:%s:summary", target, targetID)
}

// SectionChatChannel returns the Redis PubSub channel for a section's chat room.
func (r *CacheKeyStruct) SectionChatChannel(sectionID string) string {
	return fmt.Sprintf("section:%s:chat", sectionID)
}

var CacheKey = NewCacheKeyStruct()
