package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizPayloadKey returns the cache key for a quiz's user-facing payload
// (questions without correct options, plus duration).
func (r *CacheKeyStruct) QuizPayloadKey(quizID int) string {
	return fmt.Sprintf("quiz:%d:payload", quizID)
}

// QuizAnswerKey returns the cache key for a quiz's answer key hash.
func (r *CacheKeyStruct) QuizAnswerKey(quizID int) string {
	return fmt.Sprintf("quiz:%d:key", quizID)
}

// QuizStatsKey returns the cache key for a quiz's aggregate statistics.
func (r *CacheKeyStruct) QuizStatsKey(quizID int) string {
	return fmt.Sprintf("quiz:%d:stats", quizID)
}

// UserAnswersKey returns the cache key for a user's autosaved answers
// during an in-progress attempt.
func (r *CacheKeyStruct) UserAnswersKey(quizID, userID int) string {
	return fmt.Sprintf("user:%d:quiz:%d:answers", userID, quizID)
}

var CacheKey = NewCacheKeyStruct()
