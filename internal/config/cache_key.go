package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key for a student's session
func (r *CacheKeyStruct) StudentSessionKey(studentID int) string {
	return fmt.Sprintf("login:%d", studentID)
}

// SurveyCompletedCountKey returns the cache key for a survey's completed response count
func (r *CacheKeyStruct) SurveyCompletedCountKey(surveyID int) string {
	return fmt.Sprintf("survey:%d:completed_count", surveyID)
}

// SurveyMonitorChannel returns the Redis PubSub channel name for a survey monitor
func (r *CacheKeyStruct) SurveyMonitorChannel(surveyID int) string {
	return fmt.Sprintf("survey:%d:monitor", surveyID)
}

var CacheKey = NewCacheKeyStruct()
