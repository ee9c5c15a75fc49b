package cache

import (
	"strconv"
	"strings"
)

const (
	GlobalKeyPrefix = "mocktest"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// RankTableKey holds the whole serialized rank table of one exam.
func RankTableKey(examID string) string {
	return GenerateCacheKey("ranking", "table", examID)
}

// LeaderboardKey identifies one cached leaderboard view. Empty filters are part of the key.
func LeaderboardKey(courseID, subjectID, tenantID string) string {
	return GenerateCacheKey("leaderboard", "course", courseID, "s="+subjectID, "t="+tenantID)
}

// LeaderboardKeysFor lists every view an attempt with these attributes can appear in.
func LeaderboardKeysFor(courseID, subjectID, tenantID string) []string {
	keys := []string{LeaderboardKey(courseID, "", "")}
	if subjectID != "" {
		keys = append(keys, LeaderboardKey(courseID, subjectID, ""))
	}
	if tenantID != "" {
		keys = append(keys, LeaderboardKey(courseID, "", tenantID))
	}
	if subjectID != "" && tenantID != "" {
		keys = append(keys, LeaderboardKey(courseID, subjectID, tenantID))
	}
	return keys
}

// LeaderboardGenerationKey holds the counter bumped whenever the view's attempts change.
func LeaderboardGenerationKey(viewKey string) string {
	return viewKey + ":gen"
}

// LeaderboardSnapshotKey is where the view computed under one generation is stored.
// A new generation moves readers to a fresh key, so a view computed from older
// attempts can never be served after the change.
func LeaderboardSnapshotKey(viewKey string, generation int64) string {
	return viewKey + ":g" + strconv.FormatInt(generation, 10)
}
