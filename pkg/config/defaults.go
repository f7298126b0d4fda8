package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "domus"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr        = "localhost:6379"
	DefaultIdentityCacheTTL = 15 * time.Minute

	DefaultPort = "8080"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultWindowDays        = 5
	DefaultMaxSlotsPerDay    = 8
	DefaultRatingGraceWindow = 24 * time.Hour

	DefaultBookingServiceURL = "http://localhost:8082"

	DefaultPaginationLimit = 100
)
