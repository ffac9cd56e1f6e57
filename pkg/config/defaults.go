package config

import "time"

const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"

	DefaultStoreBackend = BackendMemory

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "mos_e_form"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 20
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Bookable day bounds, hour-granularity slots within them.
	DefaultDayStart = "08:00"
	DefaultDayEnd   = "17:00"

	DefaultRooms = "Room A,Room B,Room C,Main Conference Room,Lab 1,Lab 2"

	DefaultKafkaBrokers      = ""
	DefaultBookingEventTopic = "bookings.events"
	DefaultLeaveEventTopic   = "leaves.events"

	DefaultPaginationLimit = 100
)
