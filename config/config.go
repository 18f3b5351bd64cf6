package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"wanderlog-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// PostgreSQL
	DatabaseHost                string        `env:"DB_HOST" env-default:""`
	DatabasePort                int           `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName            string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword            string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                string        `env:"DB_NAME" env-default:"wanderlog"`
	DatabaseSSLMode             string        `env:"DB_SSL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns        int           `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	DatabaseMaxIdleConns        int           `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	DatabaseConnMaxLifetime     time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	DatabaseMigrationFolderPath string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`

	// Kafka Consumer (ingestion pipelines publish import envelopes here)
	KafkaBrokers         []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaImportTopic     string   `env:"KAFKA_IMPORT_TOPIC" env-default:"place-imports"`
	KafkaConsumerGroup   string   `env:"KAFKA_CONSUMER_GROUP" env-default:"wanderlog-import-consumer"`
	KafkaConsumerEnabled bool     `env:"KAFKA_CONSUMER_ENABLED" env-default:"true"`

	// Kafka Producer settings
	KafkaEventsTopic  string `env:"KAFKA_EVENTS_TOPIC" env-default:"place-events"`
	KafkaBatchSize    int    `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int    `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int    `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Matching thresholds
	MatchMinNameSimilarity  float64 `env:"MATCH_MIN_NAME_SIMILARITY" env-default:"0.70"`
	MatchHighConfidence     float64 `env:"MATCH_HIGH_CONFIDENCE_SIMILARITY" env-default:"0.95"`
	MatchMediumConfidence   float64 `env:"MATCH_MEDIUM_CONFIDENCE_SIMILARITY" env-default:"0.85"`
	MatchHighMaxMeters      float64 `env:"MATCH_HIGH_MAX_METERS" env-default:"2000"`
	MatchMediumMaxMeters    float64 `env:"MATCH_MEDIUM_MAX_METERS" env-default:"1000"`
	MatchBaseMaxMeters      float64 `env:"MATCH_BASE_MAX_METERS" env-default:"500"`
	MatchNameWeight         float64 `env:"MATCH_NAME_WEIGHT" env-default:"0.8"`
	MatchProximityWeight    float64 `env:"MATCH_PROXIMITY_WEIGHT" env-default:"0.2"`
	IdentityRadiusMeters    float64 `env:"IDENTITY_RADIUS_METERS" env-default:"500"`
	IdentityScoreThreshold  float64 `env:"IDENTITY_SCORE_THRESHOLD" env-default:"0.85"`

	// Result shaping
	AllocatorMinPerCategory int `env:"ALLOCATOR_MIN_PER_CATEGORY" env-default:"2"`
	AllocatorMaxPerCategory int `env:"ALLOCATOR_MAX_PER_CATEGORY" env-default:"10"`
	AllocatorFlatModeBelow  int `env:"ALLOCATOR_FLAT_MODE_BELOW" env-default:"5"`

	// Classification
	CategoryLocale string `env:"CATEGORY_LOCALE" env-default:""`

	// OpenAI proposer
	OpenAIAPIKey      string  `env:"OPENAI_API_KEY" env-default:""`
	OpenAIBaseURL     string  `env:"OPENAI_BASE_URL" env-default:""`
	OpenAIModel       string  `env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	OpenAIMaxTokens   int     `env:"OPENAI_MAX_TOKENS" env-default:"2000"`
	OpenAITemperature float64 `env:"OPENAI_TEMPERATURE" env-default:"0.7"`
	OpenAITimeout     int     `env:"OPENAI_TIMEOUT_SECONDS" env-default:"30"`

	// Live place search provider
	PlacesBaseURL     string  `env:"PLACES_BASE_URL" env-default:"https://maps.googleapis.com/maps/api/place"`
	PlacesAPIKey      string  `env:"PLACES_API_KEY" env-default:""`
	PlacesTimeout     int     `env:"PLACES_TIMEOUT_SECONDS" env-default:"10"`
	PlacesRPS         float64 `env:"PLACES_REQUESTS_PER_SECOND" env-default:"10"`
	PlacesBurst       int     `env:"PLACES_BURST" env-default:"5"`
	PlacesCacheTTLMin int     `env:"PLACES_CACHE_TTL_MINUTES" env-default:"5"`
}
