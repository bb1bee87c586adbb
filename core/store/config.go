package store

// Config holds configuration for the session store.
type Config struct {
	// Backend selects the store implementation (memory, mongo, database).
	Backend string `mapstructure:"backend" default:"memory"`
	// MongoURI is the MongoDB connection string for the mongo backend.
	MongoURI string `mapstructure:"mongo_uri" default:"mongodb://localhost:27017"`
	// MongoDatabase is the MongoDB database name for the mongo backend.
	MongoDatabase string `mapstructure:"mongo_database" default:"scansync"`
}

const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendDatabase = "database"
)

// IsValidBackend checks if the configured backend is valid.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendMemory, BackendMongo, BackendDatabase:
		return true
	default:
		return false
	}
}
