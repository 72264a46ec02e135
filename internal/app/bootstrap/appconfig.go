// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// Values come from environment variables (LEAGUEHUB_*), configuration
// files, or command-line flags, loaded in LoadConfig. WAFFLE's CoreConfig
// handles framework-level settings (ports, TLS, logging level, CORS);
// AppConfig is everything specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer token verification key. Must be strong in production; tokens
	// are HS256-signed with this secret.
	AuthSecret string

	// Blob storage for league logos: "local" or "s3".
	StorageType      string
	StorageLocalPath string
	StorageLocalURL  string

	// S3 configuration (only used if StorageType is "s3"). Endpoint is
	// optional and points at S3-compatible stores like MinIO.
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Endpoint  string
	StorageS3AccessKey string
	StorageS3SecretKey string
	StorageS3BaseURL   string

	// SyncWatcher controls the change-stream watcher. Disable on
	// standalone MongoDB deployments that lack change streams; profile
	// writes still fan out inline.
	SyncWatcher bool
}
