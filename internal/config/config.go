package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The admin credential pair protects the catalog
// management endpoints; the remaining values configure the HTTP server and
// the MySQL connection.
type Config struct {
	Env               string // application environment (e.g. "dev", "prod")
	Port              string // HTTP port to listen on
	DBUser            string // database username
	DBPass            string // database password (optional)
	DBHost            string // database host address
	DBPort            string // database port number
	DBName            string // database name
	JWTSecret         string // secret used to sign admin JWTs
	AccessTTLMin      int    // admin access token time-to-live in minutes
	AdminEmail        string // email accepted by the admin login endpoint
	AdminPasswordHash string // bcrypt hash of the admin password
	BcryptCost        int    // bcrypt cost used when hashing ADMIN_PASSWORD at startup
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Either
// ADMIN_PASSWORD_HASH (a bcrypt hash) or ADMIN_PASSWORD (hashed at startup
// by main) must be provided; that check lives in main so that Load stays a
// pure environment reader.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),                  // environment (dev/test/prod)
		Port:              must("APP_PORT"),                 // port to bind the HTTP server
		DBUser:            must("DB_USER"),                  // database user
		DBPass:            os.Getenv("DB_PASS"),             // database password (empty allowed)
		DBHost:            must("DB_HOST"),                  // database host
		DBPort:            must("DB_PORT"),                  // database port
		DBName:            must("DB_NAME"),                  // database name
		JWTSecret:         must("JWT_SECRET"),               // secret used for signing admin JWTs
		AccessTTLMin:      mustInt("ACCESS_TOKEN_TTL_MIN"),  // TTL for admin access tokens in minutes
		AdminEmail:        must("ADMIN_EMAIL"),              // admin login email
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"), // bcrypt hash (or set ADMIN_PASSWORD)
		BcryptCost:        envIntDefault("BCRYPT_COST", 10), // cost used to hash ADMIN_PASSWORD
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// envIntDefault reads an optional integer variable, falling back to def when
// the variable is unset or malformed.
func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
