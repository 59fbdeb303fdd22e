package config

import (
	"fmt"
)

// WithPort sets the server port.
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing).
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase configures the database backend.
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithProviderCredentials sets the transformation provider account.
func WithProviderCredentials(cloudName, apiKey, apiSecret string) Option {
	return func(c *ServerConfig) error {
		c.Provider.CloudName = cloudName
		c.Provider.APIKey = apiKey
		c.Provider.APISecret = apiSecret
		return nil
	}
}

// WithProviderEndpoints overrides the provider upload and delivery origins.
// Intended for tests against a local stand-in.
func WithProviderEndpoints(uploadBaseURL, deliveryBaseURL string) Option {
	return func(c *ServerConfig) error {
		if uploadBaseURL != "" {
			c.Provider.UploadBaseURL = uploadBaseURL
		}
		if deliveryBaseURL != "" {
			c.Provider.DeliveryBaseURL = deliveryBaseURL
		}
		return nil
	}
}

// WithMemoryArchive enables the in-memory originals archive.
func WithMemoryArchive() Option {
	return func(c *ServerConfig) error {
		c.ArchiveType = "memory"
		return nil
	}
}

// WithFilesystemArchive enables the filesystem originals archive.
func WithFilesystemArchive(baseDir string) Option {
	return func(c *ServerConfig) error {
		if baseDir == "" {
			return fmt.Errorf("archive base directory cannot be empty")
		}
		c.ArchiveType = "fs"
		c.Archive.BaseDir = baseDir
		return nil
	}
}

// WithS3Archive enables the S3 originals archive.
func WithS3Archive(bucket, region string) Option {
	return func(c *ServerConfig) error {
		if bucket == "" {
			return fmt.Errorf("S3 bucket cannot be empty")
		}
		if region == "" {
			region = "us-east-1"
		}
		c.ArchiveType = "s3"
		c.Archive.Bucket = bucket
		c.Archive.Region = region
		return nil
	}
}

// WithS3Credentials sets static AWS credentials for the S3 archive. Without
// them the default AWS credential chain applies.
func WithS3Credentials(accessKeyID, secretAccessKey string) Option {
	return func(c *ServerConfig) error {
		c.Archive.AccessKeyID = accessKeyID
		c.Archive.SecretAccessKey = secretAccessKey
		return nil
	}
}

// WithS3Endpoint sets a custom S3 endpoint (for MinIO, LocalStack, etc.).
func WithS3Endpoint(endpoint string, usePathStyle bool) Option {
	return func(c *ServerConfig) error {
		c.Archive.Endpoint = endpoint
		c.Archive.UsePathStyle = usePathStyle
		return nil
	}
}

// WithAuthSecret sets the session token signing secret.
func WithAuthSecret(secret string) Option {
	return func(c *ServerConfig) error {
		if secret == "" {
			return fmt.Errorf("auth secret cannot be empty")
		}
		c.AuthSecret = secret
		return nil
	}
}

// WithEventLogging enables or disables event logging.
func WithEventLogging(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableEventLogging = enabled
		return nil
	}
}
