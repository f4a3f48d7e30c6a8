package config

// StorageConfig selects the photo store: "s3" in production, "local"
// elsewhere.
type StorageConfig struct {
	Provider  string `yaml:"provider"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	CDNDomain string `yaml:"cdn_domain"`
	LocalPath string `yaml:"local_path"`
	LocalURL  string `yaml:"local_url"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Provider:  getEnv("STORAGE_PROVIDER", "local"),
		Region:    getEnv("AWS_REGION", "eu-south-1"),
		Bucket:    getEnv("AWS_S3_BUCKET", "flottapool-photos"),
		CDNDomain: getEnv("AWS_CLOUDFRONT_DOMAIN", ""),
		LocalPath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
		LocalURL:  getEnv("STORAGE_LOCAL_URL", "http://localhost:8080/uploads"),
	}
}
