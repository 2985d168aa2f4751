package configuration

type ConfigProvider interface {
	GetApplication() *AppConfigurationProperties
	GetMongo() *MongoConfigurationProperties
	GetCredentials() *CredentialsConfigurationProperties
	GetMetrics() *MetricsConfigurationProperties
}

type AppConfigProvider struct {
	config *Properties
}

func NewProvider(cfg *Properties) *AppConfigProvider {
	return &AppConfigProvider{config: cfg}
}

func (c *AppConfigProvider) GetApplication() *AppConfigurationProperties {
	return &c.config.App
}

func (c *AppConfigProvider) GetMongo() *MongoConfigurationProperties {
	return &c.config.Mongo
}

func (c *AppConfigProvider) GetCredentials() *CredentialsConfigurationProperties {
	return &c.config.Credentials
}

func (c *AppConfigProvider) GetMetrics() *MetricsConfigurationProperties {
	return &c.config.Metrics
}
