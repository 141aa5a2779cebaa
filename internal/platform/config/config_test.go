package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := load(viper.New())
	s.Require().NoError(err)

	s.Equal(":8080", cfg.Server.Addr)
	s.Equal("memory", cfg.Sequence.Backend)
	s.Equal(10*time.Minute, cfg.OTP.VerificationTTL)
	s.Equal(24*time.Hour, cfg.JWT.IndividualTTL)
	s.Equal(7*24*time.Hour, cfg.JWT.OrganizationTTL)
	s.Empty(cfg.Kafka.Brokers)
}

func (s *ConfigSuite) TestEnvironmentOverrides() {
	s.T().Setenv("DATABASE_URL", "postgres://consultly@localhost/consultly")
	s.T().Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	s.T().Setenv("JWT_ORGANIZATION_TTL", "720h")
	s.T().Setenv("RATE_LIMIT_BURST", "3")

	cfg, err := load(viper.New())
	s.Require().NoError(err)

	s.Equal("postgres", cfg.Sequence.Backend, "database URL selects postgres sequences")
	s.Equal([]string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	s.Equal(720*time.Hour, cfg.JWT.OrganizationTTL)
	s.Equal(3, cfg.RateLimit.Burst)
}

func (s *ConfigSuite) TestValidation() {
	s.Run("production rejects the development signing key", func() {
		s.T().Setenv("ENVIRONMENT", "production")
		s.T().Setenv("DATABASE_URL", "postgres://db")
		_, err := load(viper.New())
		s.ErrorContains(err, "JWT_SIGNING_KEY")
	})

	s.Run("redis sequences need a redis url", func() {
		s.T().Setenv("ENVIRONMENT", "development")
		s.T().Setenv("SEQUENCE_BACKEND", "redis")
		_, err := load(viper.New())
		s.ErrorContains(err, "REDIS_URL")
	})

	s.Run("admin bootstrap needs both email and password", func() {
		s.T().Setenv("SEQUENCE_BACKEND", "memory")
		s.T().Setenv("ADMIN_EMAIL", "ops@consultly.test")
		_, err := load(viper.New())
		s.ErrorContains(err, "ADMIN_PASSWORD")
	})
}
