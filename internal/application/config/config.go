package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pion/webrtc/v4"
)

type Config struct {
	Debug bool   `env:"DEBUG" envDefault:"false"`
	Host  string `env:"HOST" envDefault:"localhost"`
	Port  string `env:"PORT" envDefault:"3001"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9091"`

	// FrontendBaseURL is prepended to relative room URLs in API responses.
	FrontendBaseURL string   `env:"FRONTEND_BASE_URL" envDefault:"http://localhost:3000"`
	AllowedOrigins  []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	SRS      SRSConfig
	Postgres PostgresConfig
	Poller   PollerConfig
	Cleanup  CleanupConfig
	Presence PresenceConfig
	Coturn   CoturnConfig

	// StunServers are handed out with access tokens. TURN entries are
	// appended at token time when Coturn is configured.
	StunServers []webrtc.ICEServer
}

type SRSConfig struct {
	Host       string `env:"SRS_SERVER_IP" envDefault:"localhost"`
	APIPort    int    `env:"SRS_API_PORT" envDefault:"1985"`
	WebRTCPort int    `env:"SRS_WEBRTC_PORT" envDefault:"8000"`
	HTTPPort   int    `env:"SRS_HTTP_PORT" envDefault:"8080"`
}

// APIURL is the base URL of the SRS HTTP API.
func (s *SRSConfig) APIURL() string {
	return fmt.Sprintf("http://%s:%d", s.Host, s.APIPort)
}

// HTTPURL is the base URL SRS serves HLS segments from.
func (s *SRSConfig) HTTPURL() string {
	return fmt.Sprintf("http://%s:%d", s.Host, s.HTTPPort)
}

type PostgresConfig struct {
	URL string `env:"POSTGRES_URL"`

	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Name     string `env:"POSTGRES_NAME" envDefault:"pixelcast"`
	SSL      string `env:"POSTGRES_SSL" envDefault:"disable"`
}

func (p *PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}

	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.Name,
		p.SSL,
	)
}

type PollerConfig struct {
	Interval          time.Duration `env:"POLL_INTERVAL" envDefault:"2s"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL" envDefault:"30s"`
	RequestTimeout    time.Duration `env:"SRS_REQUEST_TIMEOUT" envDefault:"5s"`
}

type CleanupConfig struct {
	Interval        time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1m"`
	IdleTimeout     time.Duration `env:"ROOM_IDLE_TIMEOUT" envDefault:"15m"`
	ClientThreshold int           `env:"SRS_CLIENT_THRESHOLD" envDefault:"0"`
}

type PresenceConfig struct {
	TTL time.Duration `env:"PRESENCE_TTL" envDefault:"30s"`
}

// CoturnConfig is optional; when Host is empty only STUN servers are
// handed out.
type CoturnConfig struct {
	Host   string `env:"COTURN_HOST"`
	Secret string `env:"COTURN_SECRET"`
}

func New() (*Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	c.StunServers = []webrtc.ICEServer{
		{URLs: []string{"stun:stun.l.google.com:19302"}},
		{URLs: []string{"stun:stun1.l.google.com:19302"}},
		{URLs: []string{"stun:stun2.l.google.com:19302"}},
	}

	return &c, nil
}
