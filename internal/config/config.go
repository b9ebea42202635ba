package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	DatabaseURL    string   `env:"DATABASE_URL,required"`
	JWTSecret      string   `env:"JWT_SECRET"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:5174"`

	Booking struct {
		// MinHours is the single source of truth for the minimum bookable
		// duration; validation and the UI both read it from here.
		MinHours   float64       `env:"MIN_BOOKING_HOURS" envDefault:"1"`
		PendingTTL time.Duration `env:"PENDING_BOOKING_TTL" envDefault:"30m"`
		ExpireCron string        `env:"PENDING_EXPIRE_CRON" envDefault:"*/10 * * * *"`
	}

	Stripe struct {
		SecretKey     string `env:"STRIPE_SECRET_KEY"`
		WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
		SuccessURL    string `env:"STRIPE_SUCCESS_URL" envDefault:"http://localhost:5173/booking/confirmation?session_id={CHECKOUT_SESSION_ID}"`
		CancelURL     string `env:"STRIPE_CANCEL_URL" envDefault:"http://localhost:5173/booking/failed?session_id={CHECKOUT_SESSION_ID}"`
	}

	SendGrid struct {
		APIKey    string `env:"SENDGRID_API_KEY"`
		FromEmail string `env:"SENDGRID_FROM_EMAIL"`
		FromName  string `env:"SENDGRID_FROM_NAME" envDefault:"Turfit"`
	}

	Twilio struct {
		AccountSID string `env:"TWILIO_ACCOUNT_SID"`
		AuthToken  string `env:"TWILIO_AUTH_TOKEN"`
		FromNumber string `env:"TWILIO_FROM_NUMBER"`
	}

	RabbitMQ struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED"`
		URL      string `env:"RABBITMQ_URL"`
		Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"turf.slot-updates"`
	}

	Cache struct {
		Enabled  bool `env:"CACHE_ENABLED" envDefault:"true"`
		TurfSize int  `env:"CACHE_TURF_SIZE" envDefault:"256"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
