package config

import "github.com/caarlos0/env/v9"

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	SiteURL string `env:"SITE_URL" envDefault:"http://localhost:8080"`

	DBUser     string `env:"DB_USER,required"`
	DBPassword string `env:"DB_PASSWORD,required"`
	DBHost     string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName     string `env:"DB_NAME,required"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`

	// ReviewEnabled gates the staff review workflow. When false, works are
	// persisted already approved and no review step exists.
	ReviewEnabled bool `env:"REVIEW_ENABLED" envDefault:"true"`

	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	StripePriceID       string `env:"STRIPE_PRICE_ID"`
	CreditsPerPurchase  int    `env:"CREDITS_PER_PURCHASE" envDefault:"5"`
	CreditPriceCents    int    `env:"CREDIT_PRICE_CENTS" envDefault:"200"`
	Currency            string `env:"CURRENCY" envDefault:"GBP"`

	StorageBucket string `env:"STORAGE_BUCKET"`
	UploadDir     string `env:"UPLOAD_DIR" envDefault:"uploads"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"no-reply@factumhumanum.example"`
	EmailName    string `env:"EMAIL_FROM_NAME" envDefault:"Factum Humanum"`

	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`
	AdminToken        string `env:"ADMIN_TOKEN"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
