package main

import (
	"fmt"
	"time"
)

type config struct {
	RDSUsername string        `envconfig:"RDS_USERNAME" required:"true"`
	RDSPassword string        `envconfig:"RDS_PASSWORD" required:"true"`
	RDSHost     string        `envconfig:"RDS_HOST" required:"true"`
	RDSPort     string        `envconfig:"RDS_PORT" default:"5432"`
	RDSDBName   string        `envconfig:"RDS_DB_NAME" required:"true"`
	FCMKey      string        `envconfig:"FCM_SERVER_KEY" required:"true"`
	FCMTimeout  time.Duration `envconfig:"FCM_TIMEOUT" default:"10s"`
	Lang        string        `envconfig:"NOTIFICATION_LANG" default:"en"`
}

func (c *config) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s connect_timeout=5",
		c.RDSHost,
		c.RDSPort,
		c.RDSUsername,
		c.RDSDBName,
		c.RDSPassword,
	)
}
