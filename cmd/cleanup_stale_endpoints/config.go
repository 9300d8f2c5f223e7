package main

import "fmt"

type config struct {
	RDSUsername string `envconfig:"RDS_USERNAME" required:"true"`
	RDSPassword string `envconfig:"RDS_PASSWORD" required:"true"`
	RDSHost     string `envconfig:"RDS_HOST" required:"true"`
	RDSPort     string `envconfig:"RDS_PORT" default:"5432"`
	RDSDBName   string `envconfig:"RDS_DB_NAME" required:"true"`
	MaxAgeDays  int    `envconfig:"ENDPOINT_MAX_AGE_DAYS" default:"90"`
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
