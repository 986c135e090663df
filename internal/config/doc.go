// Package config provides configuration management for the daily quote mailer.
//
// Configuration is loaded from environment variables using the env package,
// after an optional .env file has been read with godotenv. Everything except
// the three credentials has a default matching the stock deployment
// (Gmail submission on port 587, a two-address mailing list, "Team").
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("mail will be submitted to %s\n", cfg.GetSMTPAddr())
package config
