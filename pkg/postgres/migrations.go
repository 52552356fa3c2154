package postgres

import (
	"database/sql"
	"log"
)

// RunMigrations executes the schema statements for the given service.
// Each service owns its database exclusively; the tracking tables hold the
// user id as a plain integer, never as a foreign key across services.
func RunMigrations(db *sql.DB, service string) error {
	for _, m := range getServiceMigrations(service) {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Printf("Migrations completed for service: %s", service)
	return nil
}

func getServiceMigrations(service string) []string {
	switch service {
	case "user":
		return []string{
			`CREATE TABLE IF NOT EXISTS users (
				id SERIAL PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				email VARCHAR(255) NOT NULL UNIQUE,
				hashed_password VARCHAR(255) NOT NULL,
				role VARCHAR(20) NOT NULL DEFAULT 'user'
			)`,
		}
	case "tracking":
		return []string{
			`CREATE TABLE IF NOT EXISTS symptoms (
				id SERIAL PRIMARY KEY,
				name VARCHAR(255) NOT NULL UNIQUE
			)`,
			`CREATE TABLE IF NOT EXISTS triggers (
				id SERIAL PRIMARY KEY,
				name VARCHAR(255) NOT NULL UNIQUE,
				category VARCHAR(20) NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS sleeps (
				id SERIAL PRIMARY KEY,
				user_id INTEGER NOT NULL,
				duration INTEGER NOT NULL,
				date TIMESTAMP NOT NULL,
				quality VARCHAR(20) NOT NULL,
				comment TEXT NOT NULL DEFAULT '',
				timestamp TIMESTAMP NOT NULL DEFAULT NOW(),
				updated TIMESTAMP NOT NULL DEFAULT NOW(),
				CONSTRAINT sleep_uix_user_date UNIQUE (user_id, date)
			)`,
			`CREATE TABLE IF NOT EXISTS days (
				id SERIAL PRIMARY KEY,
				user_id INTEGER NOT NULL,
				date TIMESTAMP NOT NULL,
				comment TEXT NOT NULL DEFAULT '',
				timestamp TIMESTAMP NOT NULL DEFAULT NOW(),
				updated TIMESTAMP NOT NULL DEFAULT NOW(),
				CONSTRAINT day_uix_user_date UNIQUE (user_id, date)
			)`,
			`CREATE TABLE IF NOT EXISTS sleep_symptom_association (
				sleep_id INTEGER NOT NULL REFERENCES sleeps(id) ON DELETE CASCADE,
				symptom_id INTEGER NOT NULL REFERENCES symptoms(id)
			)`,
			`CREATE TABLE IF NOT EXISTS day_trigger_association (
				day_id INTEGER NOT NULL REFERENCES days(id) ON DELETE CASCADE,
				trigger_id INTEGER NOT NULL REFERENCES triggers(id)
			)`,
			`CREATE TABLE IF NOT EXISTS late_morning_symptom_association (
				day_id INTEGER NOT NULL REFERENCES days(id) ON DELETE CASCADE,
				symptom_id INTEGER NOT NULL REFERENCES symptoms(id)
			)`,
			`CREATE TABLE IF NOT EXISTS afternoon_symptom_association (
				day_id INTEGER NOT NULL REFERENCES days(id) ON DELETE CASCADE,
				symptom_id INTEGER NOT NULL REFERENCES symptoms(id)
			)`,
		}
	default:
		return nil
	}
}
