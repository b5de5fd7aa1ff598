package database

import (
	"testing"

	appconfig "github.com/GTDGit/gtd_ongkir/internal/config"
)

func TestDSNEscapesCredentials(t *testing.T) {
	got := DSN(&appconfig.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "ongkir",
		Password: "p@ss/word",
		Name:     "ongkir",
		SSLMode:  "disable",
	})
	want := "postgres://ongkir:p%40ss%2Fword@db:5432/ongkir?sslmode=disable"
	if got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}

func TestConnectNilConfig(t *testing.T) {
	if _, err := Connect(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
