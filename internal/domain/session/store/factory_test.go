package store

import (
	"path/filepath"
	"testing"
)

func TestFactorySelectsDriver(t *testing.T) {
	memory, err := New(Config{Driver: DriverMemory}, Dependencies{})
	if err != nil {
		t.Fatalf("memory driver: %v", err)
	}
	if memory == nil {
		t.Fatal("expected memory store")
	}

	file, err := New(Config{
		Driver: DriverFile,
		File:   &FileConfig{Path: filepath.Join(t.TempDir(), "session.json")},
	}, Dependencies{})
	if err != nil {
		t.Fatalf("file driver: %v", err)
	}
	if file == nil {
		t.Fatal("expected file store")
	}

	sqlite, err := New(Config{Driver: DriverSQLite}, Dependencies{SQLiteDB: newTestSQLiteDB(t)})
	if err != nil {
		t.Fatalf("sqlite driver: %v", err)
	}
	if sqlite == nil {
		t.Fatal("expected sqlite store")
	}
}

func TestFactoryRejectsUnknownDriver(t *testing.T) {
	if _, err := New(Config{Driver: "etcd"}, Dependencies{}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestFactorySQLiteNeedsHandle(t *testing.T) {
	if _, err := New(Config{Driver: DriverSQLite}, Dependencies{}); err == nil {
		t.Fatal("expected error when sqlite handle missing")
	}
}
