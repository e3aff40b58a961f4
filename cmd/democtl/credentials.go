package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// credentials is the operator identity stored in the INI credentials file.
type credentials struct {
	BaseURL  string
	Email    string
	Password string
	Token    string
}

// credentialsPath returns the default credentials file location.
func credentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".demoforge", "credentials.ini")
	}
	return filepath.Join(home, ".demoforge", "credentials.ini")
}

// loadCredentials reads the credentials file. A missing file is not an
// error; it yields empty credentials so unauthenticated commands still work.
func loadCredentials(path string) (*credentials, error) {
	creds := &credentials{BaseURL: "http://localhost:8080"}

	file, err := ini.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			return creds, nil
		}
		return nil, fmt.Errorf("failed to load credentials file %s: %w", path, err)
	}

	api := file.Section("api")
	if v := api.Key("base_url").String(); v != "" {
		creds.BaseURL = v
	}
	creds.Token = api.Key("token").String()

	operator := file.Section("operator")
	creds.Email = operator.Key("email").String()
	creds.Password = operator.Key("password").String()

	return creds, nil
}

// saveToken writes the issued token back into the credentials file so later
// commands pick it up.
func saveToken(path, token string) error {
	file, err := ini.Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load credentials file %s: %w", path, err)
		}
		file = ini.Empty()
	}

	file.Section("api").Key("token").SetValue(token)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save credentials file %s: %w", path, err)
	}
	return os.Chmod(path, 0o600)
}
