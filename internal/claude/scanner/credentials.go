package scanner

import (
	"encoding/json"
	"fmt"
	"os"
)

// Credentials is the plan information read from ~/.claude/.credentials.json.
type Credentials struct {
	AccessToken      string
	SubscriptionType string
	RateLimitTier    string
}

// credentialsFile mirrors the on-disk credentials layout.
type credentialsFile struct {
	ClaudeAiOauth struct {
		AccessToken      string `json:"accessToken"`
		SubscriptionType string `json:"subscriptionType"`
		RateLimitTier    string `json:"rateLimitTier"`
	} `json:"claudeAiOauth"`
}

// ReadCredentials loads the credentials file. Missing plan fields default to
// "unknown"; a missing or malformed file is an error because nothing
// requiring credentials can proceed without it.
func ReadCredentials(path string) (*Credentials, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read credentials: %w", err)
	}

	var file credentialsFile
	if err := json.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("cannot parse credentials: %w", err)
	}

	creds := &Credentials{
		AccessToken:      file.ClaudeAiOauth.AccessToken,
		SubscriptionType: file.ClaudeAiOauth.SubscriptionType,
		RateLimitTier:    file.ClaudeAiOauth.RateLimitTier,
	}
	if creds.SubscriptionType == "" {
		creds.SubscriptionType = "unknown"
	}
	if creds.RateLimitTier == "" {
		creds.RateLimitTier = "unknown"
	}
	return creds, nil
}

// AccessToken returns the OAuth bearer token from the credentials file.
func AccessToken(path string) (string, error) {
	creds, err := ReadCredentials(path)
	if err != nil {
		return "", err
	}
	if creds.AccessToken == "" {
		return "", fmt.Errorf("no access token found in credentials")
	}
	return creds.AccessToken, nil
}
