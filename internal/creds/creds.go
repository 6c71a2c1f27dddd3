// Package creds loads the connection details of the cloth rig.
package creds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/robot/client"
	"go.viam.com/utils/rpc"
)

// Environment variables consulted when no credentials file is given, and
// for fields the file leaves empty.
const (
	EnvAddress  = "VIAM_ADDRESS"
	EnvEntityID = "VIAM_API_KEY_ID"
	EnvAPIKey   = "VIAM_API_KEY"
)

// ErrIncomplete is returned when a field is missing from both the file and
// the environment.
var ErrIncomplete = errors.New("incomplete robot credentials")

// RobotCredentials holds the connection details for a Viam robot.
type RobotCredentials struct {
	Address  string `json:"address"`
	EntityID string `json:"entity_id"`
	APIKey   string `json:"api_key"`
}

// Load reads robot credentials from a JSON file and fills empty fields from
// the environment. An empty path reads the environment only.
func Load(path string) (*RobotCredentials, error) {
	var c RobotCredentials
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading credentials file: %w", err)
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing credentials file: %w", err)
		}
	}
	fill := func(field *string, env string) {
		if *field == "" {
			*field = os.Getenv(env)
		}
	}
	fill(&c.Address, EnvAddress)
	fill(&c.EntityID, EnvEntityID)
	fill(&c.APIKey, EnvAPIKey)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports the first missing field.
func (c *RobotCredentials) Validate() error {
	switch {
	case c.Address == "":
		return fmt.Errorf("%w: address (or %s)", ErrIncomplete, EnvAddress)
	case c.EntityID == "":
		return fmt.Errorf("%w: entity_id (or %s)", ErrIncomplete, EnvEntityID)
	case c.APIKey == "":
		return fmt.Errorf("%w: api_key (or %s)", ErrIncomplete, EnvAPIKey)
	}
	return nil
}

// Connect dials the robot with an API key.
func (c *RobotCredentials) Connect(ctx context.Context, logger logging.Logger) (*client.RobotClient, error) {
	return client.New(
		ctx,
		c.Address,
		logger,
		client.WithDialOptions(rpc.WithEntityCredentials(
			c.EntityID,
			rpc.Credentials{
				Type:    rpc.CredentialsTypeAPIKey,
				Payload: c.APIKey,
			})),
	)
}
