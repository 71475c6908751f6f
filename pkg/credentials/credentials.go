// Package credentials base64-encodes a username/password pair as a single
// opaque string. A single-purpose helper, not part of the sync scheduler.
package credentials

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

type pair struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Encode returns the base64 encoding of {"username":..., "password":...}.
func Encode(username, password string) string {
	data, _ := json.Marshal(pair{Username: username, Password: password})
	return base64.StdEncoding.EncodeToString(data)
}

// Decode reverses Encode.
func Decode(encoded string) (username, password string, err error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", fmt.Errorf("decoding credentials: %w", err)
	}
	var p pair
	if err := json.Unmarshal(data, &p); err != nil {
		return "", "", fmt.Errorf("unmarshalling credentials: %w", err)
	}
	return p.Username, p.Password, nil
}
