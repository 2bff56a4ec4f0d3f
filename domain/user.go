package domain

import (
	"encoding/json"
	"fmt"
)

// FlexId tolerates the backend's habit of returning identifiers either as
// JSON numbers or as strings (Mongo object ids).
type FlexId string

func (f *FlexId) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexId(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*f = FlexId(n.String())
	return nil
}

func (f FlexId) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}

// User is the authenticated admin identity returned by the auth endpoints.
type User struct {
	Id       FlexId `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}
