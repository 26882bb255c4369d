// Package output prints command results either for people or as JSON, and
// renders weeks as tables.
package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// ErrorPayload is the JSON body printed for a failed command.
type ErrorPayload struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Write prints human when asJSON is false, payload otherwise.
func Write(w io.Writer, asJSON bool, human string, payload any) error {
	if asJSON {
		return WriteJSON(w, payload)
	}
	_, err := fmt.Fprintln(w, human)
	return err
}

func WriteJSON(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// WriteError reports err under a machine-readable code. The human form is a
// single "Error: ..." line.
func WriteError(w io.Writer, asJSON bool, code string, err error) error {
	return Write(w, asJSON, "Error: "+err.Error(), NewErrorPayload(code, err.Error(), nil))
}

func NewErrorPayload(code, message string, details any) ErrorPayload {
	return ErrorPayload{Code: code, Message: message, Details: details}
}
